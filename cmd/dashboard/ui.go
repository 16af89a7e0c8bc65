package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apex-am/internal/dashboard"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

var (
	accent       = lipgloss.Color("#8BC34A")
	destructive  = lipgloss.Color("#e53935")
	muted        = lipgloss.Color("#6b7280")
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Foreground(destructive)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func printToasts(w io.Writer, items []dashboard.Notification) {
	for _, n := range items {
		if n.Type == dashboard.NotifySuccess {
			fmt.Fprintln(w, successStyle.Render("✔ "+n.Message))
		} else {
			fmt.Fprintln(w, errorStyle.Render("✖ "+n.Message))
		}
	}
}

func pageFooter(page, total, count int, noun string) string {
	if count == 0 {
		return mutedStyle.Render("No results")
	}
	return mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d %s)", page, total, count, noun))
}

func roleBadge(role string) string { return badgeStyle.Render(policy.RoleLabel(role)) }

func tabsLine(tabs []policy.Tab) string {
	names := make([]string, 0, len(tabs))
	for _, t := range tabs {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }
