// Package pdf genera el reporte de cartera de negocios en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + usuario/rol │ Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Negocio | Contables | Ingresos | Utilidad | Var% ... │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ingresos / Utilidad neta                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apex-am/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorRed     = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.PortfolioPDFGenerator = (*MarotoPortfolioGenerator)(nil)

// MarotoPortfolioGenerator implementa usecase.PortfolioPDFGenerator usando Maroto v2.
type MarotoPortfolioGenerator struct{}

// NewMarotoPortfolioGenerator construye el generador.
func NewMarotoPortfolioGenerator() *MarotoPortfolioGenerator { return &MarotoPortfolioGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPortfolioGenerator) Generate(report *usecase.PortfolioReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(report.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No businesses found", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
		)))
	}
	for _, r := range tableDetailRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *usecase.PortfolioReport) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", r.GeneratedBy, r.RoleLabel), props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generated", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("%d businesses", len(r.Rows)), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Business", 4, align.Left),
		h("Accountants", 1, align.Center),
		h("Revenue", 2, align.Right),
		h("Net profit", 2, align.Right),
		h("Rev. chg", 1, align.Right),
		h("Docs due", 1, align.Center),
		h("Year end", 1, align.Center),
	)
}

// tableDetailRows una fila por negocio; sin métricas se muestra "—".
func tableDetailRows(rows []usecase.PortfolioRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, d := range rows {
		revenue, profit, change := "—", "—", "—"
		changeColor := colorGray
		if d.HasMetrics {
			revenue = "$" + formatMoney(d.Revenue)
			profit = "$" + formatMoney(d.NetProfit)
			change = d.RevenueChangePct.StringFixed(1) + "%"
			changeColor = colorGreen
			if d.RevenueChangePct.IsNegative() {
				changeColor = colorRed
			}
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(d.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(d.Accountants), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(revenue, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(profit, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(change, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: changeColor})),
			col.New(1).Add(text.New(strconv.Itoa(d.DocumentsDue), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(nonEmpty(d.YearEnd, "—"), props.Text{Size: 7, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func totalsRow(r *usecase.PortfolioReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Total revenue:"), label("Total net profit:")),
		col.New(3).Add(value("$"+formatMoney(r.TotalRevenue)), value("$"+formatMoney(r.TotalNetProfit))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a unidades e inserta comas de miles.
// Ej: 25000 → "25,000", -1250000.4 → "-1,250,000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
