// Package client es el acceso autenticado a la API REST de Apex AM. Cada llamada
// lleva el bearer token del almacén de sesión y su propio timeout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

const (
	// DefaultTimeout timeout por petición cuando la configuración no indica otro.
	DefaultTimeout = 10 * time.Second

	maxJSONBody = 1 << 20  // 1 MiB
	maxPDFBody  = 16 << 20 // 16 MiB
)

// TokenLoader fuente del bearer token (la implementan los almacenes de sesión).
type TokenLoader interface {
	Load() (string, error)
}

// Config parámetros del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenLoader
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client cliente HTTP de la API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	tokens     TokenLoader
	httpClient *http.Client
	log        zerolog.Logger
}

// New construye el cliente. Sin Tokens las peticiones van sin Authorization.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		tokens:     cfg.Tokens,
		httpClient: cfg.HTTPClient,
		log:        zerolog.Nop(),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if cfg.Logger != nil {
		c.log = *cfg.Logger
	}
	return c
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login POST /auth/login-json (sin token).
func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login-json", dto.LoginRequest{Email: email, Password: password}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

// CurrentUser GET /users/me.
func (c *Client) CurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers GET /users/.
func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser GET /users/{id}.
func (c *Client) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignRole POST /users/{id}/assign-role.
func (c *Client) AssignRole(ctx context.Context, userID, newRole string, superAccountantID *string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	body := dto.AssignRoleRequest{NewRole: newRole, SuperAccountantID: superAccountantID}
	if err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/assign-role", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserBusinesses GET /users/{id}/businesses.
func (c *Client) UserBusinesses(ctx context.Context, userID string) ([]dto.BusinessResponse, error) {
	var out []dto.BusinessResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/businesses", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Accountants ───────────────────────────────────────────────────────────────

// ListAccountants GET /accountants/.
func (c *Client) ListAccountants(ctx context.Context) ([]dto.AccountantResponse, error) {
	var out []dto.AccountantResponse
	if err := c.do(ctx, http.MethodGet, "/accountants/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccountant GET /accountants/{id}.
func (c *Client) GetAccountant(ctx context.Context, id string) (*dto.AccountantResponse, error) {
	var out dto.AccountantResponse
	if err := c.do(ctx, http.MethodGet, "/accountants/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignSuper POST /accountants/{id}/assign-super.
func (c *Client) AssignSuper(ctx context.Context, accountantID, superAccountantID string) (*dto.AccountantResponse, error) {
	var out dto.AccountantResponse
	body := dto.AssignSuperRequest{SuperAccountantID: superAccountantID}
	if err := c.do(ctx, http.MethodPost, "/accountants/"+url.PathEscape(accountantID)+"/assign-super", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveSuper POST /accountants/{id}/remove-super.
func (c *Client) RemoveSuper(ctx context.Context, accountantID string) (*dto.AccountantResponse, error) {
	var out dto.AccountantResponse
	if err := c.do(ctx, http.MethodPost, "/accountants/"+url.PathEscape(accountantID)+"/remove-super", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Businesses ────────────────────────────────────────────────────────────────

// ListBusinesses GET /businesses/.
func (c *Client) ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error) {
	var out []dto.BusinessResponse
	if err := c.do(ctx, http.MethodGet, "/businesses/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBusiness GET /businesses/{id}.
func (c *Client) GetBusiness(ctx context.Context, id string) (*dto.BusinessResponse, error) {
	var out dto.BusinessResponse
	if err := c.do(ctx, http.MethodGet, "/businesses/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignAccountant POST /businesses/{id}/assign-accountant.
func (c *Client) AssignAccountant(ctx context.Context, businessID, accountantID string) (*dto.MessageResponse, error) {
	return c.assignment(ctx, businessID, accountantID, "assign-accountant")
}

// RemoveAccountant POST /businesses/{id}/remove-accountant.
func (c *Client) RemoveAccountant(ctx context.Context, businessID, accountantID string) (*dto.MessageResponse, error) {
	return c.assignment(ctx, businessID, accountantID, "remove-accountant")
}

func (c *Client) assignment(ctx context.Context, businessID, accountantID, action string) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	body := dto.AssignAccountantRequest{AccountantID: accountantID}
	if err := c.do(ctx, http.MethodPost, "/businesses/"+url.PathEscape(businessID)+"/"+action, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// PortfolioPDF GET /businesses/report.pdf.
func (c *Client) PortfolioPDF(ctx context.Context) ([]byte, error) {
	var raw []byte
	err := c.send(ctx, http.MethodGet, "/businesses/report.pdf", nil, true, maxPDFBody, func(body []byte) error {
		raw = body
		return nil
	})
	return raw, err
}

// Health GET /health (sin token).
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var out dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do envía in como JSON y decodifica la respuesta en out.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	return c.send(ctx, method, path, in, authed, maxJSONBody, func(body []byte) error {
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindParse, Message: "Invalid response from server", Err: err}
		}
		return nil
	})
}

func (c *Client) send(ctx context.Context, method, path string, in any, authed bool, limit int64, onOK func([]byte) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "Invalid request", Err: err}
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "Invalid request URL", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authed && c.tokens != nil {
		tok, err := c.tokens.Load()
		if err != nil {
			c.log.Warn().Err(err).Msg("no se pudo leer el token de sesión")
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("fallo de red")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: KindNetwork, Message: "Request timed out", Err: err}
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return &Error{Kind: KindNetwork, Message: "Request cancelled", Err: err}
		}
		return &Error{Kind: KindNetwork, Message: "Network error: unable to reach the server", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "Failed to read server response", Err: err}
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("respuesta API")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: serverDetail(body, resp.StatusCode),
		}
	}
	return onOK(body)
}

// serverDetail extrae el mensaje del cuerpo de error: campo "message" o "detail"
// (string, o lista de objetos con "msg").
func serverDetail(body []byte, status int) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Detail) > 0 {
			var s string
			if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
				return s
			}
			var items []struct {
				Msg string `json:"msg"`
			}
			if json.Unmarshal(payload.Detail, &items) == nil && len(items) > 0 && items[0].Msg != "" {
				return items[0].Msg
			}
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}
