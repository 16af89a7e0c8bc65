package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
)

type fixedToken string

func (f fixedToken) Load() (string, error) { return string(f), nil }

func newClient(t *testing.T, h http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.New(client.Config{BaseURL: srv.URL + "/", Tokens: fixedToken("tok-123"), Timeout: time.Second})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ─── Cabeceras y decodificación ───────────────────────────────────────────────

func TestListBusinesses_EnviaTokenYDecodifica(t *testing.T) {
	want := []dto.BusinessResponse{
		{ID: "b-1", Name: "Tech Solutions Inc", IsActive: true, Accountants: []dto.AccountantResponse{}},
		{ID: "b-2", Name: "Green Energy Co", Accountants: []dto.AccountantResponse{}},
	}
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/businesses/", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, want)
	})

	got, err := c.ListBusinesses(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("negocios (-want +got):\n%s", diff)
	}
}

func TestLogin_SinAuthorization(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login-json", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var in dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, dto.LoginRequest{Email: "admin@example.com", Password: "password"}, in)
		writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: "new", TokenType: "bearer"})
	})

	tok, err := c.Login(context.Background(), "admin@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "new", tok.AccessToken)
}

func TestAssignAccountant_CuerpoYRuta(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/businesses/b-1/assign-accountant", r.URL.Path)
		var in dto.AssignAccountantRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a-alice", in.AccountantID)
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Accountant assigned successfully"})
	})

	out, err := c.AssignAccountant(context.Background(), "b-1", "a-alice")
	require.NoError(t, err)
	assert.Equal(t, "Accountant assigned successfully", out.Message)
}

func TestPortfolioPDF_DevuelveBytes(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 demo"))
	})

	raw, err := c.PortfolioPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 demo", string(raw))
}

// ─── Taxonomía de errores ─────────────────────────────────────────────────────

func TestErrores_ClasificacionPorEstado(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    any
		kind    client.Kind
		message string
	}{
		{"401", 401, dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or expired token"}, client.KindAuth, "Invalid or expired token"},
		{"403", 403, map[string]string{"detail": "Not enough permissions"}, client.KindAuth, "Not enough permissions"},
		{"400 detail", 400, map[string]string{"detail": "Invalid role"}, client.KindValidation, "Invalid role"},
		{"422 lista", 422, map[string]any{"detail": []map[string]string{{"msg": "field required"}}}, client.KindValidation, "field required"},
		{"500", 500, map[string]string{}, client.KindServer, "Request failed with status 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})
			_, err := c.ListUsers(context.Background())
			require.Error(t, err)

			var apiErr *client.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestErrores_CuerpoInvalidoEsParse(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})
	_, err := c.CurrentUser(context.Background())
	assert.Equal(t, client.KindParse, client.KindOf(err))
}

func TestErrores_TimeoutEsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := client.New(client.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.ListAccountants(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
	assert.Equal(t, "Request timed out", client.Message(err))
}

func TestErrores_ServidorCaidoEsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(client.Config{BaseURL: url})
	_, err := c.Health(context.Background())
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, client.IsUnauthorized(&client.Error{Kind: client.KindAuth, Status: 401}))
	assert.False(t, client.IsUnauthorized(&client.Error{Kind: client.KindAuth, Status: 403}))
	assert.True(t, client.IsAuth(&client.Error{Kind: client.KindAuth, Status: 403}))
	assert.False(t, client.IsAuth(assert.AnError))
}
