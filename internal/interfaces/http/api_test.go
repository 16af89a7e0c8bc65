package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sistema y login
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthEInfo(t *testing.T) {
	env := newTestEnv(t)

	h := decode[dto.HealthResponse](t, env.do(t, http.MethodGet, "/health", "", nil))
	assert.Equal(t, "healthy", h.Status)

	info := decode[dto.InfoResponse](t, env.do(t, http.MethodGet, "/", "", nil))
	assert.Equal(t, "/docs", info.Docs)
}

func TestLogin_OkYTokenUsable(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/login-json", "", dto.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[dto.TokenResponse](t, resp)
	assert.Equal(t, "bearer", tok.TokenType)

	me := decode[dto.UserResponse](t, env.do(t, http.MethodGet, "/users/me", "Bearer "+tok.AccessToken, nil))
	assert.Equal(t, "root_admin", me.Role)
	assert.Equal(t, "admin@example.com", me.Email)
}

func TestLogin_Errores(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/login-json", "", dto.LoginRequest{Email: "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/auth/login-json", "", dto.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Incorrect email or password", decode[dto.ErrorResponse](t, resp).Message)
}

func TestUsersMe_SinToken401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/users/me", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_SoloRootYSuper(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/users/", bearer(t, "u-super", "super_accountant"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UserResponse](t, resp), 5)

	resp = env.do(t, http.MethodGet, "/users/", bearer(t, "u-alice", "accountant"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRolDelTokenNoPrevaleceSobreElPersistido(t *testing.T) {
	env := newTestEnv(t)
	// Alice firma un token que dice root_admin, pero en el repo es accountant.
	resp := env.do(t, http.MethodGet, "/users/", bearer(t, "u-alice", "root_admin"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAssignRole_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	root := bearer(t, "u-root", "root_admin")

	resp := env.do(t, http.MethodPost, "/users/u-bob/assign-role", root, dto.AssignRoleRequest{NewRole: "super_accountant"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "super_accountant", decode[dto.UserResponse](t, resp).Role)

	resp = env.do(t, http.MethodPost, "/users/u-root/assign-role", root, dto.AssignRoleRequest{NewRole: "accountant"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IMMUTABLE_ROLE", errorCode(t, resp))

	resp = env.do(t, http.MethodPost, "/users/u-bob/assign-role", root, dto.AssignRoleRequest{NewRole: "janitor"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/users/u-bob/assign-role", bearer(t, "u-super", "super_accountant"), dto.AssignRoleRequest{NewRole: "accountant"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/users/missing/assign-role", root, dto.AssignRoleRequest{NewRole: "accountant"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUserBusinesses_ContableSoloLosPropios(t *testing.T) {
	env := newTestEnv(t)
	alice := bearer(t, "u-alice", "accountant")

	resp := env.do(t, http.MethodGet, "/users/u-alice/businesses", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.BusinessResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Tech Solutions Inc", list[0].Name)

	resp = env.do(t, http.MethodGet, "/users/u-bob/businesses", alice, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRolDesconocido_Rechazado(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/businesses/", bearer(t, "u-ghost", "intern"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ROLE_NOT_RECOGNIZED", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Businesses
// ──────────────────────────────────────────────────────────────────────────────

func TestListBusinesses_Alcance(t *testing.T) {
	env := newTestEnv(t)

	all := decode[[]dto.BusinessResponse](t, env.do(t, http.MethodGet, "/businesses/", bearer(t, "u-root", "root_admin"), nil))
	assert.Len(t, all, 2)

	superAll := decode[[]dto.BusinessResponse](t, env.do(t, http.MethodGet, "/businesses", bearer(t, "u-super", "super_accountant"), nil))
	assert.Len(t, superAll, 2)

	bob := decode[[]dto.BusinessResponse](t, env.do(t, http.MethodGet, "/businesses/", bearer(t, "u-bob", "accountant"), nil))
	assert.Empty(t, bob)
}

func TestGetBusiness_MetricasDecimales(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/businesses/b-tech", bearer(t, "u-alice", "accountant"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b := decode[dto.BusinessResponse](t, resp)
	require.NotNil(t, b.FinancialMetrics)
	assert.Equal(t, "1250000", b.FinancialMetrics.Revenue.String())
	require.Len(t, b.Accountants, 1)
	assert.Equal(t, "Alice Smith", b.Accountants[0].FullName())

	resp = env.do(t, http.MethodGet, "/businesses/b-green", bearer(t, "u-alice", "accountant"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/businesses/nope", bearer(t, "u-root", "root_admin"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAssignYRemoveAccountant(t *testing.T) {
	env := newTestEnv(t)
	super := bearer(t, "u-super", "super_accountant")
	body := dto.AssignAccountantRequest{AccountantID: "a-bob"}

	resp := env.do(t, http.MethodPost, "/businesses/b-green/assign-accountant", super, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Accountant assigned successfully", decode[dto.MessageResponse](t, resp).Message)

	b := decode[dto.BusinessResponse](t, env.do(t, http.MethodGet, "/businesses/b-green", super, nil))
	assert.True(t, b.HasAccountant("a-bob"))

	resp = env.do(t, http.MethodPost, "/businesses/b-green/remove-accountant", super, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Accountant removed successfully", decode[dto.MessageResponse](t, resp).Message)

	resp = env.do(t, http.MethodPost, "/businesses/b-green/assign-accountant", bearer(t, "u-alice", "accountant"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/businesses/b-green/assign-accountant", super, dto.AssignAccountantRequest{AccountantID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPortfolioPDF(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/businesses/report.pdf", bearer(t, "u-root", "root_admin"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-stub", string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Accountants
// ──────────────────────────────────────────────────────────────────────────────

func TestAccountants_ListYSuper(t *testing.T) {
	env := newTestEnv(t)
	root := bearer(t, "u-root", "root_admin")

	all := decode[[]dto.AccountantResponse](t, env.do(t, http.MethodGet, "/accountants/", root, nil))
	assert.Len(t, all, 3)

	self := decode[[]dto.AccountantResponse](t, env.do(t, http.MethodGet, "/accountants/", bearer(t, "u-bob", "accountant"), nil))
	require.Len(t, self, 1)
	assert.Equal(t, "a-bob", self[0].ID)

	resp := env.do(t, http.MethodPost, "/accountants/a-bob/assign-super", root, dto.AssignSuperRequest{SuperAccountantID: "a-super"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.AccountantResponse](t, resp)
	require.NotNil(t, got.SuperAccountantID)
	assert.Equal(t, "a-super", *got.SuperAccountantID)

	resp = env.do(t, http.MethodPost, "/accountants/a-bob/assign-super", root, dto.AssignSuperRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/accountants/a-bob/assign-super", root, dto.AssignSuperRequest{SuperAccountantID: "a-alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_SUPER_ACCOUNTANT", errorCode(t, resp))

	resp = env.do(t, http.MethodPost, "/accountants/a-bob/remove-super", root, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[dto.AccountantResponse](t, resp).SuperAccountantID)

	resp = env.do(t, http.MethodPost, "/accountants/missing/remove-super", root, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRutaInexistente404(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
