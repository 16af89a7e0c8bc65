package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/auth"
	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/application/usecase"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/apex-am/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/apex-am/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "apex-am-test"
	testExpMin    = 60
)

// testEnv servidor completo sobre repos en memoria.
type testEnv struct {
	app   *fiber.App
	store *memory.Store
	authn *auth.AuthUseCase
}

type pdfStub struct{}

func (pdfStub) Generate(*usecase.PortfolioReport) ([]byte, error) { return []byte("%PDF-stub"), nil }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	users := memory.NewUserRepository(s)
	accs := memory.NewAccountantRepository(s)
	biz := memory.NewBusinessRepository(s)

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	now := time.Now()
	for _, u := range []*entity.User{
		{ID: "u-root", Username: "admin", Email: "admin@example.com", Role: entity.RoleRootAdmin, FirstName: "Ada", LastName: "Root"},
		{ID: "u-super", Username: "super", Email: "super@example.com", Role: entity.RoleSuperAccountant, FirstName: "Sam", LastName: "Super"},
		{ID: "u-alice", Username: "alice", Email: "alice@example.com", Role: entity.RoleAccountant, FirstName: "Alice", LastName: "Smith"},
		{ID: "u-bob", Username: "bob", Email: "bob@example.com", Role: entity.RoleAccountant, FirstName: "Bob", LastName: "Jones"},
		{ID: "u-ghost", Username: "ghost", Email: "ghost@example.com", Role: "intern"},
	} {
		u.HashedPassword, u.IsActive, u.CreatedAt, u.UpdatedAt = hash, true, now, now
		require.NoError(t, users.Create(ctx, u))
	}
	sid := "a-super"
	for _, a := range []*entity.Accountant{
		{ID: "a-super", UserID: "u-super", IsSuperAccountant: true, FirstName: "Sam", LastName: "Super"},
		{ID: "a-alice", UserID: "u-alice", SuperAccountantID: &sid, FirstName: "Alice", LastName: "Smith"},
		{ID: "a-bob", UserID: "u-bob", FirstName: "Bob", LastName: "Jones"},
	} {
		require.NoError(t, accs.Create(ctx, a))
	}
	for _, b := range []*entity.Business{
		{ID: "b-tech", Name: "Tech Solutions Inc", OwnerID: "u-root", IsActive: true},
		{ID: "b-green", Name: "Green Energy Co", OwnerID: "u-root", IsActive: true},
	} {
		require.NoError(t, biz.Create(ctx, b))
	}
	require.NoError(t, biz.SaveFinancialMetrics(ctx, &entity.BusinessFinancialMetrics{BusinessID: "b-tech", Revenue: decimal.NewFromInt(1250000)}))
	require.NoError(t, biz.AssignAccountant(ctx, "b-tech", "a-alice"))

	authUC := auth.NewAuthUseCase(users, testTokens(t))
	businessUC := usecase.NewBusinessUseCase(biz, accs)
	app := apphttp.NewServer(apphttp.ServerConfig{
		AppName:     "Apex AM API",
		CORSOrigins: "*",
		Logger:      zerolog.Nop(),
	}, apphttp.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(users, memory.NewTxRunner(s)),
		AccountantUC: usecase.NewAccountantUseCase(accs),
		BusinessUC:   businessUC,
		ReportUC:     usecase.NewReportUseCase(businessUC, pdfStub{}),
	})
	return &testEnv{app: app, store: s, authn: authUC}
}

func testTokens(t *testing.T) *pkgjwt.Manager {
	t.Helper()
	m, err := pkgjwt.NewManager(testJWTSecret, testIssuer, testExpMin*time.Minute)
	require.NoError(t, err)
	return m
}

// bearer token firmado para el usuario (el rol real se recarga del repositorio).
func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := testTokens(t).Issue(userID, userID+"@example.com", role)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	return decode[dto.ErrorResponse](t, resp).Code
}
