package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/apex-am/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "admin@example.com"
	testIssuer = "apex-am-test"
)

func newManager(t *testing.T, secret, issuer string, ttl time.Duration) *pkgjwt.Manager {
	t.Helper()
	m, err := pkgjwt.NewManager(secret, issuer, ttl)
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify_ConRole(t *testing.T) {
	m := newManager(t, testSecret, testIssuer, time.Hour)
	tok, err := m.Issue(testUserID, testEmail, "super_accountant")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Verify(tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testEmail, claims.Email)
	assert.Equal(t, testEmail, claims.Subject, "el subject es el email")
	assert.Equal(t, "super_accountant", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestVerify_TokenExpirado(t *testing.T) {
	m := newManager(t, testSecret, testIssuer, -time.Minute)
	tok, err := m.Issue(testUserID, testEmail, "root_admin")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerify_SecretIncorrecto(t *testing.T) {
	tok, err := newManager(t, testSecret, testIssuer, time.Hour).Issue(testUserID, testEmail, "root_admin")
	require.NoError(t, err)

	_, err = newManager(t, "otro-secret-completamente-distinto", testIssuer, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerify_EmisorDistinto(t *testing.T) {
	tok, err := newManager(t, testSecret, "otro-emisor", time.Hour).Issue(testUserID, testEmail, "accountant")
	require.NoError(t, err)

	_, err = newManager(t, testSecret, testIssuer, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerify_AlgoritmoNone(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: testUserID,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newManager(t, testSecret, testIssuer, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerify_SinUserID(t *testing.T) {
	m := newManager(t, testSecret, testIssuer, time.Hour)
	tok, err := m.Issue("", testEmail, "accountant")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestNewManager_SecretVacio(t *testing.T) {
	_, err := pkgjwt.NewManager("", testIssuer, time.Hour)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
