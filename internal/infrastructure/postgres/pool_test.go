package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/pkg/config"
)

func TestPoolConfigFor_DesdeCampos(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5433, User: "apex", Password: "p@ss", DBName: "apex_am", SSLMode: "disable", MaxConns: 6}

	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss", pc.ConnConfig.Password)
	assert.Equal(t, int32(6), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFor_DatabaseURLTienePrioridad(t *testing.T) {
	cfg := config.DBConfig{DatabaseURL: "postgres://u:p@example.com:6543/other?sslmode=disable", Host: "ignored", ForceIPv4: true, MaxConns: 1}

	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "example.com", pc.ConnConfig.Host)
	assert.Equal(t, "other", pc.ConnConfig.Database)
	assert.Equal(t, int32(1), pc.MinConns, "MinConns nunca supera MaxConns")
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestPoolConfigFor_DSNInvalido(t *testing.T) {
	_, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
