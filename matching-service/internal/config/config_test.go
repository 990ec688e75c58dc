package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CATALOG_CACHE_TTL_HOURS", "")
	t.Setenv("MATCH_CACHE_TTL_MINUTES", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, time.Hour, cfg.CatalogCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.MatchCacheTTL)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_CACHE_TTL_HOURS", "6")
	t.Setenv("TOWN_SERVICE_URL", "http://towns:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, cfg.CatalogCacheTTL)
	assert.Equal(t, "http://towns:9000", cfg.TownServiceURL)
}

func TestLoad_RejectsBadTTL(t *testing.T) {
	t.Setenv("CATALOG_CACHE_TTL_HOURS", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable", SSLRootCert: "/ca.pem"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable sslrootcert=/ca.pem", d.DSN())
}
