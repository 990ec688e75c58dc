package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CAPABILITY_REFRESH_HOURS", "")
	t.Setenv("TOWN_FEED_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 24, cfg.CapabilityRefreshHours)
	assert.Equal(t, "http://localhost:9090/v1", cfg.Feed.BaseURL)
}

func TestLoadCapabilityRefreshHours(t *testing.T) {
	t.Setenv("CAPABILITY_REFRESH_HOURS", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.CapabilityRefreshHours)

	t.Setenv("CAPABILITY_REFRESH_HOURS", "-1")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CAPABILITY_REFRESH_HOURS", "daily")
	_, err = Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "towns", SSLMode: "disable", SSLRootCert: "/ca.pem"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=towns sslmode=disable sslrootcert=/ca.pem", d.DSN())
}
