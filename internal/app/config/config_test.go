package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
	"time"
)

// clearEnv unsets the config variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envs {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse("test", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Empty(t, cfg.ReverseDNSAPIEndpoint)
	assert.Equal(t, 30*time.Second, cfg.ReverseDNSAPITimeout)
	assert.NotEmpty(t, cfg.DatabaseURI)
}

func TestParse_Flags(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse("test", []string{"-a", ":9090", "-d", "postgres://db", "-r", "http://rdns:8080/api/", "-t", "5s"})
	require.NoError(t, err)

	assert.Equal(t, Config{
		ServerAddress:         ":9090",
		DatabaseURI:           "postgres://db",
		ReverseDNSAPIEndpoint: "http://rdns:8080/api/",
		ReverseDNSAPITimeout:  5 * time.Second,
	}, cfg)
}

func TestParse_LongFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse("test", []string{"--reverse-dns-api-endpoint=http://rdns/", "--reverse-dns-api-timeout=1m"})
	require.NoError(t, err)

	assert.Equal(t, "http://rdns/", cfg.ReverseDNSAPIEndpoint)
	assert.Equal(t, time.Minute, cfg.ReverseDNSAPITimeout)
}

func TestParse_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("DATABASE_URI", "postgres://env-db")
	t.Setenv("REVERSE_DNS_API_ENDPOINT", "http://env-rdns/")
	t.Setenv("REVERSE_DNS_API_TIMEOUT", "2s")

	cfg, err := Parse("test", nil)
	require.NoError(t, err)

	assert.Equal(t, Config{
		ServerAddress:         ":7070",
		DatabaseURI:           "postgres://env-db",
		ReverseDNSAPIEndpoint: "http://env-rdns/",
		ReverseDNSAPITimeout:  2 * time.Second,
	}, cfg)
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("REVERSE_DNS_API_ENDPOINT", "http://env-rdns/")

	cfg, err := Parse("test", []string{"-r", "http://flag-rdns/"})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddress)
	assert.Equal(t, "http://flag-rdns/", cfg.ReverseDNSAPIEndpoint)
}

func TestParse_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVERSE_DNS_API_TIMEOUT", "soon")

	_, err := Parse("test", nil)
	assert.Error(t, err)
}

func TestParse_UnknownFlag(t *testing.T) {
	clearEnv(t)

	_, err := Parse("test", []string{"-x"})
	assert.Error(t, err)
}
