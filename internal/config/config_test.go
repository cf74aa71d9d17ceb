package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestParse_Defaults(t *testing.T) {
	opts, err := parse(newFlagSet(), []string{"-d", "postgres://localhost/wallet", "-c", ""}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5000", opts.Port)
	assert.Equal(t, "postgres://localhost/wallet", opts.DatabaseURI)
	assert.Equal(t, "mywallet", opts.DatabaseName)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Zero(t, opts.SessionTTL.Duration)
	assert.False(t, opts.IsMongo())
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	env := envFrom(map[string]string{
		"SERVER_ADDRESS": ":9000",
		"DATABASE_URI":   "mongodb://db:27017",
		"DATABASE_NAME":  "wallet_test",
		"LOG_LEVEL":      "debug",
		"SESSION_TTL":    "2h",
	})
	opts, err := parse(newFlagSet(), []string{"-a", ":7000", "-d", "postgres://x", "-c", ""}, env)
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Port)
	assert.Equal(t, "mongodb://db:27017", opts.DatabaseURI)
	assert.Equal(t, "wallet_test", opts.DatabaseName)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, 2*time.Hour, opts.SessionTTL.Duration)
	assert.True(t, opts.IsMongo())
}

func TestParse_MongoURIFallback(t *testing.T) {
	env := envFrom(map[string]string{"MONGO_URI": "mongodb+srv://cluster.example.net"})
	opts, err := parse(newFlagSet(), []string{"-c", ""}, env)
	require.NoError(t, err)
	assert.True(t, opts.IsMongo())
}

func TestParse_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"address":":8081","database_uri":"postgres://file","session_ttl":"30m"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := parse(newFlagSet(), []string{"-c", path}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8081", opts.Port)
	assert.Equal(t, "postgres://file", opts.DatabaseURI)
	assert.Equal(t, 30*time.Minute, opts.SessionTTL.Duration)
}

func TestParse_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o600))

	cases := []struct {
		name       string
		args       []string
		env        map[string]string
		wantSubstr string
	}{
		{"missing uri", []string{"-c", ""}, nil, "database uri is required"},
		{"bad ttl env", []string{"-d", "x", "-c", ""}, map[string]string{"SESSION_TTL": "soon"}, "SESSION_TTL"},
		{"negative ttl", []string{"-d", "x", "-c", "", "-session-ttl", "-1h"}, nil, "must not be negative"},
		{"bad config file", []string{"-c", bad}, nil, "error while parsing config file"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(newFlagSet(), tc.args, envFrom(tc.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSubstr)
		})
	}
}
