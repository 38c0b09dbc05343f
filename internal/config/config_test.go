package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GYMGATE_CONFIG_PATH", "GYMGATE_HTTP_ADDR", "GYMGATE_ENV", "GYMGATE_LOG_LEVEL",
		"GYMGATE_JOURNAL", "GYMGATE_DB_PATH", "GYMGATE_ROSTER_PATH", "GYMGATE_CAPACITY",
		"GYMGATE_JOURNAL_RETENTION_DAYS", "GYMGATE_PRUNE_INTERVAL_HOURS",
		"GYMGATE_REJECT_AMBIGUOUS_IDS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().HTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, 25, cfg.Capacity)
	assert.Equal(t, JournalMemory, cfg.Journal)
	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.RejectAmbiguous)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gymgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capacity: 40
journal: sqlite
db_path: /tmp/gym.db
roster_path: /srv/roster.csv
log_level: debug
`), 0o644))

	t.Setenv("GYMGATE_CONFIG_PATH", path)
	t.Setenv("GYMGATE_CAPACITY", "12")
	t.Setenv("GYMGATE_REJECT_AMBIGUOUS_IDS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Capacity)
	assert.Equal(t, JournalSQLite, cfg.Journal)
	assert.Equal(t, "/tmp/gym.db", cfg.DBPath)
	assert.Equal(t, "/srv/roster.csv", cfg.RosterPath)
	assert.True(t, cfg.RejectAmbiguous)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_UnknownEnvFallsBackToDev(t *testing.T) {
	clearEnv(t)
	t.Setenv("GYMGATE_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric capacity": {"GYMGATE_CAPACITY": "many"},
		"zero capacity":        {"GYMGATE_CAPACITY": "0"},
		"unknown journal":      {"GYMGATE_JOURNAL": "postgres"},
		"bad bool":             {"GYMGATE_REJECT_AMBIGUOUS_IDS": "sometimes"},
		"bad level":            {"GYMGATE_LOG_LEVEL": "loud"},
		"missing file":         {"GYMGATE_CONFIG_PATH": "/nonexistent/gymgate.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidate_RosterPathRequired(t *testing.T) {
	cfg := Default()
	cfg.RosterPath = "  "
	require.Error(t, cfg.Validate())
}
