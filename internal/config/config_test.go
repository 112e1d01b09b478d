package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigMissingFileIsIgnored(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seating.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/plans
backend: sqlite
event_name: Kim & Lee
seed: 9
country_code: "82"
affiliation_a:
  name: Kim
  marker: kim
`), 0644))

	t.Setenv("SEATING_EVENT_NAME", "Override")
	t.Setenv("SEATING_AFFILIATION_B", "lee")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/plans", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "Override", cfg.EventName)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, "82", cfg.CountryCode)
	assert.Equal(t, Affiliation{Name: "Kim", Marker: "kim"}, cfg.AffiliationA)
	assert.Equal(t, Affiliation{Name: "Bride", Marker: "lee"}, cfg.AffiliationB)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("data_dir: [oops"), 0644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	t.Setenv("SEATING_BACKEND", "postgres")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "unknown backend")

	t.Setenv("SEATING_BACKEND", "")
	t.Setenv("SEATING_SEED", "abc")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "SEATING_SEED")
}
