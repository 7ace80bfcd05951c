package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultOnFirstRun(t *testing.T) {
	t.Setenv("HIVEMON_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "default", cfg.ActiveProfile)
	require.Contains(t, cfg.Profiles, "default")
	require.False(t, cfg.IsValid(), "empty default profile must not validate")

	// File was written.
	_, err = os.Stat(filepath.Join(os.Getenv("HIVEMON_HOME"), ".hivemon", "config.json"))
	require.NoError(t, err)
}

func TestConfigSaveRoundTrip(t *testing.T) {
	t.Setenv("HIVEMON_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Profiles["lab"] = Profile{
		Host:        "http://hive.lab",
		InferPort:   6666,
		ManagePort:  6668,
		ClientToken: "client-token",
		AdminToken:  "admin-token",
	}
	cfg.ActiveProfile = "lab"
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "lab", reloaded.ActiveProfile)
	require.True(t, reloaded.IsValid())
	require.Equal(t, "http://hive.lab:6666", reloaded.Current().InferURL())
	require.Equal(t, "http://hive.lab:6668", reloaded.Current().ManageURL())
}

func TestLoadConfigFallsBackToAnyProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HIVEMON_HOME", dir)

	path := filepath.Join(dir, ".hivemon", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{
		"profiles": {"only": {"host": "http://h", "infer_port": 1, "manage_port": 2}},
		"active_profile": "missing"
	}`), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "only", cfg.ActiveProfile)
	require.Equal(t, "http://h", cfg.Current().Host)
}
