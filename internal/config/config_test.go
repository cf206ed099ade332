package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neuromation/neuro-admin/models"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NEURO_URL", "NEURO_TOKEN", "NEURO_CLUSTER", "NEURO_CONFIG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	m, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)

	cfg, err := m.Get()
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.Cluster)
	assert.Equal(t, "default", m.Source(KeyURL))
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://file.example.com\ntoken: file-token\ncluster: file-cluster\n"), 0o600))

	t.Setenv("NEURO_TOKEN", "env-token")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyURL, "", "")
	flags.String(KeyToken, "", "")
	flags.String(KeyCluster, "", "")
	require.NoError(t, flags.Parse([]string{"--cluster", "flag-cluster"}))

	m, err := Load(path, flags)
	require.NoError(t, err)
	cfg, err := m.Get()
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.URL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "flag-cluster", cfg.Cluster)

	assert.Equal(t, "file", m.Source(KeyURL))
	assert.Equal(t, "env", m.Source(KeyToken))
	assert.Equal(t, "flag", m.Source(KeyCluster))
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0o600))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestSet_PersistsOnlyFileValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEURO_TOKEN", "env-token")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := Load(path, nil)
	require.NoError(t, err)
	require.NoError(t, m.Set(KeyURL, "http://localhost:8080/"))
	require.NoError(t, m.Set(KeyCluster, "default"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "url: http://localhost:8080\n")
	assert.Contains(t, string(data), "cluster: default")
	assert.NotContains(t, string(data), "env-token")

	reloaded, err := Load(path, nil)
	require.NoError(t, err)
	cfg, err := reloaded.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.URL)
	assert.Equal(t, "default", cfg.Cluster)
}

func TestSet_Validation(t *testing.T) {
	clearEnv(t)
	m, err := Load(filepath.Join(t.TempDir(), "config.yaml"), nil)
	require.NoError(t, err)

	assert.Error(t, m.Set(KeyURL, "not a url"))
	assert.ErrorIs(t, m.Set(KeyCluster, "Bad_Cluster"), models.ErrInvalidName)
	assert.ErrorIs(t, m.Set("colour", "blue"), ErrUnknownKey)
	assert.NoError(t, m.Set(KeyToken, "some-token"))
	assert.NoError(t, m.Set(KeyToken, ""))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("NEURO_CONFIG", "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)

	os.Unsetenv("NEURO_CONFIG")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDirName, configFileName), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))
}
