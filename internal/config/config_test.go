package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", c.HelloAddr)
	assert.Equal(t, "127.0.0.1:8501", c.Addr)
	assert.False(t, c.Watch)
	assert.Equal(t, dashboard.DefaultLimits(), c.Limits)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_path: /srv/survey.csv\nwatch: true\nlimits:\n  box_rows: 42\n"), 0o600))
	t.Setenv("HABITDASH_ADDR", "0.0.0.0:9000")
	t.Setenv("HABITDASH_LIMITS_ORGANS_ROWS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/survey.csv", c.DataPath)
	assert.True(t, c.Watch)
	assert.Equal(t, 42, c.Limits.BoxRows)
	assert.Equal(t, 100000, c.Limits.SBPRows, "unset limits keep defaults")
	assert.Equal(t, "0.0.0.0:9000", c.Addr)
	assert.Equal(t, 7, c.Limits.OrgansRows)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("session_secret", "s3cr3t-value"))
	require.NoError(t, c.Set("limits.dbp_rows", "123"))
	require.NoError(t, Save(c, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-value", got.SessionSecret)
	assert.Equal(t, 123, got.Limits.DBPRows)
}

func TestSetAndGet(t *testing.T) {
	c := &Global{Limits: dashboard.DefaultLimits()}

	require.NoError(t, c.Set("watch", "true"))
	assert.True(t, c.Watch)
	require.NoError(t, c.Set("limits.smk_chole_rows", "50"))
	v, err := c.Get("limits.smk_chole_rows")
	require.NoError(t, err)
	assert.Equal(t, "50", v)

	require.NoError(t, c.Set("session_secret", "abcdefghijkl"))
	v, err = c.Get("session_secret")
	require.NoError(t, err)
	assert.Equal(t, "abc****jkl", v)

	for _, tc := range []struct{ key, val string }{
		{"watch", "maybe"},
		{"limits.box_rows", "-1"},
		{"limits.box_rows", "many"},
		{"colour", "blue"},
	} {
		assert.Error(t, c.Set(tc.key, tc.val), tc.key)
	}
	_, err = c.Get("colour")
	assert.Error(t, err)

	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestDefaultsMatchLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}
