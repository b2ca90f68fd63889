package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirs(t *testing.T) string {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("HOME", tmp)
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	tmp := setupDirs(t)

	Load()

	assert.Equal(t, filepath.Join(tmp, "config", "pullscroll"), Get("config_dir", ""))
	assert.Equal(t, filepath.Join(tmp, "state", "pullscroll"), Get("state_dir", ""))
	assert.Equal(t, 16, GetInt("cell_height", 0))
	assert.Equal(t, 20, GetInt("initial_items", 0))
	assert.Equal(t, 10, GetInt("page_size", 0))
	assert.Equal(t, 5, GetInt("max_pages", 0))
	assert.False(t, GetBool("logging_enabled", true))
	assert.Equal(t, "default", Get("missing", "default"))
}

func TestLoadCreatesSampleConfig(t *testing.T) {
	tmp := setupDirs(t)

	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "pullscroll", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# pullscroll configuration")
	assert.Contains(t, string(data), "page_size = 10")
	assert.NotContains(t, string(data), "state_dir")
}

func TestLoadFromFileAndEnvPrecedence(t *testing.T) {
	tmp := setupDirs(t)
	path := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("page_size = 25\nmax_pages = 3\nlogging_enabled = true\nlogging_level = \"DEBUG\"\n"), 0644))
	t.Setenv("PULLSCROLL_CONFIG_PATH", path)
	t.Setenv("PULLSCROLL_MAX_PAGES", "7")

	Load()

	assert.Equal(t, 25, GetInt("page_size", 0))
	assert.Equal(t, 7, GetInt("max_pages", 0), "environment wins over the file")
	assert.True(t, GetBool("logging_enabled", false))
	assert.Equal(t, "debug", Get("logging_level", ""))
	assert.Equal(t, "", Get("config_path", ""))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setupDirs(t)
	t.Setenv("PULLSCROLL_CELL_HEIGHT", "-4")
	t.Setenv("PULLSCROLL_FAIL_EVERY", "zero")
	t.Setenv("PULLSCROLL_LOGGING_LEVEL", "loud")
	t.Setenv("PULLSCROLL_DEBUG", "maybe")
	t.Setenv("PULLSCROLL_REFRESH_DELAY_MS", "0")

	Load()

	assert.Equal(t, 16, GetInt("cell_height", 0))
	assert.Equal(t, 0, GetInt("fail_every", -1))
	assert.Equal(t, "info", Get("logging_level", ""))
	assert.Equal(t, "false", Get("debug", ""))
	assert.Equal(t, 0, GetInt("refresh_delay_ms", -1))
}

func TestGetBoolVariants(t *testing.T) {
	setupDirs(t)
	for _, v := range []string{"1", "yes", "ON", "true"} {
		t.Setenv("PULLSCROLL_LOGGING_ENABLED", v)
		Load()
		assert.True(t, GetBool("logging_enabled", false), v)
	}
	t.Setenv("PULLSCROLL_LOGGING_ENABLED", "off")
	Load()
	assert.False(t, GetBool("logging_enabled", true))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterValidator("page_size", PositiveIntValidator())
	})
}

func TestEnumValidator(t *testing.T) {
	v := EnumValidator(map[string]bool{"a": true, "b": true})

	got, err := v("k", "B", "a")
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = v("k", "", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}
