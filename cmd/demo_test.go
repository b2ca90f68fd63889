package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/pullscroll/internal/config"
	"github.com/cristianoliveira/pullscroll/internal/feed"
	"github.com/stretchr/testify/assert"
)

func loadTestConfig(t *testing.T, env map[string]string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PULLSCROLL_CONFIG_DIR", dir)
	t.Setenv("PULLSCROLL_STATE_DIR", filepath.Join(dir, "state"))
	t.Setenv("PULLSCROLL_CONFIG_PATH", filepath.Join(dir, "missing.toml"))
	for k, v := range env {
		t.Setenv(k, v)
	}
	config.Load()
}

func TestDemoConfigFromSettings(t *testing.T) {
	loadTestConfig(t, map[string]string{
		"PULLSCROLL_INITIAL_ITEMS":    "15",
		"PULLSCROLL_PAGE_SIZE":        "5",
		"PULLSCROLL_LOAD_DELAY_MS":    "250",
		"PULLSCROLL_REFRESH_DELAY_MS": "0",
		"PULLSCROLL_FAIL_EVERY":       "3",
	})
	orig := failEveryFlag
	defer func() { failEveryFlag = orig }()
	failEveryFlag = -1

	cfg := demoConfig()

	assert.Equal(t, feed.Pager{Initial: 15, PageSize: 5, MaxPages: 5}, cfg.Pager)
	assert.Equal(t, 16, cfg.CellHeight)
	assert.Equal(t, 250*time.Millisecond, cfg.LoadDelay)
	assert.Zero(t, cfg.RefreshDelay)
	assert.Equal(t, 3, cfg.FailEvery)
}

func TestDemoFailEveryFlagOverrides(t *testing.T) {
	loadTestConfig(t, map[string]string{"PULLSCROLL_FAIL_EVERY": "3"})
	orig := failEveryFlag
	defer func() { failEveryFlag = orig }()
	failEveryFlag = 0

	assert.Equal(t, 0, demoConfig().FailEvery)
}

func TestFeedPathUnderStateDir(t *testing.T) {
	loadTestConfig(t, nil)
	assert.Equal(t, filepath.Join(config.Get("state_dir", ""), "feed.db"), feedPath())
}
