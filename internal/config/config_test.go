package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/pagecap/internal/models"
)

func captureDefaults(v *viper.Viper) {
	v.SetDefault("pages", "1")
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("activate-delay", 1.0)
	v.SetDefault("settle", 0.3)
	v.SetDefault("key", DefaultKey)
	v.SetDefault("pdf", true)
	v.SetDefault("trim-top", DefaultTrimTop)
	v.SetDefault("window", -1)
}

func TestParseTrim(t *testing.T) {
	trim, err := ParseTrim("60, 40,10 ,10")
	require.NoError(t, err)
	assert.Equal(t, models.TrimSpec{Top: 60, Bottom: 40, Left: 10, Right: 10}, trim)

	for _, bad := range []string{"", "1,2,3", "1,2,3,4,5", "a,b,c,d", "1,2,3,x", "-1,0,0,0"} {
		_, err := ParseTrim(bad)
		assert.ErrorIs(t, err, ErrInvalidTrimFormat, "input %q", bad)
	}
}

func TestParsePages(t *testing.T) {
	n, auto, err := ParsePages("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.False(t, auto)

	_, auto, err = ParsePages("AUTO")
	require.NoError(t, err)
	assert.True(t, auto)

	for _, bad := range []string{"0", "-3", "many", ""} {
		_, _, err := ParsePages(bad)
		assert.ErrorIs(t, err, ErrInvalidPages, "input %q", bad)
	}
}

func TestLoadCapture_Defaults(t *testing.T) {
	v := viper.New()
	captureDefaults(v)

	cfg, err := LoadCapture(v)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Pages)
	assert.False(t, cfg.Auto)
	assert.Equal(t, 1200*time.Millisecond, cfg.Interval)
	assert.Equal(t, time.Second, cfg.ActivateDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, "right", cfg.Key)
	assert.True(t, cfg.PDF)
	assert.Equal(t, models.TrimSpec{Top: 55}, cfg.Trim)
	assert.Equal(t, DefaultOutputDir(), cfg.OutputDir)
	assert.Equal(t, -1, cfg.Window)
}

func TestLoadCapture_TrimOverridesSingleEdges(t *testing.T) {
	v := viper.New()
	captureDefaults(v)
	v.Set("trim", "10,5,0,0")
	v.Set("trim-left", 99)
	v.Set("pages", "3")
	v.Set("no-pdf", true)

	cfg, err := LoadCapture(v)
	require.NoError(t, err)
	assert.Equal(t, models.TrimSpec{Top: 10, Bottom: 5}, cfg.Trim)
	assert.Equal(t, 3, cfg.Pages)
	assert.False(t, cfg.PDF)
}

func TestLoadCapture_Errors(t *testing.T) {
	v := viper.New()
	captureDefaults(v)
	v.Set("trim", "10,5")
	_, err := LoadCapture(v)
	assert.ErrorIs(t, err, ErrInvalidTrimFormat)

	v = viper.New()
	captureDefaults(v)
	v.Set("trim-bottom", -4)
	_, err = LoadCapture(v)
	assert.ErrorIs(t, err, ErrInvalidTrimFormat)

	v = viper.New()
	captureDefaults(v)
	v.Set("pages", "zero")
	_, err = LoadCapture(v)
	assert.ErrorIs(t, err, ErrInvalidPages)
}

func TestInit_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagecap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: auto\nkey: pagedown\noutput: ~/books/dune\n"), 0644))
	t.Setenv("PAGECAP_MAX_PAGES", "500")

	v := viper.New()
	captureDefaults(v)
	require.NoError(t, Init(v, path))

	cfg, err := LoadCapture(v)
	require.NoError(t, err)
	assert.True(t, cfg.Auto)
	assert.Equal(t, "pagedown", cfg.Key)
	assert.Equal(t, 500, cfg.MaxPages)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books", "dune"), cfg.OutputDir)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadAnalyze_Defaults(t *testing.T) {
	cfg, err := LoadAnalyze(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultOllamaURL, cfg.OllamaURL)
	assert.Equal(t, DefaultOutputDir(), cfg.InputDir)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Equal(t, "/abs/x", ExpandPath("/abs/x"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}
