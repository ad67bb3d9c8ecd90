package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bdougie/pagecap/internal/models"
)

// Constants for program configuration
const (
	DefaultWorkers   = 4 // Analysis workers, adjust based on your CPU cores
	DefaultModel     = "llama3.2-vision:11b"
	DefaultOllamaURL = "http://localhost:11434"
	DefaultKey       = "right"
	DefaultInterval  = 1.2
	DefaultTrimTop   = 55
	EnvPrefix        = "PAGECAP"
)

var ErrInvalidPages = errors.New("pages must be a positive number or 'auto'")

// Capture holds the resolved settings of the capture command
type Capture struct {
	Pages         int // 0 in auto mode
	Auto          bool
	MaxPages      int
	Interval      time.Duration
	ActivateDelay time.Duration
	SettleDelay   time.Duration
	Key           string
	OutputDir     string
	PDF           bool
	Trim          models.TrimSpec
	Window        int // -1 prompts
	DatabaseURL   string
}

// Analyze holds the settings of the analyze command
type Analyze struct {
	InputDir    string
	Model       string
	OllamaURL   string
	Workers     int
	DatabaseURL string
}

// DefaultOutputDir is ~/Desktop/ebook-capture
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Desktop", "ebook-capture")
	}
	return filepath.Join(home, "Desktop", "ebook-capture")
}

// Init wires viper to an optional config file and PAGECAP_* environment variables.
// A missing default config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pagecap"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// LoadCapture resolves the capture settings from flags, env and config file
func LoadCapture(v *viper.Viper) (*Capture, error) {
	pages, auto, err := ParsePages(v.GetString("pages"))
	if err != nil {
		return nil, err
	}

	trim := models.TrimSpec{
		Top:    v.GetInt("trim-top"),
		Bottom: v.GetInt("trim-bottom"),
		Left:   v.GetInt("trim-left"),
		Right:  v.GetInt("trim-right"),
	}
	if all := v.GetString("trim"); all != "" {
		if trim, err = ParseTrim(all); err != nil {
			return nil, err
		}
	} else if err := ValidateTrim(trim); err != nil {
		return nil, err
	}

	maxPages := v.GetInt("max-pages")
	if maxPages < 0 {
		return nil, fmt.Errorf("max-pages must not be negative: %d", maxPages)
	}

	output := v.GetString("output")
	if output == "" {
		output = DefaultOutputDir()
	}

	return &Capture{
		Pages:         pages,
		Auto:          auto,
		MaxPages:      maxPages,
		Interval:      seconds(v.GetFloat64("interval")),
		ActivateDelay: seconds(v.GetFloat64("activate-delay")),
		SettleDelay:   seconds(v.GetFloat64("settle")),
		Key:           v.GetString("key"),
		OutputDir:     ExpandPath(output),
		PDF:           v.GetBool("pdf") && !v.GetBool("no-pdf"),
		Trim:          trim,
		Window:        v.GetInt("window"),
		DatabaseURL:   v.GetString("db"),
	}, nil
}

// LoadAnalyze resolves the analyze settings
func LoadAnalyze(v *viper.Viper) (*Analyze, error) {
	input := v.GetString("input")
	if input == "" {
		input = DefaultOutputDir()
	}
	workers := v.GetInt("workers")
	if workers <= 0 {
		workers = DefaultWorkers
	}
	model := v.GetString("model")
	if model == "" {
		model = DefaultModel
	}
	url := v.GetString("ollama-url")
	if url == "" {
		url = DefaultOllamaURL
	}
	return &Analyze{
		InputDir:    ExpandPath(input),
		Model:       model,
		OllamaURL:   url,
		Workers:     workers,
		DatabaseURL: v.GetString("db"),
	}, nil
}

// ParsePages accepts a positive page count or "auto"
func ParsePages(s string) (pages int, auto bool, err error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return 0, true, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidPages, s)
	}
	return n, false, nil
}

// ExpandPath replaces a leading ~ with the home directory
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
