package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/arismemo/quotation/internal/units"
)

const DefaultBaseURL = "http://localhost:8000"

var ErrInvalidValue = errors.New("invalid configuration value")

type Log struct {
	Level  string
	Format string
}

type Upload struct {
	MaxSize           units.Bytes `yaml:"max_size" toml:"max_size"`
	AllowedTypes      []string    `yaml:"allowed_types" toml:"allowed_types"`
	AllowedExtensions []string    `yaml:"allowed_extensions" toml:"allowed_extensions"`
	Field             string
}

type Compression struct {
	Enabled   bool
	MaxWidth  int `yaml:"max_width" toml:"max_width"`
	MaxHeight int `yaml:"max_height" toml:"max_height"`
	Quality   float64
	MemoSize  units.Bytes `yaml:"memo_size" toml:"memo_size"`
}

type Timeouts struct {
	Request      Duration
	Analysis     Duration
	AnalysisFast Duration `yaml:"analysis_fast" toml:"analysis_fast"`
}

type Cache struct {
	Freshness Duration
}

type UI struct {
	ToastDuration Duration `yaml:"toast_duration" toml:"toast_duration"`
	Debounce      Duration
}

type Config struct {
	BaseURL     SerializableURL `yaml:"base_url" toml:"base_url"`
	Session     string          `yaml:"session,omitempty" toml:"session,omitempty"`
	Log         Log
	Upload      Upload
	Compression Compression
	Timeouts    Timeouts
	Cache       Cache
	UI          UI
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
}

func getBaseConfig() *Config {
	base, err := url.Parse(DefaultBaseURL)
	if err != nil {
		panic("BUG: invalid default base URL")
	}

	return &Config{
		BaseURL: SerializableURL{base},
		Log:     Log{zerolog.LevelInfoValue, "console"},
		Upload: Upload{
			MaxSize:           units.Bytes{Bytes: MaxUploadSize},
			AllowedTypes:      AllowedImageTypes(),
			AllowedExtensions: AllowedImageExtensions(),
			Field:             UploadField,
		},
		Compression: Compression{
			Enabled:   true,
			MaxWidth:  CompressMaxWidth,
			MaxHeight: CompressMaxHeight,
			Quality:   CompressQuality,
			MemoSize:  units.Bytes{Bytes: CompressMemoSize},
		},
		Timeouts: Timeouts{
			Request:      Duration{RequestTimeout},
			Analysis:     Duration{AnalysisTimeout},
			AnalysisFast: Duration{AnalysisFastTimeout},
		},
		Cache: Cache{Freshness: Duration{CacheFreshness}},
		UI: UI{
			ToastDuration: Duration{ToastDuration},
			Debounce:      Duration{DebounceDelay},
		},
	}
}

func Parse(configPath string, lookupEnv func(string) (string, bool)) (*Config, error) {
	c := getBaseConfig()

	fp, err := os.Open(configPath) //nolint:gosec
	if err != nil {
		return c, err
	}
	defer func() { _ = fp.Close() }()

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		decoder := toml.NewDecoder(fp)
		decoder.DisallowUnknownFields()
		err = decoder.Decode(c)
	} else {
		decoder := yaml.NewDecoder(fp)
		decoder.KnownFields(true)
		err = decoder.Decode(c)
	}
	if err != nil {
		return c, fmt.Errorf("unable to parse %s: %w", configPath, err)
	}

	applyOverrides(c, lookupEnv)
	return c, c.Validate()
}

func Default(lookupEnv func(string) (string, bool)) *Config {
	conf := getBaseConfig()
	applyOverrides(conf, lookupEnv)
	return conf
}

func (c *Config) Validate() error {
	switch {
	case c.BaseURL.URL == nil:
		return fmt.Errorf("%w: base_url is required", ErrInvalidValue)
	case c.Upload.MaxSize.Bytes <= 0:
		return fmt.Errorf("%w: upload.max_size must be positive", ErrInvalidValue)
	case c.Compression.MaxWidth <= 0 || c.Compression.MaxHeight <= 0:
		return fmt.Errorf("%w: compression bounds must be positive", ErrInvalidValue)
	case c.Compression.Quality <= 0 || c.Compression.Quality > 1:
		return fmt.Errorf("%w: compression.quality must be in (0, 1]", ErrInvalidValue)
	case c.Timeouts.Request.Duration <= 0:
		return fmt.Errorf("%w: timeouts.request must be positive", ErrInvalidValue)
	}
	return nil
}

func applyOverrides(conf *Config, lookupEnv func(string) (string, bool)) {
	if val, ok := lookupEnv("QUOTATION_BASE_URL"); ok {
		if parsed, err := url.Parse(val); err == nil && parsed.IsAbs() {
			conf.BaseURL = SerializableURL{parsed}
		}
	}

	if val, ok := lookupEnv("QUOTATION_SESSION"); ok {
		conf.Session = val
	}

	if val, ok := lookupEnv("QUOTATION_LOG_LEVEL"); ok {
		conf.Log.Level = val
	}

	if val, ok := lookupEnv("QUOTATION_LOG_FORMAT"); ok {
		conf.Log.Format = val
	}

	if val, ok := lookupEnv("QUOTATION_METRICS_FILE"); ok {
		conf.MetricsFile = val
	}
}

// Render returns the configuration as YAML, with the session redacted.
func (c *Config) Render() (string, error) {
	redacted := *c
	if redacted.Session != "" {
		redacted.Session = "xxxxx"
	}

	buffer := strings.Builder{}
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	err := encoder.Encode(&redacted)
	return buffer.String(), err
}
