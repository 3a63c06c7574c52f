package common

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig    `toml:"ocr"`
	Cache  CacheConfig  `toml:"cache"`
	Rename RenameConfig `toml:"rename"`
	Log    LogConfig    `toml:"log"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext      string `toml:"pdftotext"`
	Pdftoppm       string `toml:"pdftoppm"`
	Tesseract      string `toml:"tesseract"`
	TesseractLang  string `toml:"tesseract_lang"`
	TessdataDir    string `toml:"tessdata_dir"`
	DPI            int    `toml:"dpi"`
	UseTextLayer   bool   `toml:"use_text_layer"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CacheConfig holds text cache configuration
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// RenameConfig holds rename executor configuration
type RenameConfig struct {
	LockPath string `toml:"lock_path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Timeout returns the per-file text extraction timeout.
func (c OCRConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MaxAge returns how long cached text stays valid; zero means forever.
func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	stateDir := defaultStateDir()
	return Config{
		OCR: OCRConfig{
			Pdftotext:      "pdftotext",
			Pdftoppm:       "pdftoppm",
			Tesseract:      "tesseract",
			TesseractLang:  "deu+eng",
			DPI:            300,
			UseTextLayer:   true,
			TimeoutSeconds: 120,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       filepath.Join(stateDir, "text-cache.db"),
			MaxAgeDays: 90,
		},
		Rename: RenameConfig{
			LockPath: filepath.Join(stateDir, "rename.lock"),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the location used when no --config flag is given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "smart-rename.toml"
	}
	return filepath.Join(dir, "smart-rename", "config.toml")
}

func defaultStateDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "smart-rename")
	}
	return filepath.Join(dir, "smart-rename")
}

// LoadConfig builds the effective configuration: defaults, then the TOML file
// at path (or the default path when empty), then environment variables.
// It returns the resolved file path and whether that file existed.
func LoadConfig(path string) (*Config, string, bool, error) {
	cfg := DefaultConfig()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	data, err := os.ReadFile(resolved)
	exists := err == nil
	switch {
	case err == nil:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, resolved, true, NewAppError("CONFIG_ERROR", "parse "+resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, resolved, false, NewAppError("CONFIG_ERROR", "config file not found: "+resolved, ErrInvalidInput)
		}
	default:
		return nil, resolved, false, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() {
	c.OCR.Pdftotext = getEnv("SMART_RENAME_PDFTOTEXT", c.OCR.Pdftotext)
	c.OCR.Pdftoppm = getEnv("SMART_RENAME_PDFTOPPM", c.OCR.Pdftoppm)
	c.OCR.Tesseract = getEnv("SMART_RENAME_TESSERACT", c.OCR.Tesseract)
	c.OCR.TesseractLang = getEnv("SMART_RENAME_TESSERACT_LANG", c.OCR.TesseractLang)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)
	c.OCR.DPI = getEnvAsInt("SMART_RENAME_DPI", c.OCR.DPI)
	c.OCR.UseTextLayer = getEnvAsBool("SMART_RENAME_USE_TEXT_LAYER", c.OCR.UseTextLayer)
	c.OCR.TimeoutSeconds = getEnvAsInt("SMART_RENAME_OCR_TIMEOUT", c.OCR.TimeoutSeconds)

	c.Cache.Enabled = getEnvAsBool("SMART_RENAME_CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Path = getEnv("SMART_RENAME_CACHE_PATH", c.Cache.Path)
	c.Cache.MaxAgeDays = getEnvAsInt("SMART_RENAME_CACHE_MAX_AGE_DAYS", c.Cache.MaxAgeDays)

	c.Rename.LockPath = getEnv("SMART_RENAME_LOCK_PATH", c.Rename.LockPath)

	c.Log.Level = getEnv("SMART_RENAME_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SMART_RENAME_LOG_FORMAT", c.Log.Format)
}

func (c *Config) normalize() error {
	var err error
	if c.Cache.Path, err = ExpandPath(c.Cache.Path); err != nil {
		return err
	}
	if c.Rename.LockPath, err = ExpandPath(c.Rename.LockPath); err != nil {
		return err
	}
	if c.OCR.TessdataDir, err = ExpandPath(c.OCR.TessdataDir); err != nil {
		return err
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	return nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("ocr.pdftoppm", c.OCR.Pdftoppm, Required).
		Field("ocr.tesseract", c.OCR.Tesseract, Required).
		Field("ocr.tesseract_lang", c.OCR.TesseractLang, Required, MaxLength(64)).
		Field("ocr.dpi", c.OCR.DPI, IntRange(72, 1200)).
		Field("ocr.timeout_seconds", c.OCR.TimeoutSeconds, IntRange(1, 3600)).
		Field("rename.lock_path", c.Rename.LockPath, Required).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("text", "json"))
	if c.OCR.UseTextLayer {
		v.Field("ocr.pdftotext", c.OCR.Pdftotext, Required)
	}
	if c.Cache.Enabled {
		v.Field("cache.path", c.Cache.Path, Required).
			Field("cache.max_age_days", c.Cache.MaxAgeDays, IntRange(0, 36500))
	}
	return v.Err("CONFIG_ERROR")
}

// EncodeTOML renders the configuration as a TOML document.
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}

// ExpandPath trims path, expands a leading ~ and cleans the result.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
