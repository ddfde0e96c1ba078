// Package config handles configuration loading for cortex.
//
// Settings come from, in increasing precedence: built-in defaults,
// ~/.cortex/config.json, ~/.cortex/config.toml, a .env file in the working
// directory, and CORTEX_* environment variables. Command-line flags are
// applied on top by the commands package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// Environment variables read by LoadConfig
const (
	EnvConfigDir     = "CORTEX_CONFIG_DIR"
	EnvAPIURL        = "CORTEX_API_URL"
	EnvExpert        = "CORTEX_EXPERT"
	EnvModel         = "CORTEX_MODEL"
	EnvReducedMotion = "CORTEX_REDUCED_MOTION"
	EnvNoMotion      = "NO_MOTION"
	EnvLogFile       = "CORTEX_LOG_FILE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" toml:"style"` // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" toml:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines" toml:"preserve_newlines"`
	TableWrap        bool   `json:"table_wrap" toml:"table_wrap"`
}

// ChartConfig configures chart extraction and export
type ChartConfig struct {
	// SalesFallback keeps the placeholder series for replies mentioning sales_data
	SalesFallback bool `json:"sales_fallback" toml:"sales_fallback"`
	// ExportFormat is "png" or "svg"
	ExportFormat string `json:"export_format" toml:"export_format"`
	Width        int    `json:"width" toml:"width"`
	Height       int    `json:"height" toml:"height"`
}

// Config represents the user configuration
type Config struct {
	APIURL        string `json:"api_url" toml:"api_url"`
	DefaultExpert string `json:"default_expert" toml:"default_expert"`
	DefaultModel  string `json:"default_model" toml:"default_model"`
	UseRAG        bool   `json:"use_rag" toml:"use_rag"`

	// Timeouts in seconds
	ChatTimeout   int `json:"chat_timeout" toml:"chat_timeout"`
	HeavyTimeout  int `json:"heavy_timeout" toml:"heavy_timeout"`
	UploadTimeout int `json:"upload_timeout" toml:"upload_timeout"`
	// HeavyExperts get HeavyTimeout instead of ChatTimeout
	HeavyExperts []string `json:"heavy_experts,omitempty" toml:"heavy_experts"`

	ReducedMotion   bool           `json:"reduced_motion" toml:"reduced_motion"`
	WelcomePhrases  []string       `json:"welcome_phrases,omitempty" toml:"welcome_phrases"`
	CopyToClipboard bool           `json:"copy_to_clipboard" toml:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" toml:"tui_theme"`
	DownloadDir     string         `json:"download_dir,omitempty" toml:"download_dir"`
	Markdown        MarkdownConfig `json:"markdown" toml:"markdown"`
	Chart           ChartConfig    `json:"chart" toml:"chart"`

	Verbose  bool   `json:"verbose" toml:"verbose"`
	LogLevel string `json:"log_level,omitempty" toml:"log_level"`
	LogFile  string `json:"log_file,omitempty" toml:"log_file"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultWelcomePhrases are cycled by the welcome-screen typewriter
func DefaultWelcomePhrases() []string {
	return []string{
		"Ask about your documents",
		"Summarize a policy in seconds",
		"Chart your sales over time",
		"Compare two contract versions",
		"Check the quality of a dataset",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		APIURL:          models.DefaultAPIURL,
		DefaultExpert:   models.DefaultPersona().ID,
		DefaultModel:    models.DefaultModel().ID,
		UseRAG:          true,
		ChatTimeout:     int(models.DefaultChatTimeout / time.Second),
		HeavyTimeout:    int(models.HeavyChatTimeout / time.Second),
		UploadTimeout:   int(models.DefaultUploadTimeout / time.Second),
		HeavyExperts:    []string{"data_analytics"},
		ReducedMotion:   false,
		WelcomePhrases:  DefaultWelcomePhrases(),
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		DownloadDir:     filepath.Join(homeDir, ".cortex", "downloads"),
		Markdown:        DefaultMarkdownConfig(),
		Chart: ChartConfig{
			SalesFallback: true,
			ExportFormat:  "png",
			Width:         1024,
			Height:        512,
		},
		LogLevel: "info",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".cortex"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the JSON config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetTOMLConfigPath returns the path to the TOML config file
func GetTOMLConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetDownloadDir returns the download directory from config, creating it if necessary
func GetDownloadDir(cfg Config) (string, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		dir = DefaultConfig().DownloadDir
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk and the environment.
// On a parse error the defaults (with env overrides) are returned with the error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if err := loadJSON(&cfg); err != nil {
		cfg = DefaultConfig()
		applyEnv(&cfg)
		return cfg, err
	}
	if err := loadTOML(&cfg); err != nil {
		cfg = DefaultConfig()
		applyEnv(&cfg)
		return cfg, err
	}

	// A missing .env is the normal case
	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, cfg.Validate()
}

func loadJSON(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func loadTOML(cfg *Config) error {
	path, err := GetTOMLConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvExpert); v != "" {
		cfg.DefaultExpert = models.NormalizePersonaID(v)
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if envBool(EnvReducedMotion) || envBool(EnvNoMotion) {
		cfg.ReducedMotion = true
	}
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		// Any non-boolean value (e.g. "yes") counts as set
		return true
	}
	return b
}

// Validate checks field values that would break requests later
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q is not an absolute URL", c.APIURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api_url scheme must be http or https, got %q", u.Scheme))
	}

	if _, ok := models.PersonaByID(c.DefaultExpert); !ok {
		errs = append(errs, fmt.Errorf("unknown default_expert %q", c.DefaultExpert))
	}
	if _, ok := models.ModelByID(c.DefaultModel); !ok {
		errs = append(errs, fmt.Errorf("unknown default_model %q", c.DefaultModel))
	}
	if c.ChatTimeout <= 0 || c.HeavyTimeout <= 0 || c.UploadTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	switch strings.ToLower(c.Chart.ExportFormat) {
	case "", "png", "svg":
	default:
		errs = append(errs, fmt.Errorf("chart.export_format must be png or svg, got %q", c.Chart.ExportFormat))
	}

	return errors.Join(errs...)
}

// ChatTimeouts returns the chat deadlines as durations
func (c Config) ChatTimeouts() (normal, heavy time.Duration) {
	return time.Duration(c.ChatTimeout) * time.Second, time.Duration(c.HeavyTimeout) * time.Second
}

// SaveConfig saves the configuration to disk as JSON
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeTOML renders cfg in TOML form (used by `cortex config show --toml`)
func EncodeTOML(cfg Config) (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return sb.String(), nil
}
