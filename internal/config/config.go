// Package config provides configuration management for clockin.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const defaultDataDir = "~/.clockin"

// Config holds all configuration for the clockin application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Activity      ActivityConfig     `mapstructure:"activity"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorRunning        string `mapstructure:"color_running"`
	ColorBreak          string `mapstructure:"color_break"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorTask           string `mapstructure:"color_task"`
	ColorHelp           string `mapstructure:"color_help"`
	ColorSelected       string `mapstructure:"color_selected"`
	ColorError          string `mapstructure:"color_error"`
	ProgressGradientEnd string `mapstructure:"progress_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconTask            string `mapstructure:"icon_task"`
	IconActivity        string `mapstructure:"icon_activity"`
	IconScreenshot      string `mapstructure:"icon_screenshot"`
	IconGit             string `mapstructure:"icon_git"`
	IconPaused          string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorRunning:        "#7C6FE0",
		ColorBreak:          "#4ECDC4",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorTask:           "#A0AEC0",
		ColorHelp:           "#95A5A6",
		ColorSelected:       "#A78BFA",
		ColorError:          "#E74C3C",
		ProgressGradientEnd: "#2ECC71",
		IconApp:             "⏱",
		IconTask:            "📋",
		IconActivity:        "⌨",
		IconScreenshot:      "📸",
		IconGit:             "🌿",
		IconPaused:          "⏸",
	}
}

// TimerConfig holds timer settings.
type TimerConfig struct {
	TickInterval Duration `mapstructure:"tick_interval"`
}

// ActivityConfig holds the activity simulator settings.
type ActivityConfig struct {
	KeyboardInterval   Duration `mapstructure:"keyboard_interval"`
	MouseInterval      Duration `mapstructure:"mouse_interval"`
	ScreenshotMaxDelay Duration `mapstructure:"screenshot_max_delay"`
	HistoryLimit       int      `mapstructure:"history_limit"`
	SaveScreenshots    bool     `mapstructure:"save_screenshots"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. An empty File logs to
// <data_dir>/clockin.log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			TickInterval: Duration(time.Second),
		},
		Activity: ActivityConfig{
			KeyboardInterval:   Duration(10 * time.Second),
			MouseInterval:      Duration(5 * time.Second),
			ScreenshotMaxDelay: Duration(10 * time.Minute),
			HistoryLimit:       100,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, writing a default file
// first if none exists.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	for key, value := range flatten(cfg) {
		v.Set(key, value)
	}

	return v.WriteConfigAs(configPath)
}

// Values returns the configuration as dotted keys, the same keys used in
// the TOML file.
func (c *Config) Values() map[string]any {
	return flatten(c)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".clockin", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "clockin.db")
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "clockin.log")
}

// GetScreenshotDir returns the directory captures are written to when
// activity.save_screenshots is on.
func GetScreenshotDir(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "screenshots")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	return v
}

func expandHome(dir string) (string, error) {
	if dir != "" && dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if dir == "" {
		return filepath.Join(homeDir, ".clockin"), nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(dir, "~"), "/")), nil
}

func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"timer.tick_interval":           cfg.Timer.TickInterval.String(),
		"activity.keyboard_interval":    cfg.Activity.KeyboardInterval.String(),
		"activity.mouse_interval":       cfg.Activity.MouseInterval.String(),
		"activity.screenshot_max_delay": cfg.Activity.ScreenshotMaxDelay.String(),
		"activity.history_limit":        cfg.Activity.HistoryLimit,
		"activity.save_screenshots":     cfg.Activity.SaveScreenshots,
		"notifications.enabled":         cfg.Notifications.Enabled,
		"notifications.sound":           cfg.Notifications.Sound,
		"mcp.enabled":                   cfg.MCP.Enabled,
		"storage.data_dir":              cfg.Storage.DataDir,
		"log.level":                     cfg.Log.Level,
		"log.file":                      cfg.Log.File,
		"theme.color_running":           cfg.Theme.ColorRunning,
		"theme.color_break":             cfg.Theme.ColorBreak,
		"theme.color_paused":            cfg.Theme.ColorPaused,
		"theme.color_title":             cfg.Theme.ColorTitle,
		"theme.color_task":              cfg.Theme.ColorTask,
		"theme.color_help":              cfg.Theme.ColorHelp,
		"theme.color_selected":          cfg.Theme.ColorSelected,
		"theme.color_error":             cfg.Theme.ColorError,
		"theme.progress_gradient_end":   cfg.Theme.ProgressGradientEnd,
		"theme.icon_app":                cfg.Theme.IconApp,
		"theme.icon_task":               cfg.Theme.IconTask,
		"theme.icon_activity":           cfg.Theme.IconActivity,
		"theme.icon_screenshot":         cfg.Theme.IconScreenshot,
		"theme.icon_git":                cfg.Theme.IconGit,
		"theme.icon_paused":             cfg.Theme.IconPaused,
	}
}

// setDefaults registers every default so keys missing from an older config
// file still decode.
func setDefaults(v *viper.Viper) {
	for key, value := range flatten(DefaultConfig()) {
		v.SetDefault(key, value)
	}
}
