package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/buckleypaul/comsetup/internal/setup"
)

const (
	DefaultLogFile       = "setup.log"
	DefaultPollInterval  = "1s"
	DefaultScreenshotExt = ".png"
	DefaultDialog        = "desktop"
)

// Config holds all comsetup configuration.
type Config struct {
	LogDir        string         `json:"log_dir,omitempty"`
	LogFile       string         `json:"log_file,omitempty"`
	PollInterval  string         `json:"poll_interval,omitempty"`
	WaitTimeout   string         `json:"wait_timeout,omitempty"`
	Dialog        string         `json:"dialog,omitempty"`
	ScreenshotExt string         `json:"screenshot_ext,omitempty"`
	StrictExit    bool           `json:"strict_exit,omitempty"`
	Devices       []setup.Device `json:"devices,omitempty"`
}

// DefaultLogDir is C:\SetupLogs on Windows and ~/SetupLogs elsewhere.
func DefaultLogDir() string {
	if runtime.GOOS == "windows" {
		return `C:\SetupLogs`
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "SetupLogs"
	}
	return filepath.Join(home, "SetupLogs")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogDir:        DefaultLogDir(),
		LogFile:       DefaultLogFile,
		PollInterval:  DefaultPollInterval,
		Dialog:        DefaultDialog,
		ScreenshotExt: DefaultScreenshotExt,
	}
}

// Interval parses PollInterval.
func (c Config) Interval() (time.Duration, error) {
	return parseDuration("poll_interval", c.PollInterval)
}

// Timeout parses WaitTimeout. Zero means wait forever.
func (c Config) Timeout() (time.Duration, error) {
	return parseDuration("wait_timeout", c.WaitTimeout)
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

// Load reads and merges global and working-directory configs.
// Order: defaults → global (~/.config/comsetup/config.json) → local (.comsetup/config.json).
func Load(workDir string) Config {
	cfg := Defaults()

	// Global config
	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".config", "comsetup", "config.json")
		mergeFromFile(&cfg, globalPath)
	}

	// Local config
	if workDir != "" {
		localPath := filepath.Join(workDir, ".comsetup", "config.json")
		mergeFromFile(&cfg, localPath)
	}

	return cfg
}

// Path returns the config file for workDir, or the global config file if
// global is true.
func Path(workDir string, global bool) (string, error) {
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "comsetup", "config.json"), nil
	}
	return filepath.Join(workDir, ".comsetup", "config.json"), nil
}

// LoadFile reads a single config file without merging. A missing file
// yields an empty Config.
func LoadFile(workDir string, global bool) (Config, error) {
	var cfg Config
	path, err := Path(workDir, global)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to <workDir>/.comsetup/config.json by default,
// or to the global config if global is true.
func Save(cfg Config, workDir string, global bool) error {
	path, err := Path(workDir, global)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

var setters = map[string]func(*Config, string) error{
	"log_dir":  func(c *Config, v string) error { c.LogDir = v; return nil },
	"log_file": func(c *Config, v string) error { c.LogFile = v; return nil },
	"poll_interval": func(c *Config, v string) error {
		if _, err := parseDuration("poll_interval", v); err != nil {
			return err
		}
		c.PollInterval = v
		return nil
	},
	"wait_timeout": func(c *Config, v string) error {
		if _, err := parseDuration("wait_timeout", v); err != nil {
			return err
		}
		c.WaitTimeout = v
		return nil
	},
	"dialog": func(c *Config, v string) error {
		if v != "desktop" && v != "terminal" {
			return fmt.Errorf("dialog: want desktop or terminal, got %q", v)
		}
		c.Dialog = v
		return nil
	},
	"screenshot_ext": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case ".png", ".jpg", ".jpeg":
			c.ScreenshotExt = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("screenshot_ext: want .png, .jpg or .jpeg, got %q", v)
	},
	"strict_exit": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("strict_exit: %w", err)
		}
		c.StrictExit = b
		return nil
	},
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates value and assigns it to the setting named key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

func mergeFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = fileCfg.LogFile
	}
	if fileCfg.PollInterval != "" {
		cfg.PollInterval = fileCfg.PollInterval
	}
	if fileCfg.WaitTimeout != "" {
		cfg.WaitTimeout = fileCfg.WaitTimeout
	}
	if fileCfg.Dialog != "" {
		cfg.Dialog = fileCfg.Dialog
	}
	if fileCfg.ScreenshotExt != "" {
		cfg.ScreenshotExt = fileCfg.ScreenshotExt
	}
	if fileCfg.StrictExit {
		cfg.StrictExit = true
	}
	if len(fileCfg.Devices) > 0 {
		cfg.Devices = fileCfg.Devices
	}
}
