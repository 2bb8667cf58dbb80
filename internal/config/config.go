// Package config loads and persists the viewer settings file.
package config

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Screen size constants (portrait e-paper panel)
const (
	defaultScreenWidth  = 480
	defaultScreenHeight = 800
	minScreenSize       = 100
)

// Sort method constants
const (
	SortCaseInsensitive = 0 // Lowercased lexicographic order
	SortNatural         = 1 // Natural order (e.g., img2 before img10)
	SortEntryOrder      = 2 // Directory entry order (no sort)
)

const (
	DefaultPath          = "/.bmpview.json"
	DefaultCoverPath     = "/sleep.bmp"
	defaultStatusPauseMs = 1000
	maxStatusPauseMs     = 5000
	defaultChunkSize     = 2048
	minChunkSize         = 512
	maxChunkSize         = 65536
	defaultLanguage      = "en"
)

// SleepScreenMode selects what the device shows while asleep.
type SleepScreenMode string

const (
	SleepScreenDark   SleepScreenMode = "dark"
	SleepScreenLight  SleepScreenMode = "light"
	SleepScreenCustom SleepScreenMode = "custom"
	SleepScreenCover  SleepScreenMode = "cover"
	SleepScreenBlank  SleepScreenMode = "blank"
)

func (m SleepScreenMode) valid() bool {
	switch m {
	case SleepScreenDark, SleepScreenLight, SleepScreenCustom, SleepScreenCover, SleepScreenBlank:
		return true
	}
	return false
}

// Load status values
const (
	StatusOK      = "OK"
	StatusDefault = "Default"
	StatusWarning = "Warning"
	StatusError   = "Error"
)

// LoadResult contains the result of loading configuration
type LoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	ScreenWidth      int                 `json:"screen_width"`
	ScreenHeight     int                 `json:"screen_height"`
	SortMethod       int                 `json:"sort_method"`
	SleepScreen      SleepScreenMode     `json:"sleep_screen"`
	CoverPath        string              `json:"cover_path"`
	StatusPauseMs    int                 `json:"status_pause_ms"`
	CopyChunkSize    int                 `json:"copy_chunk_size"`
	Language         string              `json:"language"`
	SwapFrontButtons bool                `json:"swap_front_buttons"`
	Keybindings      map[string][]string `json:"keybindings"`
}

// Default returns the configuration used when no settings file exists.
func Default() Config {
	return Config{
		ScreenWidth:   defaultScreenWidth,
		ScreenHeight:  defaultScreenHeight,
		SortMethod:    SortCaseInsensitive,
		SleepScreen:   SleepScreenDark,
		CoverPath:     DefaultCoverPath,
		StatusPauseMs: defaultStatusPauseMs,
		CopyChunkSize: defaultChunkSize,
		Language:      defaultLanguage,
		Keybindings:   DefaultKeybindings(),
	}
}

// KeybindingValidator checks a keybinding map. The input layer that owns the
// key names installs it; without one keybindings are accepted as is.
type KeybindingValidator func(map[string][]string) error

// LoadOptions tunes Load.
type LoadOptions struct {
	Languages    []string
	ValidateKeys KeybindingValidator
}

// Load reads the settings file at configPath from fs. A missing file is not
// an error; a broken one falls back to defaults and reports why.
func Load(fs afero.Fs, configPath string, opts LoadOptions) LoadResult {
	config := Default()

	result := LoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   StatusOK,
	}

	data, err := afero.ReadFile(fs, configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = StatusDefault
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		logrus.Warnf("Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = StatusError
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		logrus.Warnf("Config %s: %s", configPath, msg)
		result.Warnings = append(result.Warnings, msg)
		result.Status = StatusWarning
	}

	if config.ScreenWidth < minScreenSize {
		warn("screen_width %d below %d", config.ScreenWidth, minScreenSize)
		config.ScreenWidth = defaultScreenWidth
	}
	if config.ScreenHeight < minScreenSize {
		warn("screen_height %d below %d", config.ScreenHeight, minScreenSize)
		config.ScreenHeight = defaultScreenHeight
	}

	if config.SortMethod < SortCaseInsensitive || config.SortMethod > SortEntryOrder {
		warn("unknown sort_method %d", config.SortMethod)
		config.SortMethod = SortCaseInsensitive
	}

	if !config.SleepScreen.valid() {
		warn("unknown sleep_screen %q", config.SleepScreen)
		config.SleepScreen = SleepScreenDark
	}

	if !path.IsAbs(config.CoverPath) || !strings.HasSuffix(config.CoverPath, ".bmp") {
		warn("cover_path %q must be an absolute .bmp path", config.CoverPath)
		config.CoverPath = DefaultCoverPath
	}
	config.CoverPath = path.Clean(config.CoverPath)

	// Status pause (0 disables it, maximum 5s)
	if config.StatusPauseMs < 0 {
		warn("negative status_pause_ms %d", config.StatusPauseMs)
		config.StatusPauseMs = defaultStatusPauseMs
	} else if config.StatusPauseMs > maxStatusPauseMs {
		warn("status_pause_ms %d clamped to %d", config.StatusPauseMs, maxStatusPauseMs)
		config.StatusPauseMs = maxStatusPauseMs
	}

	if config.CopyChunkSize < minChunkSize {
		warn("copy_chunk_size %d below %d", config.CopyChunkSize, minChunkSize)
		config.CopyChunkSize = defaultChunkSize
	} else if config.CopyChunkSize > maxChunkSize {
		warn("copy_chunk_size %d clamped to %d", config.CopyChunkSize, maxChunkSize)
		config.CopyChunkSize = maxChunkSize
	}

	if len(opts.Languages) > 0 && !contains(opts.Languages, config.Language) {
		warn("unsupported language %q", config.Language)
		config.Language = defaultLanguage
	}

	// Fill in missing keybindings with defaults, then validate
	if config.Keybindings == nil {
		config.Keybindings = DefaultKeybindings()
	} else {
		for action, keys := range DefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = keys
			}
		}
		if opts.ValidateKeys != nil {
			if err := opts.ValidateKeys(config.Keybindings); err != nil {
				warn("keybinding errors: %v", err)
				config.Keybindings = DefaultKeybindings()
			}
		}
	}

	result.Config = config
	return result
}

// Save writes config to configPath as indented JSON.
func Save(fs afero.Fs, configPath string, config Config) error {
	if config.ScreenWidth < minScreenSize || config.ScreenHeight < minScreenSize {
		return fmt.Errorf("refusing to save invalid screen size %dx%d", config.ScreenWidth, config.ScreenHeight)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, configPath, data, 0644); err != nil {
		return fmt.Errorf("save config to %s: %w", configPath, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
