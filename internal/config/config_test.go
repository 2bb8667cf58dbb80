package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, DefaultPath, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	result := Load(fs, DefaultPath, LoadOptions{})

	assert.Equal(t, StatusDefault, result.Status)
	assert.False(t, result.HasError)
	assert.Equal(t, Default(), result.Config)
	assert.Equal(t, 480, result.Config.ScreenWidth)
	assert.Equal(t, 800, result.Config.ScreenHeight)
	assert.Equal(t, "/sleep.bmp", result.Config.CoverPath)
	assert.Equal(t, 1000, result.Config.StatusPauseMs)
	assert.Equal(t, 2048, result.Config.CopyChunkSize)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name       string
		configJSON string
		status     string
		check      func(t *testing.T, c Config)
	}{
		{
			name: "Valid config",
			configJSON: `{
				"screen_width": 600,
				"screen_height": 800,
				"sort_method": 1,
				"sleep_screen": "custom",
				"cover_path": "/covers/../sleep.bmp",
				"status_pause_ms": 250,
				"language": "de"
			}`,
			status: StatusOK,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 600, c.ScreenWidth)
				assert.Equal(t, SortNatural, c.SortMethod)
				assert.Equal(t, SleepScreenCustom, c.SleepScreen)
				assert.Equal(t, "/sleep.bmp", c.CoverPath)
				assert.Equal(t, 250, c.StatusPauseMs)
				assert.Equal(t, "de", c.Language)
			},
		},
		{
			name:       "Screen too small",
			configJSON: `{"screen_width": 10, "screen_height": 50}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, defaultScreenWidth, c.ScreenWidth)
				assert.Equal(t, defaultScreenHeight, c.ScreenHeight)
			},
		},
		{
			name:       "Sort method out of range",
			configJSON: `{"sort_method": 7}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, SortCaseInsensitive, c.SortMethod)
			},
		},
		{
			name:       "Unknown sleep screen",
			configJSON: `{"sleep_screen": "sparkles"}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, SleepScreenDark, c.SleepScreen)
			},
		},
		{
			name:       "Relative cover path",
			configJSON: `{"cover_path": "sleep.bmp"}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, DefaultCoverPath, c.CoverPath)
			},
		},
		{
			name:       "Pause and chunk clamped",
			configJSON: `{"status_pause_ms": 90000, "copy_chunk_size": 1000000}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, maxStatusPauseMs, c.StatusPauseMs)
				assert.Equal(t, maxChunkSize, c.CopyChunkSize)
			},
		},
		{
			name:       "Chunk too small",
			configJSON: `{"copy_chunk_size": 8, "status_pause_ms": -1}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, defaultChunkSize, c.CopyChunkSize)
				assert.Equal(t, defaultStatusPauseMs, c.StatusPauseMs)
			},
		},
		{
			name:       "Unsupported language",
			configJSON: `{"language": "xx"}`,
			status:     StatusWarning,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "en", c.Language)
			},
		},
		{
			name:       "Missing keybindings filled",
			configJSON: `{"keybindings": {"back": ["KeyQ"]}}`,
			status:     StatusOK,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, []string{"KeyQ"}, c.Keybindings[ActionBack])
				assert.Equal(t, DefaultKeybindings()[ActionDown], c.Keybindings[ActionDown])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeConfig(t, fs, tt.configJSON)

			result := Load(fs, DefaultPath, LoadOptions{Languages: []string{"en", "de", "fr"}})

			assert.Equal(t, tt.status, result.Status, "warnings: %v", result.Warnings)
			tt.check(t, result.Config)
		})
	}
}

func TestLoadReportsEveryFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `{
		"screen_width": 1,
		"screen_height": 2,
		"sort_method": -4,
		"sleep_screen": "sparkles",
		"cover_path": "cover.png",
		"status_pause_ms": 9999,
		"copy_chunk_size": 3,
		"language": "xx"
	}`)

	result := Load(fs, DefaultPath, LoadOptions{Languages: []string{"en"}})

	assert.Equal(t, StatusWarning, result.Status)
	assert.False(t, result.HasError)
	assert.Len(t, result.Warnings, 8, "warnings: %v", result.Warnings)
	assert.Contains(t, result.Warnings, "screen_width 1 below 100")
	assert.Contains(t, result.Warnings, "unknown sort_method -4")
	assert.Contains(t, result.Warnings, "status_pause_ms 9999 clamped to 5000")
	assert.Contains(t, result.Warnings, "copy_chunk_size 3 below 512")
}

func TestLoadInvalidJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `{"screen_width": `)

	result := Load(fs, DefaultPath, LoadOptions{})

	assert.True(t, result.HasError)
	assert.Equal(t, StatusError, result.Status)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, Default(), result.Config)
}

func TestLoadRejectedKeybindings(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `{"keybindings": {"back": ["Bogus"]}}`)

	result := Load(fs, DefaultPath, LoadOptions{
		ValidateKeys: func(map[string][]string) error { return errors.New("unknown key: Bogus") },
	})

	assert.Equal(t, StatusWarning, result.Status)
	assert.Equal(t, DefaultKeybindings(), result.Config.Keybindings)
}

func TestStoreSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, DefaultPath, Default())

	store.SetSleepScreen(SleepScreenCustom)
	require.NoError(t, store.Save())

	result := Load(fs, DefaultPath, LoadOptions{})
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, SleepScreenCustom, result.Config.SleepScreen)
	assert.Equal(t, SleepScreenCustom, store.SleepScreen())
}

func TestSaveRejectsInvalidSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := Default()
	c.ScreenWidth = 0

	assert.Error(t, Save(fs, DefaultPath, c))
	exists, _ := afero.Exists(fs, DefaultPath)
	assert.False(t, exists)
}

func TestDefaultKeybindingsAreCopies(t *testing.T) {
	a := DefaultKeybindings()
	a[ActionBack][0] = "KeyZ"
	assert.Equal(t, "Escape", DefaultKeybindings()[ActionBack][0])

	names := []string{}
	for _, def := range Actions() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{ActionBack, ActionConfirm, ActionLeft, ActionUp, ActionDown}, names)
	assert.NotEmpty(t, GetActionDescriptions()[ActionConfirm])
}
