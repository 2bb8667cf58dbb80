package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Store keeps the loaded configuration together with the file it came from
// so screens can change a setting and flush it back.
type Store struct {
	fs     afero.Fs
	path   string
	config Config
}

// NewStore wraps an already loaded config.
func NewStore(fs afero.Fs, configPath string, config Config) *Store {
	return &Store{fs: fs, path: configPath, config: config}
}

// Config returns a copy of the current settings.
func (s *Store) Config() Config {
	return s.config
}

// SleepScreen reports the current sleep screen mode.
func (s *Store) SleepScreen() SleepScreenMode {
	return s.config.SleepScreen
}

// SetSleepScreen changes the sleep screen mode in memory. Call Save to
// persist it.
func (s *Store) SetSleepScreen(mode SleepScreenMode) {
	if mode != s.config.SleepScreen {
		logrus.Debugf("Sleep screen mode %s -> %s", s.config.SleepScreen, mode)
	}
	s.config.SleepScreen = mode
}

// Save flushes the settings to disk.
func (s *Store) Save() error {
	return Save(s.fs, s.path, s.config)
}
