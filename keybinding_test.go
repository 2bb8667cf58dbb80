package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmpview/internal/config"
)

func TestParseKeyString(t *testing.T) {
	mapping := getKeyMapping()

	tests := []struct {
		in      string
		want    KeyCombination
		wantErr string
	}{
		{in: "Enter", want: KeyCombination{Key: ebiten.KeyEnter}},
		{in: "Delete", want: KeyCombination{Key: ebiten.KeyDelete}},
		{in: "Shift+KeyB", want: KeyCombination{Key: ebiten.KeyB, Shift: true}},
		{in: "ctrl+ALT+ArrowUp", want: KeyCombination{Key: ebiten.KeyArrowUp, Ctrl: true, Alt: true}},
		{in: "", wantErr: "empty key string"},
		{in: "Hyper+KeyB", wantErr: "unknown modifier: Hyper"},
		{in: "KeyÄ", wantErr: "unknown key: KeyÄ"},
		{in: "Shift+", wantErr: "unknown key: "},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKeyString(mapping, tt.in)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestValidateKeybindings(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		assert.NoError(t, validateKeybindings(config.DefaultKeybindings()))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		err := validateKeybindings(map[string][]string{"back": {"Escape", "KeyFoo"}})
		assert.EqualError(t, err, "invalid key 'KeyFoo' for action 'back': unknown key: KeyFoo")
	})

	t.Run("Conflict", func(t *testing.T) {
		err := validateKeybindings(map[string][]string{
			"back": {"Escape"},
			"down": {"Escape"},
		})
		assert.EqualError(t, err, "key conflict: 'Escape' is bound to both 'back' and 'down'")
	})

	t.Run("ConflictModifierOrder", func(t *testing.T) {
		err := validateKeybindings(map[string][]string{
			"back": {"Ctrl+Shift+KeyX"},
			"down": {"shift+ctrl+KeyX"},
		})
		assert.ErrorContains(t, err, "key conflict")
	})

	t.Run("ModifiersDistinguish", func(t *testing.T) {
		assert.NoError(t, validateKeybindings(map[string][]string{
			"confirm": {"Enter"},
			"left":    {"Shift+Enter"},
		}))
	})
}

func TestNormalizeKeyString(t *testing.T) {
	assert.Equal(t, "Enter", normalizeKeyString("Enter"))
	assert.Equal(t, "ctrl+shift+KeyX", normalizeKeyString("Shift+Ctrl+KeyX"))
}

func TestKeybindingManagerSkipsInvalidKeys(t *testing.T) {
	km := NewKeybindingManager(map[string][]string{
		"back": {"Escape", "NoSuchKey", "Shift+Backspace"},
	})

	require.Len(t, km.combos["back"], 2)
	assert.Equal(t, ebiten.KeyEscape, km.combos["back"][0].Key)
	assert.True(t, km.combos["back"][1].Shift)
	assert.Empty(t, km.combos["confirm"])
	assert.Equal(t, []string{"Escape", "NoSuchKey", "Shift+Backspace"}, km.GetKeybindings()["back"])
}

func TestDefaultKeysAreMapped(t *testing.T) {
	mapping := getKeyMapping()
	for action, keys := range config.DefaultKeybindings() {
		for _, k := range keys {
			_, err := parseKeyString(mapping, k)
			assert.NoError(t, err, "%s: %s", action, k)
		}
	}
}
