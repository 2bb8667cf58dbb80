package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeybindingManager resolves configured key strings against the keyboard
type KeybindingManager struct {
	keybindings map[string][]string
	keyMapping  map[string]ebiten.Key
	combos      map[string][]*KeyCombination
}

// NewKeybindingManager creates a new KeybindingManager. Key strings that do not
// parse are skipped; validateKeybindings reports them when the config loads.
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{
		keyMapping: getKeyMapping(),
	}
	km.UpdateKeybindings(keybindings)
	return km
}

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		// Letters
		"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
		"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
		"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
		"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
		"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
		"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
		"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

		// Numbers
		"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
		"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
		"Key8": ebiten.Key8, "Key9": ebiten.Key9,

		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Delete":     ebiten.KeyDelete,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		// Numpad
		"Numpad0":     ebiten.KeyNumpad0,
		"Numpad1":     ebiten.KeyNumpad1,
		"Numpad2":     ebiten.KeyNumpad2,
		"Numpad3":     ebiten.KeyNumpad3,
		"Numpad4":     ebiten.KeyNumpad4,
		"Numpad5":     ebiten.KeyNumpad5,
		"Numpad6":     ebiten.KeyNumpad6,
		"Numpad7":     ebiten.KeyNumpad7,
		"Numpad8":     ebiten.KeyNumpad8,
		"Numpad9":     ebiten.KeyNumpad9,
		"NumpadEnter": ebiten.KeyNumpadEnter,
	}
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// parseKeyString parses a key string like "Shift+Enter" into a KeyCombination
func parseKeyString(keyMapping map[string]ebiten.Key, keyStr string) (*KeyCombination, error) {
	if keyStr == "" {
		return nil, fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	combination := &KeyCombination{}

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	key, exists := keyMapping[keyName]
	if !exists {
		return nil, fmt.Errorf("unknown key: %s", keyName)
	}
	combination.Key = key

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return nil, fmt.Errorf("unknown modifier: %s", modifier)
		}
	}

	return combination, nil
}

// isKeyReleased reports whether the combination's key went up this frame
// with exactly its modifiers held. Device buttons act on release.
func (km *KeybindingManager) isKeyReleased(combination *KeyCombination) bool {
	if !inpututil.IsKeyJustReleased(combination.Key) {
		return false
	}

	if combination.Shift != ebiten.IsKeyPressed(ebiten.KeyShift) {
		return false
	}
	if combination.Ctrl != ebiten.IsKeyPressed(ebiten.KeyControl) {
		return false
	}
	if combination.Alt != ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return false
	}

	return true
}

// CheckAction checks if any keybinding for the given action was released
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, combination := range km.combos[action] {
		if km.isKeyReleased(combination) {
			return true
		}
	}
	return false
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings replaces the keybindings and re-parses them
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.combos = make(map[string][]*KeyCombination, len(keybindings))
	for action, keys := range keybindings {
		for _, keyStr := range keys {
			combination, err := parseKeyString(km.keyMapping, keyStr)
			if err != nil {
				continue
			}
			km.combos[action] = append(km.combos[action], combination)
		}
	}
}

// validateKeybindings checks key formats and rejects a key bound to two
// actions. It is passed to config.Load.
func validateKeybindings(keybindings map[string][]string) error {
	keyMapping := getKeyMapping()
	keyToAction := make(map[string]string)

	actions := make([]string, 0, len(keybindings))
	for action := range keybindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		for _, keyStr := range keybindings[action] {
			if _, err := parseKeyString(keyMapping, keyStr); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			// Check for conflicts
			normalized := normalizeKeyString(keyStr)
			if existingAction, exists := keyToAction[normalized]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[normalized] = action
		}
	}

	return nil
}

// normalizeKeyString orders modifiers so "Ctrl+Shift+X" and "shift+ctrl+X"
// compare equal.
func normalizeKeyString(keyStr string) string {
	parts := strings.Split(keyStr, "+")
	mods := make([]string, 0, len(parts)-1)
	for _, m := range parts[:len(parts)-1] {
		mods = append(mods, strings.ToLower(m))
	}
	sort.Strings(mods)
	return strings.Join(append(mods, parts[len(parts)-1]), "+")
}
