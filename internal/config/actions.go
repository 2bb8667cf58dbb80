package config

// Action names, one per logical button of the device.
const (
	ActionBack    = "back"
	ActionConfirm = "confirm"
	ActionLeft    = "left"
	ActionUp      = "up"
	ActionDown    = "down"
)

// ActionDefinition defines an action with its default keybindings and description
type ActionDefinition struct {
	Name        string
	Keys        []string
	Description string
}

// actionDefinitions lists the logical buttons in dispatch priority order.
var actionDefinitions = []ActionDefinition{
	{ActionBack, []string{"Escape", "Backspace"}, "Back / cancel"},
	{ActionConfirm, []string{"Enter", "Space"}, "Set as sleep cover / confirm delete"},
	{ActionLeft, []string{"ArrowLeft", "Delete"}, "Delete image"},
	{ActionUp, []string{"ArrowUp", "PageUp"}, "Previous image"},
	{ActionDown, []string{"ArrowDown", "PageDown"}, "Next image"},
}

// Actions returns the action definitions in dispatch priority order.
func Actions() []ActionDefinition {
	defs := make([]ActionDefinition, len(actionDefinitions))
	copy(defs, actionDefinitions)
	return defs
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// DefaultKeybindings returns a map of action names to their default keybindings
func DefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keys := make([]string, len(action.Keys))
		copy(keys, action.Keys)
		keybindings[action.Name] = keys
	}
	return keybindings
}
