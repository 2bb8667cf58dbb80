package main

import (
	"bmpview/internal/config"
	"bmpview/internal/viewer"
)

// buttonActions maps each device button to its keybinding action.
var buttonActions = map[viewer.Button]string{
	viewer.ButtonBack:    config.ActionBack,
	viewer.ButtonConfirm: config.ActionConfirm,
	viewer.ButtonLeft:    config.ActionLeft,
	viewer.ButtonUp:      config.ActionUp,
	viewer.ButtonDown:    config.ActionDown,
}

// actionChecker reports whether an action's binding fired this frame.
type actionChecker interface {
	CheckAction(action string) bool
}

// InputHandler maps keyboard releases onto the device's buttons
type InputHandler struct {
	keys             actionChecker
	swapFrontButtons bool
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(keys actionChecker, swapFrontButtons bool) *InputHandler {
	return &InputHandler{
		keys:             keys,
		swapFrontButtons: swapFrontButtons,
	}
}

// WasReleased reports whether button b was released this frame.
func (h *InputHandler) WasReleased(b viewer.Button) bool {
	action, ok := buttonActions[b]
	if !ok {
		return false
	}
	return h.keys.CheckAction(action)
}

// MapLabels orders the hint labels by physical button position. The default
// front row is back, confirm, previous, next; swapped puts the paging pair
// first.
func (h *InputHandler) MapLabels(back, confirm, previous, next string) viewer.Labels {
	if h.swapFrontButtons {
		return viewer.Labels{Btn1: previous, Btn2: next, Btn3: back, Btn4: confirm}
	}
	return viewer.Labels{Btn1: back, Btn2: confirm, Btn3: previous, Btn4: next}
}
