package main

import (
	"image"

	"bmpview/internal/viewer"
)

// Screen is the controller the simulator drives once per frame.
type Screen interface {
	Tick()
	Exit()
	Path() string
	State() viewer.ViewerState
}

// Panel is the emulated e-paper panel as seen by the window renderer.
type Panel interface {
	Frame() *image.Gray
	Flips() (int, viewer.RefreshMode)
}
