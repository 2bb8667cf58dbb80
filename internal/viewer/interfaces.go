package viewer

import (
	"image"
	"io"

	"bmpview/internal/config"
)

// Button is one of the logical buttons produced by the input mapping layer.
type Button int

const (
	ButtonBack Button = iota
	ButtonConfirm
	ButtonLeft
	ButtonUp
	ButtonDown
)

// buttonPriority is the order in which released buttons are examined each
// tick; only the first released one is handled.
var buttonPriority = []Button{ButtonBack, ButtonConfirm, ButtonLeft, ButtonUp, ButtonDown}

func (b Button) String() string {
	switch b {
	case ButtonBack:
		return "Back"
	case ButtonConfirm:
		return "Confirm"
	case ButtonLeft:
		return "Left"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// Labels holds the hint text for the four physical front buttons.
type Labels struct {
	Btn1, Btn2, Btn3, Btn4 string
}

// RefreshMode selects how the e-paper panel is updated on a buffer flip.
type RefreshMode int

const (
	// FullRefresh flashes the panel to clear ghosting.
	FullRefresh RefreshMode = iota
	// FastRefresh is a partial update.
	FastRefresh
)

func (m RefreshMode) String() string {
	if m == FastRefresh {
		return "fast"
	}
	return "full"
}

// FontID selects one of the display's fonts.
type FontID int

const (
	FontUI10 FontID = iota
	FontUI12
)

// Display provides the screen drawing primitives.
type Display interface {
	ScreenWidth() int
	ScreenHeight() int
	Clear()
	// DrawBitmap draws img with its top-left corner at (x, y), clipped to a
	// maxWidth x maxHeight area, skipping cropX/cropY source pixels.
	DrawBitmap(img image.Image, x, y, maxWidth, maxHeight, cropX, cropY int)
	DrawCenteredText(font FontID, y int, text string)
	// DrawPopup draws a framed message box and returns its bounds.
	DrawPopup(text string) image.Rectangle
	FillPopupProgress(popup image.Rectangle, percent int)
	DrawButtonHints(labels Labels)
	DisplayBuffer(mode RefreshMode)
}

// Input reports button releases for the current tick.
type Input interface {
	WasReleased(b Button) bool
	// MapLabels places the logical hints on the physical button order.
	MapLabels(back, confirm, previous, next string) Labels
}

// Decoder turns an open file into an image. A parse failure must wrap
// bitmap.ErrInvalid.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Translator resolves user facing message IDs.
type Translator interface {
	Tr(id string) string
}

// SleepCoverSettings is the persisted configuration touched by the screen.
type SleepCoverSettings interface {
	SetSleepScreen(mode config.SleepScreenMode)
	Save() error
}
