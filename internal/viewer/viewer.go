// Package viewer implements the single image viewing screen: sibling paging,
// crop-to-fill placement, delete confirmation and set-as-sleep-cover.
package viewer

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"bmpview/internal/bitmap"
	"bmpview/internal/config"
	"bmpview/internal/i18n"
	"bmpview/internal/storage"
)

// Literal full screen error messages.
const (
	msgOpenFailed    = "Could not open file"
	msgInvalidBitmap = "Invalid BMP File"
)

const (
	fileTag = "BMP"

	progressOpening = 20
	progressDecoded = 50
)

// Options configures a Viewer.
type Options struct {
	Path       string
	Volume     storage.Volume
	Display    Display
	Input      Input
	Decoder    Decoder
	Translator Translator
	Settings   SleepCoverSettings
	// Sorter orders the sibling images; nil means case-insensitive.
	Sorter SortStrategy
	// CoverPath is where Confirm copies the current image.
	CoverPath string
	// ChunkSize is the copy buffer size; zero selects the default.
	ChunkSize int
	// StatusPause is how long a status popup stays up after a delete or
	// cover update; zero disables it.
	StatusPause time.Duration
	// Sleep implements the status pause; nil means time.Sleep.
	Sleep func(time.Duration)
	// OnExit is called when the user leaves the screen or the shown file
	// is deleted.
	OnExit func()
}

// Viewer is the controller of the viewing screen. It is not safe for
// concurrent use; all calls come from the device's input loop.
type Viewer struct {
	vol       storage.Volume
	display   Display
	input     Input
	decoder   Decoder
	tr        Translator
	settings  SleepCoverSettings
	sorter    SortStrategy
	copier    *storage.Copier
	coverPath string
	pause     time.Duration
	sleep     func(time.Duration)
	onExit    func()

	path    string
	state   ViewerState
	catalog *SiblingCatalog
	closed  bool
}

// New creates a viewer for opts.Path in the Viewing state.
func New(opts Options) *Viewer {
	v := &Viewer{
		vol:       opts.Volume,
		display:   opts.Display,
		input:     opts.Input,
		decoder:   opts.Decoder,
		tr:        opts.Translator,
		settings:  opts.Settings,
		sorter:    opts.Sorter,
		copier:    storage.NewCopier(opts.Volume, opts.ChunkSize),
		coverPath: opts.CoverPath,
		pause:     opts.StatusPause,
		sleep:     opts.Sleep,
		onExit:    opts.OnExit,
		path:      opts.Path,
		state:     Viewing,
	}
	if v.tr == nil {
		v.tr = identityTranslator{}
	}
	if v.sorter == nil {
		v.sorter = &CaseInsensitiveSortStrategy{}
	}
	if v.coverPath == "" {
		v.coverPath = config.DefaultCoverPath
	}
	if v.sleep == nil {
		v.sleep = time.Sleep
	}
	return v
}

// Path returns the file currently shown.
func (v *Viewer) Path() string { return v.path }

// State returns the modal state.
func (v *Viewer) State() ViewerState { return v.state }

// Catalog returns the sibling catalog, or nil before the first render.
func (v *Viewer) Catalog() *SiblingCatalog { return v.catalog }

// Closed reports whether the exit callback has fired.
func (v *Viewer) Closed() bool { return v.closed }

// Enter draws the screen for the first time.
func (v *Viewer) Enter() {
	logrus.Debugf("Viewer enter: %s", v.path)
	v.Render()
}

// Exit blanks the panel when the screen is torn down.
func (v *Viewer) Exit() {
	v.display.Clear()
	v.display.DisplayBuffer(FastRefresh)
}

// Render redraws the whole screen from the current state. It is safe to call
// any number of times; it never changes the path, state or catalog index.
func (v *Viewer) Render() {
	if v.closed {
		return
	}
	if v.catalog.Len() == 0 && v.path != "" {
		v.catalog = ScanSiblings(v.vol, v.path, v.sorter)
	}

	width, height := v.display.ScreenWidth(), v.display.ScreenHeight()
	popup := v.display.DrawPopup(v.tr.Tr(i18n.LoadingPopup))
	v.display.FillPopupProgress(popup, progressOpening)

	f, err := v.vol.OpenForRead(fileTag, v.path)
	if err != nil {
		logrus.Warnf("Could not open %s: %v", v.path, err)
		v.renderError(msgOpenFailed)
		return
	}
	defer f.Close()

	img, err := v.decoder.Decode(f)
	if err != nil {
		if !errors.Is(err, bitmap.ErrInvalid) {
			logrus.Warnf("Reading %s: %v", v.path, err)
		}
		logrus.Debugf("Decode %s: %v", v.path, err)
		v.renderError(msgInvalidBitmap)
		return
	}

	bounds := img.Bounds()
	at := ComputePlacement(bounds.Dx(), bounds.Dy(), width, height)

	var labels Labels
	if v.state == ConfirmingDelete {
		labels = v.input.MapLabels(v.tr.Tr(i18n.Cancel), v.tr.Tr(i18n.Confirm), "", "")
	} else {
		labels = v.input.MapLabels(v.tr.Tr(i18n.Back), v.tr.Tr(i18n.SetSleepCover), v.tr.Tr(i18n.Delete), "")
	}
	v.display.FillPopupProgress(popup, progressDecoded)

	v.display.Clear()
	v.display.DrawBitmap(img, at.X, at.Y, width, height, 0, 0)
	if v.state == ConfirmingDelete {
		v.display.DrawPopup(v.tr.Tr(i18n.DeleteImagePrompt))
	}
	v.display.DrawButtonHints(labels)
	v.display.DisplayBuffer(FullRefresh)

	logrus.Debugf("Rendered %s (%dx%d at %d,%d, %s)", v.path, bounds.Dx(), bounds.Dy(), at.X, at.Y, v.state)
}

func (v *Viewer) renderError(message string) {
	v.display.Clear()
	v.display.DrawCenteredText(FontUI10, v.display.ScreenHeight()/2, message)
	v.display.DrawButtonHints(v.input.MapLabels(v.tr.Tr(i18n.Back), "", "", ""))
	v.display.DisplayBuffer(FastRefresh)
}

// Tick handles at most one released button.
func (v *Viewer) Tick() {
	if v.closed {
		return
	}
	for _, b := range buttonPriority {
		if v.input.WasReleased(b) {
			logrus.Debugf("Button %s released in %s", b, v.state)
			v.handle(b)
			return
		}
	}
}

func (v *Viewer) handle(b Button) {
	switch b {
	case ButtonBack:
		if v.state == ConfirmingDelete {
			v.state = Viewing
			v.Render()
			return
		}
		v.goBack()

	case ButtonConfirm:
		if v.state == ConfirmingDelete {
			v.deleteCurrent()
			return
		}
		v.setAsCover()

	case ButtonLeft:
		if v.state == Viewing {
			v.state = ConfirmingDelete
			v.Render()
		}

	case ButtonUp:
		if v.state != Viewing {
			return
		}
		if p, ok := v.catalog.Previous(); ok {
			v.path = p
			v.Render()
		}

	case ButtonDown:
		if v.state != Viewing {
			return
		}
		if p, ok := v.catalog.Next(); ok {
			v.path = p
			v.Render()
		}
	}
}

func (v *Viewer) deleteCurrent() {
	v.showStatus(i18n.LoadingPopup)

	if err := v.vol.Remove(v.path); err != nil {
		logrus.Errorf("Failed to delete %s: %v", v.path, err)
		v.showStatus(i18n.FailedLower)
		v.sleep(v.pause)
		v.state = Viewing
		v.Render()
		return
	}

	logrus.Infof("Deleted %s", v.path)
	v.showStatus(i18n.Done)
	v.sleep(v.pause)
	v.goBack()
}

func (v *Viewer) setAsCover() {
	v.showStatus(i18n.LoadingPopup)

	if err := v.copier.Copy(v.path, v.coverPath); err != nil {
		logrus.Errorf("Failed to set %s as sleep cover: %v", v.path, err)
		v.display.DrawPopup(v.tr.Tr(i18n.FailedLower))
	} else {
		v.settings.SetSleepScreen(config.SleepScreenCustom)
		if err := v.settings.Save(); err != nil {
			logrus.Errorf("Failed to save settings after cover update: %v", err)
		}
		logrus.Infof("Sleep cover set from %s", v.path)
		v.display.DrawPopup(v.tr.Tr(i18n.Done))
	}
	v.display.DisplayBuffer(FastRefresh)

	v.sleep(v.pause)
	v.Render()
}

func (v *Viewer) showStatus(id string) {
	v.display.DrawPopup(v.tr.Tr(id))
	v.display.DisplayBuffer(FastRefresh)
}

func (v *Viewer) goBack() {
	v.closed = true
	if v.onExit != nil {
		v.onExit()
	}
}

type identityTranslator struct{}

func (identityTranslator) Tr(id string) string { return id }
