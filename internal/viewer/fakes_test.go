package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"bmpview/internal/bitmap"
	"bmpview/internal/config"
	"bmpview/internal/storage"
)

const (
	testScreenW = 480
	testScreenH = 800
)

// recordingDisplay logs every drawing call as a short string.
type recordingDisplay struct {
	ops []string
}

func (d *recordingDisplay) ScreenWidth() int  { return testScreenW }
func (d *recordingDisplay) ScreenHeight() int { return testScreenH }
func (d *recordingDisplay) Clear()            { d.ops = append(d.ops, "clear") }

func (d *recordingDisplay) DrawBitmap(img image.Image, x, y, maxW, maxH, cropX, cropY int) {
	b := img.Bounds()
	d.ops = append(d.ops, fmt.Sprintf("bitmap %dx%d at %d,%d max %dx%d crop %d,%d", b.Dx(), b.Dy(), x, y, maxW, maxH, cropX, cropY))
}

func (d *recordingDisplay) DrawCenteredText(font FontID, y int, text string) {
	d.ops = append(d.ops, fmt.Sprintf("text %d %s", y, text))
}

func (d *recordingDisplay) DrawPopup(text string) image.Rectangle {
	d.ops = append(d.ops, "popup "+text)
	return image.Rect(100, 300, 380, 400)
}

func (d *recordingDisplay) FillPopupProgress(popup image.Rectangle, percent int) {
	d.ops = append(d.ops, fmt.Sprintf("progress %d", percent))
}

func (d *recordingDisplay) DrawButtonHints(l Labels) {
	d.ops = append(d.ops, "hints "+strings.Join([]string{l.Btn1, l.Btn2, l.Btn3, l.Btn4}, "|"))
}

func (d *recordingDisplay) DisplayBuffer(mode RefreshMode) {
	d.ops = append(d.ops, "flip "+mode.String())
}

func (d *recordingDisplay) reset() { d.ops = nil }

func (d *recordingDisplay) count(prefix string) int {
	n := 0
	for _, op := range d.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

func (d *recordingDisplay) has(op string) bool {
	for _, o := range d.ops {
		if o == op {
			return true
		}
	}
	return false
}

// scriptedInput reports the buttons pressed for the next tick.
type scriptedInput struct {
	released map[Button]bool
}

func (in *scriptedInput) WasReleased(b Button) bool { return in.released[b] }

func (in *scriptedInput) MapLabels(back, confirm, previous, next string) Labels {
	return Labels{Btn1: back, Btn2: confirm, Btn3: previous, Btn4: next}
}

type fakeSettings struct {
	mode    config.SleepScreenMode
	saves   int
	saveErr error
}

func (s *fakeSettings) SetSleepScreen(mode config.SleepScreenMode) { s.mode = mode }

func (s *fakeSettings) Save() error {
	s.saves++
	return s.saveErr
}

// failingRemoveVolume refuses every delete.
type failingRemoveVolume struct {
	storage.Volume
}

func (v failingRemoveVolume) Remove(string) error { return errors.New("write protected") }

type harness struct {
	t        *testing.T
	fs       afero.Fs
	viewer   *Viewer
	display  *recordingDisplay
	input    *scriptedInput
	settings *fakeSettings
	sleeps   []time.Duration
	exits    int
}

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newHarness(t *testing.T, files map[string][]byte, path string, wrap func(storage.Volume) storage.Volume) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0644))
	}
	var vol storage.Volume = storage.NewAferoVolume(fs)
	if wrap != nil {
		vol = wrap(vol)
	}

	h := &harness{
		t:        t,
		fs:       fs,
		display:  &recordingDisplay{},
		input:    &scriptedInput{},
		settings: &fakeSettings{mode: config.SleepScreenDark},
	}
	h.viewer = New(Options{
		Path:        path,
		Volume:      vol,
		Display:     h.display,
		Input:       h.input,
		Decoder:     bitmap.NewDecoder(0),
		Settings:    h.settings,
		CoverPath:   "/sleep.bmp",
		StatusPause: time.Second,
		Sleep:       func(d time.Duration) { h.sleeps = append(h.sleeps, d) },
		OnExit:      func() { h.exits++ },
	})
	return h
}

// press runs one tick with the given buttons released.
func (h *harness) press(buttons ...Button) {
	h.input.released = map[Button]bool{}
	for _, b := range buttons {
		h.input.released[b] = true
	}
	h.display.reset()
	h.viewer.Tick()
	h.input.released = nil
}

func (h *harness) exists(path string) bool {
	ok, err := afero.Exists(h.fs, path)
	require.NoError(h.t, err)
	return ok
}
