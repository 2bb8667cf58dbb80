package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"bmpview/internal/config"
	"bmpview/internal/viewer"
)

const (
	// flashFrames is how long a full refresh blanks the window.
	flashFrames = 6

	infoFontSize  = 14.0
	infoBarHeight = 22.0
)

// Common colors used in rendering
var (
	colorBackground = color.RGBA{48, 48, 48, 255}
	colorInk        = color.RGBA{0, 0, 0, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}

	// Background color for the semi-transparent info bar
	bgColorMedium = color.RGBA{0, 0, 0, 160}
)

// SleepSettings exposes the persisted sleep screen mode to the info bar.
type SleepSettings interface {
	SleepScreen() config.SleepScreenMode
}

// Renderer draws the emulated panel into the simulator window
type Renderer struct {
	panel    Panel
	screen   Screen
	settings SleepSettings
	infoFont *text.GoTextFace

	panelImage *ebiten.Image
	seenFlips  int
	flash      int
}

// NewRenderer creates a new Renderer. A nil infoFont hides the info bar.
func NewRenderer(panel Panel, screen Screen, settings SleepSettings, infoFont *text.GoTextFace) *Renderer {
	return &Renderer{
		panel:     panel,
		screen:    screen,
		settings:  settings,
		infoFont:  infoFont,
		seenFlips: -1,
	}
}

// Draw renders the entire window
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	r.syncPanel()

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	pw, ph := r.panelImage.Bounds().Dx(), r.panelImage.Bounds().Dy()
	scale, x, y := calculatePanelPlacement(pw, ph, w, h)

	if r.flash > 0 {
		// Full refreshes flash the panel to black first
		r.flash--
		fillRect(screen, x, y, float64(pw)*scale, float64(ph)*scale, colorInk)
	} else {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x, y)
		screen.DrawImage(r.panelImage, op)
	}

	if r.infoFont != nil {
		r.drawInfoBar(screen)
	}
}

// syncPanel uploads the panel frame when it has been flipped since the last
// window frame.
func (r *Renderer) syncPanel() {
	flips, mode := r.panel.Flips()
	if flips == r.seenFlips && r.panelImage != nil {
		return
	}
	first := r.seenFlips < 0
	r.seenFlips = flips

	frame := r.panel.Frame()
	if r.panelImage == nil {
		r.panelImage = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
	}
	r.panelImage.WritePixels(grayToRGBA(frame))

	if !first && mode == viewer.FullRefresh {
		r.flash = flashFrames
	}
}

func (r *Renderer) drawInfoBar(screen *ebiten.Image) {
	flips, mode := r.panel.Flips()
	info := fmt.Sprintf("%s  [%s]  refresh #%d %s  sleep: %s",
		r.screen.Path(), r.screen.State(), flips, mode, r.settings.SleepScreen())

	fillRect(screen, 0, 0, float64(screen.Bounds().Dx()), infoBarHeight, bgColorMedium)
	drawLabel(screen, info, r.infoFont, 6, 3, colorWhite)
}

// calculatePanelPlacement fits a pw x ph panel into a w x h window, keeping
// its aspect ratio, and centers it.
func calculatePanelPlacement(pw, ph, w, h int) (scale, x, y float64) {
	if pw <= 0 || ph <= 0 || w <= 0 || h <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(float64(w)/float64(pw), float64(h)/float64(ph))
	sw, sh := float64(pw)*scale, float64(ph)*scale
	return scale, float64(w)/2 - sw/2, float64(h)/2 - sh/2
}

// grayToRGBA expands a grayscale frame to the RGBA byte layout WritePixels
// expects.
func grayToRGBA(frame *image.Gray) []byte {
	b := frame.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.Pix[(y-b.Min.Y)*frame.Stride : (y-b.Min.Y)*frame.Stride+b.Dx()]
		for _, v := range row {
			pix = append(pix, v, v, v, 0xff)
		}
	}
	return pix
}
