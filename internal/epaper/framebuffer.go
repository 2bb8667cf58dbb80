// Package epaper emulates the device's e-paper panel: a back buffer drawn with
// gg and a grayscale front buffer that only changes on DisplayBuffer.
package epaper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"bmpview/internal/viewer"
)

// Palette is the panel's four gray levels.
var Palette = color.Palette{
	color.Gray{Y: 0x00},
	color.Gray{Y: 0x55},
	color.Gray{Y: 0xaa},
	color.Gray{Y: 0xff},
}

// Font sizes in pixels
const (
	fontSizeUI10 = 20
	fontSizeUI12 = 24
)

// Layout constants
const (
	popupMargin      = 16
	popupBorder      = 2
	popupProgressH   = 6
	popupTop         = 3 // popup is placed at 1/popupTop of the screen height
	buttonHintHeight = 40
	buttonHintInset  = 4
)

// Framebuffer implements viewer.Display in memory.
type Framebuffer struct {
	dc    *gg.Context
	front *image.Gray
	faces map[viewer.FontID]font.Face

	flips     int
	lastMode  viewer.RefreshMode
	refreshes map[viewer.RefreshMode]int
}

// NewFramebuffer creates a white width x height panel.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid panel size %dx%d", width, height)
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse UI font: %w", err)
	}
	faces := make(map[viewer.FontID]font.Face, 2)
	for id, size := range map[viewer.FontID]float64{viewer.FontUI10: fontSizeUI10, viewer.FontUI12: fontSizeUI12} {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("UI font face %gpx: %w", size, err)
		}
		faces[id] = face
	}

	fb := &Framebuffer{
		dc:        gg.NewContext(width, height),
		front:     image.NewGray(image.Rect(0, 0, width, height)),
		faces:     faces,
		refreshes: make(map[viewer.RefreshMode]int),
	}
	fb.Clear()
	xdraw.Draw(fb.front, fb.front.Bounds(), image.White, image.Point{}, xdraw.Src)
	return fb, nil
}

func (fb *Framebuffer) ScreenWidth() int  { return fb.dc.Width() }
func (fb *Framebuffer) ScreenHeight() int { return fb.dc.Height() }

// Clear paints the back buffer white.
func (fb *Framebuffer) Clear() {
	fb.dc.SetColor(color.White)
	fb.dc.Clear()
}

// DrawBitmap draws img at (x, y) inside the maxWidth x maxHeight area. Images
// larger than the area are scaled down to fit and every image is dithered to
// the panel palette.
func (fb *Framebuffer) DrawBitmap(img image.Image, x, y, maxWidth, maxHeight, cropX, cropY int) {
	src := img.Bounds()
	src.Min = src.Min.Add(image.Pt(cropX, cropY))
	src = src.Intersect(img.Bounds())
	if src.Empty() {
		return
	}

	w, h := src.Dx(), src.Dy()
	if scale := fitScale(w, h, maxWidth, maxHeight); scale < 1 {
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, src, xdraw.Src, nil)
		img, src = scaled, scaled.Bounds()
	}

	dst := image.Rect(x, y, x+w, y+h).
		Intersect(image.Rect(0, 0, maxWidth, maxHeight)).
		Intersect(fb.bounds())
	if dst.Empty() {
		return
	}

	dithered := image.NewPaletted(dst, Palette)
	xdraw.FloydSteinberg.Draw(dithered, dst, img, src.Min.Add(dst.Min.Sub(image.Pt(x, y))))
	xdraw.Draw(fb.back(), dst, dithered, dst.Min, xdraw.Src)
}

// fitScale returns the factor that fits a w x h image into maxW x maxH, never
// enlarging it.
func fitScale(w, h, maxW, maxH int) float64 {
	scaleX := float64(maxW) / float64(w)
	scaleY := float64(maxH) / float64(h)
	return min(scaleX, scaleY, 1)
}

// DrawCenteredText draws text horizontally centered with its middle on y.
func (fb *Framebuffer) DrawCenteredText(id viewer.FontID, y int, text string) {
	fb.dc.SetFontFace(fb.face(id))
	fb.dc.SetColor(color.Black)
	fb.dc.DrawStringAnchored(text, float64(fb.ScreenWidth())/2, float64(y), 0.5, 0.5)
}

// DrawPopup draws a framed message box with room for a progress bar and
// returns its bounds.
func (fb *Framebuffer) DrawPopup(text string) image.Rectangle {
	fb.dc.SetFontFace(fb.face(viewer.FontUI12))
	tw, th := fb.dc.MeasureString(text)

	w := min(int(tw)+2*popupMargin, fb.ScreenWidth())
	h := int(th) + 2*popupMargin + popupProgressH
	x := (fb.ScreenWidth() - w) / 2
	y := fb.ScreenHeight() / popupTop
	rect := image.Rect(x, y, x+w, y+h)

	fb.dc.SetColor(color.Black)
	fb.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	fb.dc.Fill()
	fb.dc.SetColor(color.White)
	fb.dc.DrawRectangle(float64(x+popupBorder), float64(y+popupBorder), float64(w-2*popupBorder), float64(h-2*popupBorder))
	fb.dc.Fill()

	fb.dc.SetColor(color.Black)
	fb.dc.DrawStringAnchored(text, float64(x+w/2), float64(y+popupMargin)+th/2, 0.5, 0.5)
	return rect
}

// FillPopupProgress fills the bar at the bottom of a popup to percent.
func (fb *Framebuffer) FillPopupProgress(popup image.Rectangle, percent int) {
	percent = max(0, min(percent, 100))
	bar := fb.progressBar(popup)
	filled := bar.Dx() * percent / 100
	if filled == 0 {
		return
	}
	fb.dc.SetColor(color.Black)
	fb.dc.DrawRectangle(float64(bar.Min.X), float64(bar.Min.Y), float64(filled), float64(bar.Dy()))
	fb.dc.Fill()
}

func (fb *Framebuffer) progressBar(popup image.Rectangle) image.Rectangle {
	return image.Rect(
		popup.Min.X+popupMargin, popup.Max.Y-popupMargin/2-popupProgressH,
		popup.Max.X-popupMargin, popup.Max.Y-popupMargin/2,
	)
}

// DrawButtonHints labels the four front buttons along the bottom edge.
// Empty labels leave their slot blank.
func (fb *Framebuffer) DrawButtonHints(labels viewer.Labels) {
	fb.dc.SetFontFace(fb.face(viewer.FontUI10))
	slot := fb.ScreenWidth() / 4
	top := fb.ScreenHeight() - buttonHintHeight

	for i, label := range []string{labels.Btn1, labels.Btn2, labels.Btn3, labels.Btn4} {
		if label == "" {
			continue
		}
		x := float64(i*slot + buttonHintInset)
		w := float64(slot - 2*buttonHintInset)
		fb.dc.SetColor(color.White)
		fb.dc.DrawRectangle(x, float64(top), w, buttonHintHeight)
		fb.dc.Fill()
		fb.dc.SetColor(color.Black)
		fb.dc.SetLineWidth(1)
		fb.dc.DrawRectangle(x+0.5, float64(top)+0.5, w-1, buttonHintHeight-1)
		fb.dc.Stroke()
		fb.dc.DrawStringAnchored(label, x+w/2, float64(top)+buttonHintHeight/2, 0.5, 0.5)
	}
}

// DisplayBuffer pushes the back buffer to the panel.
func (fb *Framebuffer) DisplayBuffer(mode viewer.RefreshMode) {
	xdraw.Draw(fb.front, fb.front.Bounds(), fb.back(), image.Point{}, xdraw.Src)
	fb.flips++
	fb.lastMode = mode
	fb.refreshes[mode]++
	logrus.Debugf("Panel refresh #%d (%s)", fb.flips, mode)
}

// Frame returns a copy of what the panel currently shows.
func (fb *Framebuffer) Frame() *image.Gray {
	frame := image.NewGray(fb.front.Bounds())
	copy(frame.Pix, fb.front.Pix)
	return frame
}

// Flips returns the number of DisplayBuffer calls and the mode of the last.
func (fb *Framebuffer) Flips() (int, viewer.RefreshMode) {
	return fb.flips, fb.lastMode
}

// Refreshes returns how often the panel was updated with mode.
func (fb *Framebuffer) Refreshes(mode viewer.RefreshMode) int {
	return fb.refreshes[mode]
}

func (fb *Framebuffer) back() *image.RGBA {
	return fb.dc.Image().(*image.RGBA)
}

func (fb *Framebuffer) bounds() image.Rectangle {
	return image.Rect(0, 0, fb.ScreenWidth(), fb.ScreenHeight())
}

func (fb *Framebuffer) face(id viewer.FontID) font.Face {
	if f, ok := fb.faces[id]; ok {
		return f
	}
	return fb.faces[viewer.FontUI10]
}
