package viewer

import "math"

// Placement is the screen position of an image's top-left corner.
type Placement struct {
	X, Y int
}

// ComputePlacement positions an iw x ih image on an sw x sh screen. Images
// that fit are centered. Larger images are placed crop-to-fill: the axis on
// which the image is proportionally longer starts at 0 and the renderer clips
// whatever runs past the screen edge.
func ComputePlacement(iw, ih, sw, sh int) Placement {
	if iw <= sw && ih <= sh {
		return Placement{X: (sw - iw) / 2, Y: (sh - ih) / 2}
	}

	ratio := float64(iw) / float64(ih)
	screenRatio := float64(sw) / float64(sh)

	if ratio > screenRatio {
		// Wider than screen
		return Placement{X: 0, Y: int(math.Round((float64(sh) - float64(sw)/ratio) / 2))}
	}
	// Taller than screen
	return Placement{X: int(math.Round((float64(sw) - float64(sh)*ratio) / 2)), Y: 0}
}
