package animation

import "image/color"

// Strip is the output side of the engine. Implementations push a full
// frame to the physical LEDs; tests substitute an in-memory fake.
type Strip interface {
	// SetBrightness sets the global brightness applied to the next Show.
	SetBrightness(brightness uint8)

	// Show writes the frame to the LEDs. The slice covers every segment
	// back to back in layout order and must not be retained.
	Show(pixels []color.RGBA) error
}

// Layout lists the pixel count of each physical strip segment in render
// order. Sweeps and waves restart at each segment boundary so the ears
// and fins animate symmetrically instead of continuing the arch.
type Layout []int

// DefaultLayout is the visor wiring: upper arch, right ear, right fin,
// left fin, left ear.
func DefaultLayout() Layout {
	return Layout{300, 40, 60, 60, 40}
}

// Total returns the summed pixel count of all segments.
func (l Layout) Total() int {
	total := 0
	for _, count := range l {
		total += count
	}
	return total
}
