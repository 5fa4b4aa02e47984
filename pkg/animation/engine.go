package animation

import (
	"image/color"
	"math"
	"time"
)

const (
	// TransitionDuration is the crossfade length between looks,
	// roughly 40 frames at 60fps.
	TransitionDuration = 667 * time.Millisecond

	// MaxBrightness caps the requested brightness to keep the LED
	// supply current within the battery budget.
	MaxBrightness = 150

	// rainbowDeltaHue advances the sweep by -3 hue steps per pixel.
	rainbowDeltaHue = uint8(253)

	waveWavelength = 60.0
	wavePeriodMs   = 3000.0
)

// Color mode indices, matching the menu color parameter.
const (
	colorBase              = 0
	colorRainbow           = 8
	colorHorizontalRainbow = 11
	colorBlack             = 12
)

// solidColors maps color indices 0..12 to fixed colors. BASE and the
// animated entries are rendered separately and stay black here.
var solidColors = [13]color.RGBA{
	1:  {R: 255, G: 255, A: 255},         // YELLOW
	2:  {R: 255, G: 165, A: 255},         // ORANGE
	3:  {R: 255, G: 255, B: 255, A: 255}, // WHITE
	4:  {G: 255, A: 255},                 // GREEN
	5:  {R: 255, B: 255, A: 255},         // PURPLE
	6:  {R: 255, A: 255},                 // RED
	7:  {B: 255, A: 255},                 // BLUE
	12: {A: 255},                         // BLACK
}

var black = color.RGBA{A: 255}

// target holds the look the engine is heading towards.
type target struct {
	color  uint8
	hueF   uint8
	hueB   uint8
	bright uint8
	face   uint8
	booped bool
}

// Engine computes LED frames and pushes them to a Strip.
//
// All methods must be called from the same goroutine; the engine has no
// internal locking. Update is driven by the owner's frame ticker with an
// explicit timestamp so tests can step time deterministically.
type Engine struct {
	strip    Strip
	segments Layout
	pixels   []color.RGBA
	snapshot []color.RGBA

	target target

	// Crossfade state. A pending transition snapshots the last shown
	// frame immediately but anchors its start time at the next Update.
	transPending bool
	transActive  bool
	transStart   time.Time
	transFrom    uint8
	transTo      uint8

	outputBright uint8

	// ready stays false until the first parameter sync arrives, keeping
	// the strips dark instead of flashing defaults at power-on.
	ready       bool
	needsRedraw bool
}

// NewEngine creates an engine rendering onto strip with the given layout.
func NewEngine(strip Strip, segments Layout) *Engine {
	return &Engine{
		strip:        strip,
		segments:     segments,
		pixels:       make([]color.RGBA, segments.Total()),
		snapshot:     make([]color.RGBA, segments.Total()),
		outputBright: 75,
	}
}

// Ready reports whether the first parameter sync has arrived.
func (e *Engine) Ready() bool {
	return e.ready
}

// SetColor updates the color mode, hues and brightness. The first call
// unblanks the strips and snaps straight to the new look; later calls
// start a crossfade. Brightness is capped at MaxBrightness.
func (e *Engine) SetColor(colorIndex, hueF, hueB, bright uint8) {
	if bright > MaxBrightness {
		bright = MaxBrightness
	}
	first := !e.ready
	e.ready = true

	changed := colorIndex != e.target.color || hueF != e.target.hueF ||
		hueB != e.target.hueB || bright != e.target.bright
	if !changed && !first {
		return
	}

	e.target.color = colorIndex
	e.target.hueF = hueF
	e.target.hueB = hueB
	e.target.bright = bright

	if first {
		// Snap straight to the synced look, discarding any transition
		// queued by pre-sync face or boop updates.
		e.transPending = false
		e.transActive = false
		e.needsRedraw = true
		return
	}

	e.beginTransition(bright)
}

// SetBooped switches the boop override on or off.
func (e *Engine) SetBooped(booped bool) {
	if booped == e.target.booped {
		return
	}
	e.target.booped = booped
	e.beginTransition(e.target.bright)
}

// SetFace updates the face index driving the mood overrides.
func (e *Engine) SetFace(face uint8) {
	if face == e.target.face {
		return
	}
	e.target.face = face
	e.beginTransition(e.target.bright)
}

func (e *Engine) beginTransition(toBright uint8) {
	copy(e.snapshot, e.pixels)
	e.transFrom = e.outputBright
	e.transTo = toBright
	e.transPending = true
	e.needsRedraw = true
}

// Update renders one frame for the given time and shows it. Static
// looks with no transition in flight and no pending redraw are skipped
// entirely.
func (e *Engine) Update(now time.Time) error {
	if !e.ready {
		return nil
	}

	if !e.isContinuous() && !e.transActive && !e.transPending && !e.needsRedraw {
		return nil
	}

	if e.transPending {
		e.transPending = false
		e.transActive = true
		e.transStart = now
	}

	e.renderTarget(now)

	if e.transActive {
		progress := float64(now.Sub(e.transStart)) / float64(TransitionDuration)
		if progress >= 1 {
			e.outputBright = e.transTo
			e.transActive = false
		} else {
			ratio := cosineEase(progress)
			e.blendFromSnapshot(uint8(ratio * 255))
			e.outputBright = uint8(float64(e.transFrom) + float64(int(e.transTo)-int(e.transFrom))*ratio)
		}
	} else {
		e.outputBright = e.target.bright
	}

	e.strip.SetBrightness(e.outputBright)
	err := e.strip.Show(e.pixels)
	e.needsRedraw = false
	return err
}

// isContinuous reports whether the current look needs per-frame renders.
func (e *Engine) isContinuous() bool {
	if e.target.booped {
		return true
	}
	if e.target.face == 1 || e.target.face == 5 {
		return false
	}
	if isAnimatedColor(e.target.color) {
		return true
	}
	return e.target.color == colorBase && e.target.hueF != e.target.hueB
}

func isAnimatedColor(c uint8) bool {
	return c >= colorRainbow && c <= colorHorizontalRainbow
}

// cosineEase maps linear progress to a blend ratio with smooth start
// and end.
func cosineEase(t float64) float64 {
	return (1 - math.Cos(t*math.Pi)) / 2
}

// renderTarget computes the target frame for the active parameters.
// Boops outrank faces, faces outrank colors.
func (e *Engine) renderTarget(now time.Time) {
	ms := now.UnixMilli()

	if e.target.booped {
		e.fillRainbowAll(ms)
		return
	}

	switch e.target.face {
	case 1: // ANGRY
		FillSolid(e.pixels, color.RGBA{R: 255, A: 255})
		return
	case 5: // SAD
		FillSolid(e.pixels, color.RGBA{B: 255, A: 255})
		return
	}

	if isAnimatedColor(e.target.color) {
		e.fillRainbowAll(ms)
		return
	}

	if e.target.color == colorBase {
		if e.target.hueF != e.target.hueB {
			e.fillWave(ms)
		} else {
			FillSolid(e.pixels, HSV(e.target.hueF, 255, 255))
		}
		return
	}

	if e.target.color <= colorBlack {
		FillSolid(e.pixels, solidColors[e.target.color])
	} else {
		FillSolid(e.pixels, black)
	}
}

// fillRainbowAll runs the hue sweep, restarting at each segment.
func (e *Engine) fillRainbowAll(ms int64) {
	startHue := uint8((ms / 10) & 0xFF)
	offset := 0
	for _, count := range e.segments {
		FillRainbow(e.pixels[offset:offset+count], startHue, rainbowDeltaHue)
		offset += count
	}
}

// fillWave blends hueF and hueB with a traveling sine wave, the phase
// restarting at each segment.
func (e *Engine) fillWave(ms int64) {
	phase := float64(ms) / wavePeriodMs * 2 * math.Pi
	colorF := HSV(e.target.hueF, 255, 255)
	colorB := HSV(e.target.hueB, 255, 255)

	offset := 0
	for _, count := range e.segments {
		for i := 0; i < count; i++ {
			wave := (math.Sin(2*math.Pi*float64(i)/waveWavelength-phase) + 1) / 2
			e.pixels[offset+i] = Blend(colorF, colorB, uint8(wave*255))
		}
		offset += count
	}
}

// blendFromSnapshot mixes the freshly rendered target frame with the
// snapshot taken when the transition began.
func (e *Engine) blendFromSnapshot(ratio uint8) {
	for i := range e.pixels {
		e.pixels[i] = Blend(e.snapshot[i], e.pixels[i], ratio)
	}
}
