package animation

import (
	"image/color"
	"testing"
	"time"
)

type fakeStrip struct {
	brightness uint8
	frames     [][]color.RGBA
	err        error
}

func (f *fakeStrip) SetBrightness(brightness uint8) {
	f.brightness = brightness
}

func (f *fakeStrip) Show(pixels []color.RGBA) error {
	frame := make([]color.RGBA, len(pixels))
	copy(frame, pixels)
	f.frames = append(f.frames, frame)
	return f.err
}

func (f *fakeStrip) lastFrame() []color.RGBA {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

var testLayout = Layout{10, 5}

func allEqual(frame []color.RGBA, want color.RGBA) bool {
	for _, px := range frame {
		if px != want {
			return false
		}
	}
	return true
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestUpdateBeforeSync(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)

	engine.SetFace(3)
	engine.SetBooped(true)
	if err := engine.Update(time.Now()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != 0 {
		t.Errorf("frames shown before first sync = %d, want 0", len(strip.frames))
	}
	if engine.Ready() {
		t.Error("Ready() = true before first SetColor")
	}
}

func TestFirstSyncSnaps(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	now := time.Now()

	engine.SetColor(6, 0, 0, 100) // RED
	if err := engine.Update(now); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(strip.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(strip.frames))
	}
	if !allEqual(strip.lastFrame(), red) {
		t.Error("first frame not solid red")
	}
	if strip.brightness != 100 {
		t.Errorf("brightness = %d, want 100 with no fade-in", strip.brightness)
	}

	// Static look: no further frames without a change.
	if err := engine.Update(now.Add(16 * time.Millisecond)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != 1 {
		t.Errorf("frames after static update = %d, want 1", len(strip.frames))
	}
}

func TestBrightnessCapped(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)

	engine.SetColor(6, 0, 0, 254)
	if err := engine.Update(time.Now()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if strip.brightness != MaxBrightness {
		t.Errorf("brightness = %d, want capped at %d", strip.brightness, MaxBrightness)
	}
}

func TestCrossfade(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(6, 0, 0, 100) // RED
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	engine.SetColor(7, 0, 0, 150) // BLUE, brighter

	// Transition anchors at the first frame after the change.
	t0 := start.Add(16 * time.Millisecond)
	if err := engine.Update(t0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !allEqual(strip.lastFrame(), red) {
		t.Error("frame at transition start should still be the old look")
	}
	if strip.brightness != 100 {
		t.Errorf("brightness at transition start = %d, want 100", strip.brightness)
	}

	// Halfway: both channels lit, brightness between the endpoints.
	if err := engine.Update(t0.Add(TransitionDuration / 2)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	mid := strip.lastFrame()[0]
	if mid.R == 0 || mid.B == 0 {
		t.Errorf("midpoint pixel = %v, want a red/blue mix", mid)
	}
	if strip.brightness <= 100 || strip.brightness >= 150 {
		t.Errorf("midpoint brightness = %d, want between 100 and 150", strip.brightness)
	}

	// Complete: pure target look and brightness.
	if err := engine.Update(t0.Add(TransitionDuration)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !allEqual(strip.lastFrame(), blue) {
		t.Error("frame after transition not solid blue")
	}
	if strip.brightness != 150 {
		t.Errorf("brightness after transition = %d, want 150", strip.brightness)
	}

	// Settled: no more frames.
	n := len(strip.frames)
	if err := engine.Update(t0.Add(2 * TransitionDuration)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != n {
		t.Errorf("frames after settling = %d, want %d", len(strip.frames), n)
	}
}

func TestBoopOutranksEverything(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(6, 0, 0, 100)
	engine.SetFace(1) // ANGRY forces red anyway
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	engine.SetBooped(true)
	t0 := start.Add(16 * time.Millisecond)
	if err := engine.Update(t0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	end := t0.Add(TransitionDuration)
	if err := engine.Update(end); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// The boop rainbow restarts at each segment with a time-derived hue.
	startHue := uint8((end.UnixMilli() / 10) & 0xFF)
	want := make([]color.RGBA, testLayout[0])
	FillRainbow(want, startHue, rainbowDeltaHue)
	frame := strip.lastFrame()
	for i, px := range want {
		if frame[i] != px {
			t.Fatalf("pixel %d = %v, want rainbow %v", i, frame[i], px)
		}
	}
	if frame[testLayout[0]] != want[0] {
		t.Error("second segment should restart the sweep at the start hue")
	}
}

func TestFaceOverridesAnimatedColor(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(8, 0, 0, 100) // RAINBOW
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	engine.SetFace(5) // SAD
	t0 := start.Add(16 * time.Millisecond)
	if err := engine.Update(t0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := engine.Update(t0.Add(TransitionDuration)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !allEqual(strip.lastFrame(), blue) {
		t.Error("SAD face should render solid blue despite animated color")
	}

	// Face override makes the look static again.
	n := len(strip.frames)
	if err := engine.Update(t0.Add(2 * TransitionDuration)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != n {
		t.Errorf("frames = %d, want %d (static look should skip)", len(strip.frames), n)
	}
}

func TestWaveIsContinuous(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(0, 0, 128, 100) // BASE with differing hues
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	first := strip.lastFrame()

	if err := engine.Update(start.Add(500 * time.Millisecond)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	second := strip.lastFrame()

	if len(strip.frames) != 2 {
		t.Fatalf("frames = %d, want 2 (wave renders every update)", len(strip.frames))
	}
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("wave frame did not move between updates")
	}
}

func TestBaseWithEqualHuesIsStatic(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(0, 64, 64, 100)
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !allEqual(strip.lastFrame(), HSV(64, 255, 255)) {
		t.Error("BASE with equal hues should render a solid hue")
	}

	n := len(strip.frames)
	if err := engine.Update(start.Add(time.Second)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != n {
		t.Errorf("frames = %d, want %d (solid BASE is static)", len(strip.frames), n)
	}
}

func TestRedundantSetsDoNotRetrigger(t *testing.T) {
	strip := &fakeStrip{}
	engine := NewEngine(strip, testLayout)
	start := time.Now()

	engine.SetColor(6, 0, 0, 100)
	if err := engine.Update(start); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	n := len(strip.frames)

	engine.SetColor(6, 0, 0, 100)
	engine.SetFace(0)
	engine.SetBooped(false)
	if err := engine.Update(start.Add(16 * time.Millisecond)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(strip.frames) != n {
		t.Errorf("frames = %d, want %d (unchanged parameters)", len(strip.frames), n)
	}
}
