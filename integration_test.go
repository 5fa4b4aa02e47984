package visor_test

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosuit/visor-go/pkg/animation"
	"github.com/protosuit/visor-go/pkg/bridge"
	"github.com/protosuit/visor-go/pkg/log"
	"github.com/protosuit/visor-go/pkg/transport"
	"github.com/protosuit/visor-go/pkg/wire"
)

// pipeRW collects writes and exposes them as frames/lines for assertions.
type pipeRW struct {
	out bytes.Buffer
}

func (p *pipeRW) Read([]byte) (int, error) { return 0, nil }
func (p *pipeRW) Write(data []byte) (int, error) {
	return p.out.Write(data)
}

func (p *pipeRW) lines() []string {
	var lines []string
	for _, l := range strings.Split(p.out.String(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

type memStrip struct {
	brightness uint8
	frame      []color.RGBA
	shows      int
}

func (s *memStrip) SetBrightness(brightness uint8) { s.brightness = brightness }
func (s *memStrip) Show(pixels []color.RGBA) error {
	s.frame = append(s.frame[:0], pixels...)
	s.shows++
	return nil
}

type memFan struct{ speed int }

func (f *memFan) SetSpeed(percent int) { f.speed = percent }
func (f *memFan) SpeedPercent() int    { return f.speed }
func (f *memFan) RPM() int             { return 0 }

// harness wires the full controller stack against in-memory links, the
// way cmd/visor does against serial ports.
type harness struct {
	hostWire   *pipeRW
	deviceWire *pipeRW
	link       *transport.LinkChannel
	deviceCh   *transport.DeviceChannel
	router     *bridge.Router
	engine     *animation.Engine
	strip      *memStrip
	fan        *memFan
	now        time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		hostWire:   &pipeRW{},
		deviceWire: &pipeRW{},
		strip:      &memStrip{},
		fan:        &memFan{},
		now:        time.Now(),
	}
	h.engine = animation.NewEngine(h.strip, animation.Layout{20, 10})

	h.link = transport.NewLinkChannel(h.hostWire, transport.HostHandlerFunc(func(msg wire.Message) {
		h.router.HandleHostMessage(h.now, msg)
	}), log.NoopLogger{})
	h.deviceCh = transport.NewDeviceChannel(h.deviceWire, transport.DeviceHandlerFunc(func(line string) {
		h.router.HandleDeviceLine(line)
	}), log.NoopLogger{})

	h.router = bridge.NewRouter(bridge.Config{
		Host:     h.link,
		Device:   h.deviceCh,
		Fan:      h.fan,
		Renderer: h.engine,
	})
	return h
}

// hostSend feeds one framed host message into the controller, split into
// two chunks to exercise reassembly.
func (h *harness) hostSend(topic, payload string) {
	frame := wire.EncodeHostFrame(topic, payload)
	mid := len(frame) / 2
	h.link.Consume(frame[:mid])
	h.link.Consume(frame[mid:])
}

func (h *harness) deviceSend(line string) {
	h.deviceCh.Consume([]byte(line + "\n"))
}

func (h *harness) hostReceived(t *testing.T, topic string) []string {
	t.Helper()
	var payloads []string
	for _, line := range h.hostWire.lines() {
		msg, err := wire.ParseVisorFrame([]byte(line))
		require.NoError(t, err, "controller emitted unparseable frame %q", line)
		if msg.Topic == topic {
			payloads = append(payloads, msg.Payload)
		}
	}
	return payloads
}

func TestEndToEndMenuRoundTrip(t *testing.T) {
	h := newHarness(t)

	// Companion boot sync brings the controller ready.
	h.deviceSend("COLOR=6")
	h.deviceSend("BRIGHT=100")

	// Host writes a parameter; the companion gets the protocol command.
	h.hostSend(wire.TopicMenuSet, `{"param":"color","value":3}`)
	assert.Contains(t, h.deviceWire.lines(), "SET COLOR 3")

	// The companion's own report round-trips back to the host as status.
	h.deviceSend("COLOR=3")
	payloads := h.hostReceived(t, wire.TopicMenuStatusBase+"color")
	require.NotEmpty(t, payloads)
	assert.JSONEq(t, `{"value":3,"label":"WHITE"}`, payloads[len(payloads)-1])
}

func TestEndToEndAnimationFollowsSync(t *testing.T) {
	h := newHarness(t)

	// First sync snaps the strips to the reported look.
	h.deviceSend("COLOR=6")
	require.NoError(t, h.engine.Update(h.now))

	require.NotEmpty(t, h.strip.frame)
	red := color.RGBA{R: 255, A: 255}
	for i, px := range h.strip.frame {
		require.Equal(t, red, px, "pixel %d", i)
	}

	// A host-side face change crossfades to the override color.
	h.hostSend(wire.TopicMenuSet, `{"param":"face","value":5}`)
	start := h.now.Add(16 * time.Millisecond)
	require.NoError(t, h.engine.Update(start))
	require.NoError(t, h.engine.Update(start.Add(animation.TransitionDuration)))

	blue := color.RGBA{B: 255, A: 255}
	for i, px := range h.strip.frame {
		require.Equal(t, blue, px, "pixel %d", i)
	}
}

func TestEndToEndBoop(t *testing.T) {
	h := newHarness(t)

	h.deviceSend("COLOR=12") // BLACK, static
	require.NoError(t, h.engine.Update(h.now))
	shows := h.strip.shows

	h.deviceSend("BOOPED=1")
	assert.Equal(t, []string{"1"}, h.hostReceived(t, wire.TopicBoopedStatus))

	start := h.now.Add(16 * time.Millisecond)
	require.NoError(t, h.engine.Update(start))
	require.NoError(t, h.engine.Update(start.Add(animation.TransitionDuration)))
	assert.Greater(t, h.strip.shows, shows, "boop must animate")

	// Rainbow frame: not all pixels equal.
	allSame := true
	for _, px := range h.strip.frame {
		if px != h.strip.frame[0] {
			allSame = false
			break
		}
	}
	assert.False(t, allSame, "boop rainbow should vary across pixels")
}

func TestEndToEndFanControl(t *testing.T) {
	h := newHarness(t)

	h.hostSend(wire.TopicSetFan, "75")

	assert.Equal(t, 75, h.fan.speed)
	payloads := h.hostReceived(t, wire.TopicStatusFanCurve)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], `"mode":"manual"`)
}

func TestEndToEndCorruptFrameIgnored(t *testing.T) {
	h := newHarness(t)

	frame := wire.EncodeHostFrame(wire.TopicSetFan, "75")
	frame[5] ^= 0x01
	h.link.Consume(frame)

	assert.Zero(t, h.fan.speed)
	assert.Empty(t, h.hostWire.lines())

	// The link recovers on the next good frame.
	h.hostSend(wire.TopicSetFan, "50")
	assert.Equal(t, 50, h.fan.speed)
}

func TestEndToEndSaveFlow(t *testing.T) {
	h := newHarness(t)

	h.hostSend(wire.TopicMenuSave, "")
	assert.Contains(t, h.deviceWire.lines(), "SAVE")

	h.deviceSend("OK SAVED")
	assert.Equal(t, []string{"true"}, h.hostReceived(t, wire.TopicMenuSaved))
}
