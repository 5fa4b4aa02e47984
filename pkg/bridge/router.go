package bridge

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/protosuit/visor-go/pkg/fancurve"
	"github.com/protosuit/visor-go/pkg/log"
	"github.com/protosuit/visor-go/pkg/menu"
	"github.com/protosuit/visor-go/pkg/persistence"
	"github.com/protosuit/visor-go/pkg/wire"
)

// HostAliveTimeout is how long after the last host message the host is
// still considered alive. Evaluated lazily; there is no timer.
const HostAliveTimeout = 5 * time.Second

// HostSink publishes framed messages to the host link.
type HostSink interface {
	Publish(topic, payload string) error
}

// DeviceSink sends command lines to the companion processor.
type DeviceSink interface {
	Send(line string) error
}

// FanControl drives the case fan and reports its current state.
type FanControl interface {
	SetSpeed(percent int)
	SpeedPercent() int
	RPM() int
}

// SensorSource provides the environment readings feeding automatic fan
// control and the sensor status topic.
type SensorSource interface {
	Temperature() float64
	Humidity() float64
}

// Renderer receives the animation targets derived from menu state.
type Renderer interface {
	SetColor(colorIndex, hueF, hueB, bright uint8)
	SetFace(face uint8)
	SetBooped(booped bool)
}

// Restarter restarts the controller process. Implementations should give
// the device link a moment to flush the RESTART command first.
type Restarter interface {
	Restart()
}

// Config wires a Router to its collaborators. Host and Device are
// required; the rest may be nil and the matching operations become
// no-ops.
type Config struct {
	Host      HostSink
	Device    DeviceSink
	Fan       FanControl
	Sensors   SensorSource
	Renderer  Renderer
	Restarter Restarter

	// Store persists the fan configuration across restarts; nil disables
	// persistence.
	Store *persistence.VisorStateStore

	Logger log.Logger
}

// Router owns the controller's mutable state: the menu mirror, the fan
// configuration, host liveness and the telemetry cache.
type Router struct {
	host      HostSink
	device    DeviceSink
	fan       FanControl
	sensors   SensorSource
	renderer  Renderer
	restarter Restarter
	store     *persistence.VisorStateStore
	logger    log.Logger

	menu      *menu.State
	fanConfig fancurve.Config
	telemetry Telemetry

	hostAlive       bool
	lastHostMessage time.Time
}

// NewRouter creates a router with default menu values and the persisted
// fan configuration, falling back to the stock curves when no state file
// exists.
func NewRouter(cfg Config) *Router {
	r := &Router{
		host:      cfg.Host,
		device:    cfg.Device,
		fan:       cfg.Fan,
		sensors:   cfg.Sensors,
		renderer:  cfg.Renderer,
		restarter: cfg.Restarter,
		store:     cfg.Store,
		logger:    cfg.Logger,
		menu:      menu.NewState(menu.Default()),
		fanConfig: fancurve.DefaultConfig(),
	}
	if r.logger == nil {
		r.logger = log.NoopLogger{}
	}
	if r.store != nil {
		if state, err := r.store.Load(); err != nil {
			r.logError(err, "load state")
		} else if state != nil {
			r.fanConfig = state.FanConfig()
		}
	}
	return r
}

// Menu returns the controller's mirror of the companion menu.
func (r *Router) Menu() *menu.State {
	return r.menu
}

// FanConfig returns the active fan configuration.
func (r *Router) FanConfig() fancurve.Config {
	return r.fanConfig
}

// Telemetry returns the cached host telemetry.
func (r *Router) Telemetry() *Telemetry {
	return &r.telemetry
}

// HostAlive reports whether a valid host message arrived within
// HostAliveTimeout of now.
func (r *Router) HostAlive(now time.Time) bool {
	if r.hostAlive && now.Sub(r.lastHostMessage) > HostAliveTimeout {
		r.hostAlive = false
		r.logState("host-liveness", "alive", "stale")
	}
	return r.hostAlive
}

// Startup publishes the boot announcements: the alive marker and the
// active fan configuration.
func (r *Router) Startup() {
	r.publish(wire.TopicStatusAlive, "true")
	r.publishFanCurve()
}

// InitialSync publishes the menu schema and asks the companion for a
// full parameter dump. Run a few seconds after boot so the host bridge
// has time to connect.
func (r *Router) InitialSync() {
	r.publishSchema()
	r.send("GET ALL")
}

// HandleHostMessage dispatches one decoded host message. Any valid
// message refreshes host liveness, telemetry included.
func (r *Router) HandleHostMessage(now time.Time, msg wire.Message) {
	if !r.hostAlive {
		r.logState("host-liveness", "stale", "alive")
	}
	r.hostAlive = true
	r.lastHostMessage = now

	switch msg.Topic {
	case wire.TopicSetFan:
		speed, err := strconv.Atoi(strings.TrimSpace(msg.Payload))
		if err != nil {
			r.logError(err, "fan speed payload")
			return
		}
		// A manual speed request always drops out of auto mode.
		r.fanConfig.AutoMode = false
		r.saveFanConfig()
		if r.fan != nil {
			r.fan.SetSpeed(speed)
		}
		r.publishFanCurve()

	case wire.TopicSetFanMode:
		r.fanConfig.AutoMode = msg.Payload == "auto"
		r.saveFanConfig()
		r.publishFanCurve()

	case wire.TopicConfigFanCurve:
		if err := r.fanConfig.ApplyJSON(msg.Payload); err != nil {
			r.logError(err, "fan curve config")
			return
		}
		r.saveFanConfig()
		r.publishFanCurve()

	case wire.TopicMenuSet:
		r.handleMenuSet(msg.Payload)

	case wire.TopicMenuGet:
		r.publishSchema()
		r.send("GET ALL")

	case wire.TopicMenuSave:
		r.send("SAVE")

	case wire.TopicRestart:
		r.send("RESTART")
		if r.restarter != nil {
			r.restarter.Restart()
		}

	default:
		r.telemetry.handle(now, msg.Topic, msg.Payload)
	}
}

// handleMenuSet stores one host-written parameter, forwards it to the
// companion and retargets the animation when it affects rendering.
func (r *Router) handleMenuSet(payload string) {
	var in struct {
		Param string `json:"param"`
		Value int    `json:"value"`
	}
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		r.logError(err, "menu set payload")
		return
	}

	d, ok := r.menu.Registry().ByName(in.Param)
	if !ok {
		return
	}

	stored := r.menu.Set(d, in.Value)
	r.send("SET " + d.Token + " " + strconv.Itoa(int(stored)))
	r.retarget(d.Name)
}

// HandleDeviceLine dispatches one companion response line. Every line is
// also republished verbatim on the raw topic for host-side debugging.
func (r *Router) HandleDeviceLine(line string) {
	r.publish(wire.TopicCompanionRaw, line)

	if strings.HasPrefix(line, "OK SAVED") {
		r.publish(wire.TopicMenuSaved, "true")
		return
	}
	if strings.HasPrefix(line, "ERR") {
		data, err := json.Marshal(struct {
			Error string `json:"error"`
		}{Error: line})
		if err != nil {
			return
		}
		r.publish(wire.TopicMenuError, string(data))
		return
	}

	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return
	}
	token := strings.TrimSpace(line[:eq])
	value, err := strconv.Atoi(strings.TrimSpace(line[eq+1:]))
	if err != nil {
		r.logError(err, "device value: "+line)
		return
	}

	if strings.EqualFold(token, "BOOPED") {
		booped := value != 0
		if r.renderer != nil {
			r.renderer.SetBooped(booped)
		}
		if booped {
			r.publish(wire.TopicBoopedStatus, "1")
		} else {
			r.publish(wire.TopicBoopedStatus, "0")
		}
		return
	}

	d, ok := r.menu.Registry().ByToken(token)
	if !ok {
		return
	}
	stored := r.menu.Set(d, value)
	r.publishParamStatus(d, stored)
	r.retarget(d.Name)
}

// retarget pushes rendering-relevant parameters to the animation engine.
func (r *Router) retarget(name string) {
	if r.renderer == nil {
		return
	}
	switch {
	case menu.AffectsColor(name):
		r.renderer.SetColor(r.menu.Color(), r.menu.HueF(), r.menu.HueB(), r.menu.Bright())
	case menu.AffectsFace(name):
		r.renderer.SetFace(r.menu.Face())
	}
}

// Tick runs the once-per-second duties: automatic fan control from the
// latest sensor readings and the sensor status publish.
func (r *Router) Tick(now time.Time) {
	if r.sensors == nil || r.fan == nil {
		return
	}

	temperature := r.sensors.Temperature()
	humidity := r.sensors.Humidity()

	if r.fanConfig.AutoMode {
		r.fan.SetSpeed(r.fanConfig.Calculate(temperature, humidity))
	}

	data, err := json.Marshal(struct {
		Temperature float64 `json:"temperature"`
		Humidity    float64 `json:"humidity"`
		RPM         int     `json:"rpm"`
		Fan         int     `json:"fan"`
		Mode        string  `json:"mode"`
	}{
		Temperature: temperature,
		Humidity:    humidity,
		RPM:         r.fan.RPM(),
		Fan:         r.fan.SpeedPercent(),
		Mode:        r.fanConfig.ModeString(),
	})
	if err != nil {
		return
	}
	r.publish(wire.TopicStatusSensors, string(data))
}

// PublishFanCurve republishes the active fan configuration, used by the
// periodic config announcement.
func (r *Router) PublishFanCurve() {
	r.publishFanCurve()
}

func (r *Router) publishFanCurve() {
	payload, err := r.fanConfig.ConfigJSON()
	if err != nil {
		r.logError(err, "fan curve json")
		return
	}
	r.publish(wire.TopicStatusFanCurve, payload)
}

func (r *Router) publishSchema() {
	payload, err := r.menu.Registry().SchemaJSON()
	if err != nil {
		r.logError(err, "schema json")
		return
	}
	r.publish(wire.TopicMenuSchema, payload)
}

// publishParamStatus publishes one parameter's value, with its label for
// enumerated parameters.
func (r *Router) publishParamStatus(d *menu.Descriptor, value uint8) {
	status := struct {
		Value uint8  `json:"value"`
		Label string `json:"label,omitempty"`
	}{Value: value}
	if d.Labels != nil {
		status.Label = d.Label(value)
	}
	data, err := json.Marshal(status)
	if err != nil {
		return
	}
	r.publish(wire.TopicMenuStatusBase+d.Name, string(data))
}

func (r *Router) saveFanConfig() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(persistence.StateFromFanConfig(r.fanConfig)); err != nil {
		r.logError(err, "save state")
	}
}

func (r *Router) publish(topic, payload string) {
	if r.host == nil {
		return
	}
	if err := r.host.Publish(topic, payload); err != nil {
		r.logError(err, "publish "+topic)
	}
}

func (r *Router) send(line string) {
	if r.device == nil {
		return
	}
	if err := r.device.Send(line); err != nil {
		r.logError(err, "send "+line)
	}
}

func (r *Router) logError(err error, context string) {
	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerBridge,
		Category:  log.CategoryError,
		Error:     &log.ErrorEvent{Message: err.Error(), Context: context},
	})
}

func (r *Router) logState(entity, oldState, newState string) {
	r.logger.Log(log.Event{
		Timestamp:   time.Now(),
		Layer:       log.LayerBridge,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: entity, OldState: oldState, NewState: newState},
	})
}
