// Command visor is the visor controller daemon.
//
// It bridges three processors of the suit: the host computer (framed,
// checksummed serial link), the companion face processor (newline
// command link) and the local LED strips, fan and sensors. Host messages
// drive fan control, the companion menu mirror and the animation engine;
// companion responses are relayed back to the host as status topics.
//
// Usage:
//
//	visor [flags]
//
// Flags:
//
//	-config string    Configuration file path (default "/etc/visor/visor.yaml")
//	-host-dev string  Host serial device (overrides config)
//	-device-dev string Companion serial device (overrides config)
//	-state string     State file path (overrides config)
//	-log string       Protocol event log file (overrides config)
//	-verbose          Echo protocol events to the console
//	-no-leds          Disable the physical LED output
//
// Examples:
//
//	# Run with the stock hardware configuration
//	visor
//
//	# Bench setup on USB serial adapters, console event echo
//	visor -host-dev /dev/ttyUSB0 -device-dev /dev/ttyUSB1 -verbose -no-leds
package main

import (
	"flag"
	"io"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/protosuit/visor-go/pkg/animation"
	"github.com/protosuit/visor-go/pkg/bridge"
	"github.com/protosuit/visor-go/pkg/config"
	"github.com/protosuit/visor-go/pkg/log"
	"github.com/protosuit/visor-go/pkg/persistence"
	"github.com/protosuit/visor-go/pkg/transport"
	"github.com/protosuit/visor-go/pkg/wire"
)

const (
	framePeriod       = 16 * time.Millisecond
	statusPeriod      = time.Second
	configPublishEach = 30 // status ticks between fan config republishes
	initialSyncDelay  = 3 * time.Second
)

var flags struct {
	configPath string
	hostDev    string
	deviceDev  string
	statePath  string
	logPath    string
	verbose    bool
	noLEDs     bool
}

func init() {
	flag.StringVar(&flags.configPath, "config", "/etc/visor/visor.yaml", "Configuration file path")
	flag.StringVar(&flags.hostDev, "host-dev", "", "Host serial device (overrides config)")
	flag.StringVar(&flags.deviceDev, "device-dev", "", "Companion serial device (overrides config)")
	flag.StringVar(&flags.statePath, "state", "", "State file path (overrides config)")
	flag.StringVar(&flags.logPath, "log", "", "Protocol event log file (overrides config)")
	flag.BoolVar(&flags.verbose, "verbose", false, "Echo protocol events to the console")
	flag.BoolVar(&flags.noLEDs, "no-leds", false, "Disable the physical LED output")
}

func main() {
	flag.Parse()
	stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds)

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		stdlog.Fatalf("Configuration: %v", err)
	}
	applyOverrides(&cfg)

	logger, closeLogger := buildLogger(cfg)
	defer closeLogger()

	hostPort, err := transport.OpenSerial(transport.SerialConfig{
		Device: cfg.Host.Device,
		Baud:   cfg.Host.Baud,
	})
	if err != nil {
		stdlog.Fatalf("Host link: %v", err)
	}
	defer hostPort.Close()

	devicePort, err := transport.OpenSerial(transport.SerialConfig{
		Device: cfg.Device.Device,
		Baud:   cfg.Device.Baud,
	})
	if err != nil {
		stdlog.Fatalf("Companion link: %v", err)
	}
	defer devicePort.Close()

	strip, closeStrip, err := buildStrip(cfg)
	if err != nil {
		stdlog.Fatalf("LED strip: %v", err)
	}
	defer closeStrip()

	engine := animation.NewEngine(strip, animation.Layout(cfg.LEDs.Segments))

	var router *bridge.Router
	link := transport.NewLinkChannel(hostPort, transport.HostHandlerFunc(func(msg wire.Message) {
		router.HandleHostMessage(time.Now(), msg)
	}), logger)
	deviceCh := transport.NewDeviceChannel(devicePort, transport.DeviceHandlerFunc(func(line string) {
		router.HandleDeviceLine(line)
	}), logger)

	router = bridge.NewRouter(bridge.Config{
		Host:      link,
		Device:    deviceCh,
		Fan:       newFan(),
		Sensors:   newSensors(),
		Renderer:  engine,
		Restarter: processRestarter{},
		Store:     persistence.NewVisorStateStore(cfg.StatePath),
		Logger:    logger,
	})

	stdlog.Printf("Visor controller up: host=%s device=%s pixels=%d",
		cfg.Host.Device, cfg.Device.Device, animation.Layout(cfg.LEDs.Segments).Total())

	hostBytes := make(chan []byte, 64)
	deviceBytes := make(chan []byte, 64)
	go readLoop(hostPort, hostBytes)
	go readLoop(devicePort, deviceBytes)

	router.Startup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runLoop(router, engine, link, deviceCh, hostBytes, deviceBytes, sigCh)

	stdlog.Println("Shutting down")
}

// runLoop is the core loop. It is the only goroutine that mutates state:
// the channels feed it raw bytes, and every handler, timer duty and
// animation frame runs here.
func runLoop(
	router *bridge.Router,
	engine *animation.Engine,
	link *transport.LinkChannel,
	deviceCh *transport.DeviceChannel,
	hostBytes, deviceBytes <-chan []byte,
	sigCh <-chan os.Signal,
) {
	frameTicker := time.NewTicker(framePeriod)
	defer frameTicker.Stop()
	statusTicker := time.NewTicker(statusPeriod)
	defer statusTicker.Stop()
	syncTimer := time.NewTimer(initialSyncDelay)
	defer syncTimer.Stop()

	statusTicks := 0
	for {
		select {
		case data := <-hostBytes:
			link.Consume(data)

		case data := <-deviceBytes:
			deviceCh.Consume(data)

		case now := <-frameTicker.C:
			if err := engine.Update(now); err != nil {
				stdlog.Printf("LED update: %v", err)
			}

		case now := <-statusTicker.C:
			router.Tick(now)
			statusTicks++
			if statusTicks%configPublishEach == 0 {
				router.PublishFanCurve()
			}

		case <-syncTimer.C:
			router.InitialSync()

		case sig := <-sigCh:
			stdlog.Printf("Received signal: %v", sig)
			return
		}
	}
}

// readLoop moves raw serial bytes onto a channel for the core loop.
func readLoop(r io.Reader, out chan<- []byte) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil && err != io.EOF {
			stdlog.Printf("Serial read: %v", err)
			return
		}
	}
}

func applyOverrides(cfg *config.Config) {
	if flags.hostDev != "" {
		cfg.Host.Device = flags.hostDev
	}
	if flags.deviceDev != "" {
		cfg.Device.Device = flags.deviceDev
	}
	if flags.statePath != "" {
		cfg.StatePath = flags.statePath
	}
	if flags.logPath != "" {
		cfg.LogPath = flags.logPath
	}
	if flags.noLEDs {
		cfg.LEDs.SPIDev = ""
	}
}

func buildLogger(cfg config.Config) (log.Logger, func()) {
	var loggers []log.Logger
	var fileLogger *log.FileLogger

	if cfg.LogPath != "" {
		fl, err := log.NewFileLogger(cfg.LogPath)
		if err != nil {
			stdlog.Fatalf("Event log: %v", err)
		}
		fileLogger = fl
		loggers = append(loggers, fl)
	}
	if flags.verbose {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}

	closer := func() {
		if fileLogger != nil {
			fileLogger.Close()
		}
	}
	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closer
	case 1:
		return loggers[0], closer
	default:
		return log.NewMultiLogger(loggers...), closer
	}
}

// processRestarter exits the process after letting the companion link
// flush the RESTART command; the service supervisor starts a fresh
// instance.
type processRestarter struct{}

func (processRestarter) Restart() {
	time.Sleep(500 * time.Millisecond)
	os.Exit(0)
}
