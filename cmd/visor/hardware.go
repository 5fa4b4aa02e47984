package main

import (
	"flag"
	"image/color"
	stdlog "log"
	"os"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/protosuit/visor-go/pkg/animation"
	"github.com/protosuit/visor-go/pkg/config"
)

var hwFlags struct {
	fanPWM  string
	fanTach string
	tempIn  string
	humidIn string
}

func init() {
	flag.StringVar(&hwFlags.fanPWM, "fan-pwm", "/sys/class/hwmon/hwmon0/pwm1", "Fan PWM sysfs file (0-255)")
	flag.StringVar(&hwFlags.fanTach, "fan-tach", "/sys/class/hwmon/hwmon0/fan1_input", "Fan tach sysfs file (RPM)")
	flag.StringVar(&hwFlags.tempIn, "temp-input", "/sys/class/hwmon/hwmon1/temp1_input", "Temperature sysfs file (millidegrees)")
	flag.StringVar(&hwFlags.humidIn, "humidity-input", "/sys/class/hwmon/hwmon1/humidity1_input", "Humidity sysfs file (milli-%RH)")
}

// buildStrip returns the LED output: the SPI-driven strips when a device
// is configured, otherwise a discarding stand-in for bench runs.
func buildStrip(cfg config.Config) (animation.Strip, func(), error) {
	if cfg.LEDs.SPIDev == "" {
		stdlog.Println("LED output disabled")
		return &nullStrip{}, func() {}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	port, err := spireg.Open(cfg.LEDs.SPIDev)
	if err != nil {
		return nil, nil, err
	}

	total := animation.Layout(cfg.LEDs.Segments).Total()
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: total,
		Channels:  3,
		Freq:      800 * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, nil, err
	}

	strip := &spiStrip{
		dev:        dev,
		buf:        make([]byte, total*3),
		brightness: 255,
	}
	return strip, func() { port.Close() }, nil
}

// spiStrip pushes frames to WS2812 strips over SPI. The LED driver has
// no global brightness, so brightness scales each channel before the
// frame is written.
type spiStrip struct {
	dev        *nrzled.Dev
	buf        []byte
	brightness uint8
}

func (s *spiStrip) SetBrightness(brightness uint8) {
	s.brightness = brightness
}

func (s *spiStrip) Show(pixels []color.RGBA) error {
	scale := uint16(s.brightness) + 1
	for i, px := range pixels {
		s.buf[i*3+0] = uint8(uint16(px.R) * scale >> 8)
		s.buf[i*3+1] = uint8(uint16(px.G) * scale >> 8)
		s.buf[i*3+2] = uint8(uint16(px.B) * scale >> 8)
	}
	_, err := s.dev.Write(s.buf)
	return err
}

// nullStrip discards frames when no LED hardware is attached.
type nullStrip struct{}

func (*nullStrip) SetBrightness(uint8)     {}
func (*nullStrip) Show([]color.RGBA) error { return nil }

// sysfsFan drives a PWM fan through hwmon. Absent files degrade to
// remembering the requested speed so bench runs work without hardware.
type sysfsFan struct {
	pwmPath  string
	tachPath string
	percent  int
}

func newFan() *sysfsFan {
	return &sysfsFan{pwmPath: hwFlags.fanPWM, tachPath: hwFlags.fanTach}
}

func (f *sysfsFan) SetSpeed(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	f.percent = percent

	duty := percent * 255 / 100
	if err := os.WriteFile(f.pwmPath, []byte(strconv.Itoa(duty)), 0644); err != nil && !os.IsNotExist(err) {
		stdlog.Printf("Fan PWM write: %v", err)
	}
}

func (f *sysfsFan) SpeedPercent() int {
	return f.percent
}

func (f *sysfsFan) RPM() int {
	return int(readSysfsValue(f.tachPath))
}

// sysfsSensors reads temperature and humidity from hwmon. Missing files
// read as zero; automatic fan control then just follows the curve floor.
type sysfsSensors struct {
	tempPath  string
	humidPath string
}

func newSensors() *sysfsSensors {
	return &sysfsSensors{tempPath: hwFlags.tempIn, humidPath: hwFlags.humidIn}
}

func (s *sysfsSensors) Temperature() float64 {
	return readSysfsValue(s.tempPath) / 1000
}

func (s *sysfsSensors) Humidity() float64 {
	return readSysfsValue(s.humidPath) / 1000
}

func readSysfsValue(path string) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0
	}
	return v
}
