package fancurve

// MaxPoints caps each curve's point list.
const MaxPoints = 8

// Point maps an input reading to a fan output percentage.
type Point struct {
	// Value is the input threshold (degrees C or %RH).
	Value float64 `json:"value"`

	// Fan is the output duty percentage at that threshold.
	Fan uint8 `json:"fan"`
}

// Curve is an ordered list of points, interpolated piecewise-linearly and
// clamped to the first/last point outside the covered range.
type Curve []Point

// Interpolate returns the fan percentage for the given input value.
func (c Curve) Interpolate(value float64) int {
	if len(c) == 0 {
		return 0
	}
	if value <= c[0].Value {
		return int(c[0].Fan)
	}
	last := c[len(c)-1]
	if value >= last.Value {
		return int(last.Fan)
	}
	for i := 0; i < len(c)-1; i++ {
		if value >= c[i].Value && value < c[i+1].Value {
			span := c[i+1].Value - c[i].Value
			t := (value - c[i].Value) / span
			return int(float64(c[i].Fan) + t*float64(int(c[i+1].Fan)-int(c[i].Fan)))
		}
	}
	return int(last.Fan)
}

// Config is the full fan control configuration.
type Config struct {
	// AutoMode selects curve-driven control; false means the manual
	// percentage last set by the host stays in force.
	AutoMode bool

	// Temperature is the curve over degrees Celsius.
	Temperature Curve

	// Humidity is the curve over relative humidity percent.
	Humidity Curve
}

// DefaultConfig returns the stock curves: quiet below room conditions,
// full blast approaching the suit's comfort ceiling.
func DefaultConfig() Config {
	return Config{
		AutoMode: false,
		Temperature: Curve{
			{Value: 15, Fan: 0},
			{Value: 20, Fan: 30},
			{Value: 25, Fan: 50},
			{Value: 30, Fan: 80},
			{Value: 35, Fan: 100},
		},
		Humidity: Curve{
			{Value: 30, Fan: 0},
			{Value: 40, Fan: 40},
			{Value: 60, Fan: 60},
			{Value: 80, Fan: 100},
		},
	}
}

// Calculate returns the automatic fan percentage for the given readings:
// the maximum of the two curve outputs.
func (c *Config) Calculate(temperature, humidity float64) int {
	tempSpeed := c.Temperature.Interpolate(temperature)
	humSpeed := c.Humidity.Interpolate(humidity)
	if tempSpeed > humSpeed {
		return tempSpeed
	}
	return humSpeed
}
