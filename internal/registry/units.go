package registry

// Conversion maps a raw value into a metric's canonical unit. All
// conversions here are linear (value*Factor + Offset) and therefore exactly
// round-trip invertible up to floating-point tolerance.
type Conversion struct {
	Name   string
	Factor float64
	Offset float64
}

// Apply converts a raw value to the canonical unit.
func (c Conversion) Apply(v float64) float64 {
	return v*c.Factor + c.Offset
}

// Invert converts a canonical value back to the raw unit.
func (c Conversion) Invert(v float64) float64 {
	return (v - c.Offset) / c.Factor
}

var (
	// Identity keeps the raw value unchanged.
	Identity = Conversion{Name: "identity", Factor: 1}

	// LbToKg converts pounds to kilograms.
	LbToKg = Conversion{Name: "lb_to_kg", Factor: 0.453592}

	// FahrenheitToCelsius converts °F to °C.
	FahrenheitToCelsius = Conversion{Name: "f_to_c", Factor: 5.0 / 9.0, Offset: -32.0 * 5.0 / 9.0}

	// MinToHours converts minutes to hours.
	MinToHours = Conversion{Name: "min_to_hours", Factor: 1.0 / 60.0}
)
