package props

import "fmt"

// Built-in fluids. RA165 and RB120 are model refrigerants: RA165 has a
// nearly isentropic saturated-vapor line so compression from slightly
// superheated vapor stays dry, RB120 is mildly retrograde so expansion
// ends superheated with a small residual superheat.
var (
	RA165 = &Fluid{Name: "ra165", Cpl: 520, Cpv: 480, R: 55, L: 165e3,
		Tref: 306.0, Pref: 1e5, Vl: 0.0009, Tbase: 273.15}
	RB120 = &Fluid{Name: "rb120", Cpl: 250, Cpv: 240, R: 60, L: 120e3,
		Tref: 288.6, Pref: 1e5, Vl: 0.0007, Tbase: 273.15}
	Water = &Fluid{Name: "water", Cpl: 4180, Cpv: 1900, R: 461.5, L: 2256e3,
		Tref: 373.15, Pref: 1e5, Vl: 0.001, Tbase: 273.15, LiquidOnly: true}
)

var registry = map[string]*Fluid{
	RA165.Name: RA165,
	RB120.Name: RB120,
	Water.Name: Water,
}

// Get looks a fluid up by name.
func Get(name string) (*Fluid, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown fluid %q", name)
	}
	return f, nil
}

// Register adds or replaces a fluid in the registry.
func Register(f *Fluid) {
	registry[f.Name] = f
}

// Evaluate is the name-based dispatcher form used by callers that carry
// fluid identities as configuration strings.
func Evaluate(out, in1 Quantity, v1 float64, in2 Quantity, v2 float64, fluid string) (float64, error) {
	f, err := Get(fluid)
	if err != nil {
		return 0, err
	}
	return f.Props(out, in1, v1, in2, v2)
}
