package props

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property-based checks over randomly drawn states: the inversions the
// cycle equations rely on must hold everywhere in the working window, not
// just at hand-picked points.
func TestFluidProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(1)
	properties := gopter.NewProperties(parameters)

	genP := gen.Float64Range(0.2e5, 15e5)
	genH := gen.Float64Range(1e3, 5.0e5)

	for _, f := range []*Fluid{RA165, RB120} {
		f := f
		properties.Property(f.Name+" entropy inverts", prop.ForAll(
			func(h, p float64) bool {
				s, err := f.SHP(h, p)
				if err != nil {
					return false
				}
				h2, err := f.HSP(s, p)
				if err != nil {
					return false
				}
				return math.Abs(h2-h) <= 1e-6*math.Max(1.0, math.Abs(h))
			},
			genH, genP,
		))

		properties.Property(f.Name+" entropy increases with enthalpy", prop.ForAll(
			func(h, p float64) bool {
				s1, err := f.SHP(h, p)
				if err != nil {
					return false
				}
				s2, err := f.SHP(h+100.0, p)
				if err != nil {
					return false
				}
				return s2 > s1
			},
			genH, genP,
		))

		properties.Property(f.Name+" quality stays in the dome", prop.ForAll(
			func(h, p float64) bool {
				q, err := f.QHP(h, p)
				if err != nil {
					return false
				}
				r, err := f.RegionHP(h, p)
				if err != nil {
					return false
				}
				if r == TwoPhase {
					return q >= 0 && q <= 1
				}
				return math.IsNaN(q)
			},
			genH, genP,
		))

		properties.Property(f.Name+" saturated enthalpies bracket", prop.ForAll(
			func(p float64) bool {
				hl, hv, err := f.SatH(p)
				if err != nil {
					return false
				}
				ts, err := f.Tsat(p)
				if err != nil {
					return false
				}
				return hv-hl > 0 && math.Abs((hv-hl)-f.L) < 1e-9 && ts > 0
			},
			genP,
		))
	}

	properties.TestingRun(t)
}
