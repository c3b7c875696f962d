package solver

import (
	"fmt"
	"math"
)

// PinchSearch adjusts one design pressure by proportional control until
// the pinch temperature difference reported by the inner solve meets the
// target. The gain carries the sign of d(pressure)/d(pinch) for the cycle
// at hand.
type PinchSearch struct {
	Start     float64 // initial pressure (Pa)
	Target    float64 // pinch target (K)
	Gain      float64 // Pa per K of pinch error
	Tolerance float64 // acceptance band (K)
	MaxSteps  int
}

// Run re-invokes eval, which must solve the cycle at the trial pressure
// and report the resulting pinch, until |pinch - target| < Tolerance.
func (s PinchSearch) Run(eval func(p float64) (float64, error)) (float64, int, error) {
	if s.Tolerance <= 0 {
		s.Tolerance = 1e-3
	}
	if s.MaxSteps <= 0 {
		s.MaxSteps = 100
	}

	p := s.Start
	pinch := math.NaN()
	for step := 0; step < s.MaxSteps; step++ {
		var err error
		pinch, err = eval(p)
		if err != nil {
			return 0, step, fmt.Errorf("design search at %g Pa: %v", p, err)
		}
		if math.Abs(pinch-s.Target) < s.Tolerance {
			return p, step + 1, nil
		}
		p += s.Gain * (s.Target - pinch)
	}
	return 0, s.MaxSteps, fmt.Errorf("design search: %w after %d steps (pinch %g K, target %g K)",
		ErrNoConvergence, s.MaxSteps, pinch, s.Target)
}
