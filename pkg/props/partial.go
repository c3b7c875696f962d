package props

import "math"

// Exact partial derivatives of the two-region model. Saturation property
// slopes follow from Clausius-Clapeyron with constant latent heat, so
// dhv/dp = dhl/dp.

func (f *Fluid) dhlDP(ts, p float64) float64 {
	return f.Cpl*f.dTsatdP(ts, p) + f.Vl
}

func (f *Fluid) dslDP(ts, p float64) float64 {
	return f.Cpl * f.dTsatdP(ts, p) / ts
}

func (f *Fluid) dsvDP(ts, p float64) float64 {
	return f.dslDP(ts, p) - f.L*f.dTsatdP(ts, p)/(ts*ts)
}

// DTdH is dT/dh at constant p.
func (f *Fluid) DTdH(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	switch r {
	case Liquid:
		return 1.0 / f.Cpl, nil
	case TwoPhase:
		return 0, nil
	default:
		return 1.0 / f.Cpv, nil
	}
}

// DSdH is ds/dh at constant p, which is 1/T off the dome and 1/Tsat on it.
func (f *Fluid) DSdH(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	if r == TwoPhase {
		ts, _ := f.Tsat(p)
		return 1.0 / ts, nil
	}
	t, err := f.THP(h, p)
	if err != nil {
		return 0, err
	}
	return 1.0 / t, nil
}

// DTdP is dT/dp at constant h.
func (f *Fluid) DTdP(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	if r == Liquid {
		return -f.Vl / f.Cpl, nil
	}
	ts, _ := f.Tsat(p)
	tp := f.dTsatdP(ts, p)
	if r == TwoPhase {
		return tp, nil
	}
	return tp - f.dhlDP(ts, p)/f.Cpv, nil
}

// DSdP is ds/dp at constant h.
func (f *Fluid) DSdP(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	if r == Liquid {
		t, err := f.THP(h, p)
		if err != nil {
			return 0, err
		}
		return -f.Vl / t, nil
	}
	ts, _ := f.Tsat(p)
	tp := f.dTsatdP(ts, p)
	hl, hv, _ := f.SatH(p)
	if r == TwoPhase {
		return f.dslDP(ts, p) - f.dhlDP(ts, p)/ts - (h-hl)*tp/(ts*ts), nil
	}
	t := ts + (h-hv)/f.Cpv
	dt, _ := f.DTdP(h, p)
	return f.dsvDP(ts, p) + f.Cpv*(dt/t-tp/ts), nil
}

// DHdPS is dh/dp at constant s, for the state given by (h, p).
func (f *Fluid) DHdPS(h, p float64) (float64, error) {
	if f.LiquidOnly {
		return f.Vl, nil
	}
	s, err := f.SHP(h, p)
	if err != nil {
		return 0, err
	}
	sl, sv, _ := f.SatS(p)
	ts, _ := f.Tsat(p)
	tp := f.dTsatdP(ts, p)
	switch {
	case s < sl:
		return f.Vl, nil
	case s > sv:
		t := ts * math.Exp((s-sv)/f.Cpv)
		dt := t * (tp/ts - f.dsvDP(ts, p)/f.Cpv)
		return f.dhlDP(ts, p) - f.Cpv*tp + f.Cpv*dt, nil
	default:
		// on the dome h(s,p) = hl(p) + (s - sl(p))*Tsat(p)
		return f.dhlDP(ts, p) - f.dslDP(ts, p)*ts + (s-sl)*tp, nil
	}
}

// DHdPQ is dh/dp at constant vapor quality. With constant latent heat it
// does not depend on the quality.
func (f *Fluid) DHdPQ(p float64) (float64, error) {
	ts, err := f.Tsat(p)
	if err != nil {
		return 0, err
	}
	return f.dhlDP(ts, p), nil
}
