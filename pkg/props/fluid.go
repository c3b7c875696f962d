// Package props provides thermophysical properties for the cycle models.
//
// Each fluid is an analytic two-region model (subcooled liquid, two-phase
// dome, superheated vapor) closed under the Clausius-Clapeyron relation.
// Besides state values the package supplies the exact partial derivatives
// the equation stamps need, so Jacobians never fall back to numeric
// differencing.
package props

import (
	"fmt"
	"math"
)

type Region int

const (
	Liquid Region = iota - 1
	TwoPhase
	Vapor
)

type Fluid struct {
	Name string

	Cpl  float64 // liquid specific heat (J/kgK)
	Cpv  float64 // vapor specific heat (J/kgK)
	R    float64 // gas constant (J/kgK)
	L    float64 // latent heat (J/kg)
	Tref float64 // saturation temperature at Pref (K)
	Pref float64 // reference pressure (Pa)
	Vl   float64 // liquid specific volume (m3/kg)

	Tbase float64 // enthalpy/entropy datum temperature (K)

	// LiquidOnly disables the dome, for incompressible carriers.
	LiquidOnly bool
}

// Tsat returns the saturation temperature at p.
func (f *Fluid) Tsat(p float64) (float64, error) {
	if p <= 0 {
		return 0, fmt.Errorf("%s: non-positive pressure %g", f.Name, p)
	}
	inv := 1.0/f.Tref - (f.R/f.L)*math.Log(p/f.Pref)
	if inv <= 0 {
		return 0, fmt.Errorf("%s: pressure %g Pa outside saturation range", f.Name, p)
	}
	return 1.0 / inv, nil
}

// Psat is the inverse of Tsat.
func (f *Fluid) Psat(t float64) float64 {
	return math.Exp((1.0/f.Tref-1.0/t)*f.L/f.R) * f.Pref
}

func (f *Fluid) dTsatdP(ts, p float64) float64 {
	return ts * ts * f.R / (f.L * p)
}

func (f *Fluid) hLiq(t, p float64) float64 {
	return f.Cpl*(t-f.Tbase) + f.Vl*(p-f.Pref)
}

func (f *Fluid) sLiq(t float64) float64 {
	return f.Cpl * math.Log(t/f.Tbase)
}

// SatH returns the saturated liquid and vapor enthalpies at p.
func (f *Fluid) SatH(p float64) (hl, hv float64, err error) {
	ts, err := f.Tsat(p)
	if err != nil {
		return 0, 0, err
	}
	hl = f.hLiq(ts, p)
	return hl, hl + f.L, nil
}

// SatS returns the saturated liquid and vapor entropies at p.
func (f *Fluid) SatS(p float64) (sl, sv float64, err error) {
	ts, err := f.Tsat(p)
	if err != nil {
		return 0, 0, err
	}
	sl = f.sLiq(ts)
	return sl, sl + f.L/ts, nil
}

// RegionHP classifies the state (h, p).
func (f *Fluid) RegionHP(h, p float64) (Region, error) {
	if f.LiquidOnly {
		return Liquid, nil
	}
	hl, hv, err := f.SatH(p)
	if err != nil {
		return 0, err
	}
	switch {
	case h < hl:
		return Liquid, nil
	case h > hv:
		return Vapor, nil
	default:
		return TwoPhase, nil
	}
}

// THP returns temperature at (h, p).
func (f *Fluid) THP(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	if r == Liquid {
		return f.Tbase + (h-f.Vl*(p-f.Pref))/f.Cpl, nil
	}
	ts, err := f.Tsat(p)
	if err != nil {
		return 0, err
	}
	if r == TwoPhase {
		return ts, nil
	}
	_, hv, _ := f.SatH(p)
	return ts + (h-hv)/f.Cpv, nil
}

// SHP returns entropy at (h, p).
func (f *Fluid) SHP(h, p float64) (float64, error) {
	r, err := f.RegionHP(h, p)
	if err != nil {
		return 0, err
	}
	if r == Liquid {
		t, err := f.THP(h, p)
		if err != nil {
			return 0, err
		}
		return f.sLiq(t), nil
	}
	ts, _ := f.Tsat(p)
	sl, sv, _ := f.SatS(p)
	hl, hv, _ := f.SatH(p)
	if r == TwoPhase {
		return sl + (h-hl)/ts, nil
	}
	t := ts + (h-hv)/f.Cpv
	return sv + f.Cpv*math.Log(t/ts), nil
}

// QHP returns vapor quality at (h, p), NaN outside the dome.
func (f *Fluid) QHP(h, p float64) (float64, error) {
	if f.LiquidOnly {
		return math.NaN(), nil
	}
	hl, hv, err := f.SatH(p)
	if err != nil {
		return 0, err
	}
	if h < hl || h > hv {
		return math.NaN(), nil
	}
	return (h - hl) / f.L, nil
}

// HPQ returns enthalpy at pressure p and vapor quality q.
func (f *Fluid) HPQ(p, q float64) (float64, error) {
	hl, hv, err := f.SatH(p)
	if err != nil {
		return 0, err
	}
	return hl + q*(hv-hl), nil
}

// HSP returns enthalpy at (s, p).
func (f *Fluid) HSP(s, p float64) (float64, error) {
	if f.LiquidOnly {
		t := f.Tbase * math.Exp(s/f.Cpl)
		return f.hLiq(t, p), nil
	}
	sl, sv, err := f.SatS(p)
	if err != nil {
		return 0, err
	}
	ts, _ := f.Tsat(p)
	hl, hv, _ := f.SatH(p)
	switch {
	case s < sl:
		t := f.Tbase * math.Exp(s/f.Cpl)
		return f.hLiq(t, p), nil
	case s > sv:
		t := ts * math.Exp((s-sv)/f.Cpv)
		return hv + f.Cpv*(t-ts), nil
	default:
		q := (s - sl) / (sv - sl)
		return hl + q*(hv-hl), nil
	}
}

// HTP returns enthalpy at (T, p). The saturation line itself is ambiguous.
func (f *Fluid) HTP(t, p float64) (float64, error) {
	if f.LiquidOnly {
		return f.hLiq(t, p), nil
	}
	ts, err := f.Tsat(p)
	if err != nil {
		return 0, err
	}
	switch {
	case t < ts:
		return f.hLiq(t, p), nil
	case t > ts:
		_, hv, _ := f.SatH(p)
		return hv + f.Cpv*(t-ts), nil
	default:
		return 0, fmt.Errorf("%s: H(T,P) ambiguous on the saturation line (T=%g K)", f.Name, t)
	}
}

// STP returns entropy at (T, p).
func (f *Fluid) STP(t, p float64) (float64, error) {
	h, err := f.HTP(t, p)
	if err != nil {
		return 0, err
	}
	return f.SHP(h, p)
}
