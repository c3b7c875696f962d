package equation

import (
	"fmt"

	"carnot-adex/pkg/matrix"
	"carnot-adex/pkg/props"
)

// state bundles the oracle lookups an equation needs at one (h, p) node.
type state struct {
	t, s       float64
	dtdh, dtdp float64
	dsdh, dsdp float64
}

func nodeState(f *props.Fluid, h, p float64) (st state, err error) {
	if st.t, err = f.THP(h, p); err != nil {
		return st, err
	}
	if st.s, err = f.SHP(h, p); err != nil {
		return st, err
	}
	if st.dtdh, err = f.DTdH(h, p); err != nil {
		return st, err
	}
	if st.dtdp, err = f.DTdP(h, p); err != nil {
		return st, err
	}
	if st.dsdh, err = f.DSdH(h, p); err != nil {
		return st, err
	}
	st.dsdp, err = f.DSdP(h, p)
	return st, err
}

// TemperaturePin: T(h,p) - t = 0.
type TemperaturePin struct {
	label string
	fluid *props.Fluid
	t     float64
	h, p  Ref
}

func NewTemperaturePin(label string, fluid *props.Fluid, t float64, h, p Ref) *TemperaturePin {
	return &TemperaturePin{label: label, fluid: fluid, t: t, h: h, p: p}
}

func (e *TemperaturePin) Label() string { return e.label }

func (e *TemperaturePin) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	st, err := nodeState(e.fluid, e.h.Value(x), e.p.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	stamp(jac, row, e.h, st.dtdh)
	stamp(jac, row, e.p, st.dtdp)
	return st.t - e.t, nil
}

// ApproachTemperature: T1(h1,p1) - T2(h2,p2) - dt = 0, stream 1 hotter by
// dt. The two streams may carry different fluids.
type ApproachTemperature struct {
	label  string
	f1, f2 *props.Fluid
	h1, p1 Ref
	h2, p2 Ref
	dt     float64
}

func NewApproachTemperature(label string, f1 *props.Fluid, h1, p1 Ref, f2 *props.Fluid, h2, p2 Ref, dt float64) *ApproachTemperature {
	return &ApproachTemperature{label: label, f1: f1, h1: h1, p1: p1, f2: f2, h2: h2, p2: p2, dt: dt}
}

func (e *ApproachTemperature) Label() string { return e.label }

func (e *ApproachTemperature) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	s1, err := nodeState(e.f1, e.h1.Value(x), e.p1.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s2, err := nodeState(e.f2, e.h2.Value(x), e.p2.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	stamp(jac, row, e.h1, s1.dtdh)
	stamp(jac, row, e.p1, s1.dtdp)
	stamp(jac, row, e.h2, -s2.dtdh)
	stamp(jac, row, e.p2, -s2.dtdp)
	return s1.t - s2.t - e.dt, nil
}

// NewSameTemperature is the zero-approach variant for a single fluid.
func NewSameTemperature(label string, fluid *props.Fluid, h1, p1, h2, p2 Ref) *ApproachTemperature {
	return NewApproachTemperature(label, fluid, h1, p1, fluid, h2, p2, 0.0)
}

// VaporQuality: h - H(p, Q=q) = 0.
type VaporQuality struct {
	label string
	fluid *props.Fluid
	q     float64
	h, p  Ref
}

func NewVaporQuality(label string, fluid *props.Fluid, q float64, h, p Ref) *VaporQuality {
	return &VaporQuality{label: label, fluid: fluid, q: q, h: h, p: p}
}

func (e *VaporQuality) Label() string { return e.label }

func (e *VaporQuality) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	p := e.p.Value(x)
	hq, err := e.fluid.HPQ(p, e.q)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	dhdp, err := e.fluid.DHdPQ(p)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	stamp(jac, row, e.h, 1.0)
	stamp(jac, row, e.p, -dhdp)
	return e.h.Value(x) - hq, nil
}

// IsentropicEfficiency models a turbomachine against its isentropic
// reference process h2s = H(S(h1,p1), p2).
//
// Compression: h2 - h1 - (h2s - h1)/eta = 0.
// Expansion:   h2 - h1 - eta*(h2s - h1) = 0.
type IsentropicEfficiency struct {
	label     string
	fluid     *props.Fluid
	eta       float64
	h1, p1    Ref
	h2, p2    Ref
	expansion bool
}

func NewIsentropicEfficiency(label string, fluid *props.Fluid, eta float64, h1, p1, h2, p2 Ref, expansion bool) *IsentropicEfficiency {
	return &IsentropicEfficiency{label: label, fluid: fluid, eta: eta,
		h1: h1, p1: p1, h2: h2, p2: p2, expansion: expansion}
}

func (e *IsentropicEfficiency) Label() string { return e.label }

func (e *IsentropicEfficiency) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	f := e.fluid
	h1 := e.h1.Value(x)
	p1 := e.p1.Value(x)
	h2 := e.h2.Value(x)
	p2 := e.p2.Value(x)

	s1, err := f.SHP(h1, p1)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	h2s, err := f.HSP(s1, p2)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}

	// dh/ds at constant p is the local temperature, Tsat inside the dome.
	reg, err := f.RegionHP(h2s, p2)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	var dhds float64
	if reg == props.TwoPhase {
		dhds, err = f.Tsat(p2)
	} else {
		dhds, err = f.THP(h2s, p2)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	ds1dh, err := f.DSdH(h1, p1)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	ds1dp, err := f.DSdP(h1, p1)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	dh2sdp2, err := f.DHdPS(h2s, p2)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	dh2sdh1 := dhds * ds1dh
	dh2sdp1 := dhds * ds1dp

	if e.expansion {
		stamp(jac, row, e.h1, -1.0+e.eta-e.eta*dh2sdh1)
		stamp(jac, row, e.p1, -e.eta*dh2sdp1)
		stamp(jac, row, e.h2, 1.0)
		stamp(jac, row, e.p2, -e.eta*dh2sdp2)
		return h2 - h1 - e.eta*(h2s-h1), nil
	}
	stamp(jac, row, e.h1, -1.0+1.0/e.eta-dh2sdh1/e.eta)
	stamp(jac, row, e.p1, -dh2sdp1/e.eta)
	stamp(jac, row, e.h2, 1.0)
	stamp(jac, row, e.p2, -dh2sdp2/e.eta)
	return h2 - h1 - (h2s-h1)/e.eta, nil
}

// ExergyEfficiency substitutes a hypothetical process achieving a
// prescribed exergy efficiency for a turbomachine.
//
// Compression: eps*(h2-h1) - (h2-h1) + t0*(s2-s1) = 0.
// Expansion:   eps*(h1-h2 - t0*(s1-s2)) - (h1-h2) = 0.
type ExergyEfficiency struct {
	label     string
	fluid     *props.Fluid
	eps, t0   float64
	h1, p1    Ref
	h2, p2    Ref
	expansion bool
}

func NewExergyEfficiency(label string, fluid *props.Fluid, eps, t0 float64, h1, p1, h2, p2 Ref, expansion bool) *ExergyEfficiency {
	return &ExergyEfficiency{label: label, fluid: fluid, eps: eps, t0: t0,
		h1: h1, p1: p1, h2: h2, p2: p2, expansion: expansion}
}

func (e *ExergyEfficiency) Label() string { return e.label }

func (e *ExergyEfficiency) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	h1 := e.h1.Value(x)
	p1 := e.p1.Value(x)
	h2 := e.h2.Value(x)
	p2 := e.p2.Value(x)

	s1, err := nodeState(e.fluid, h1, p1)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s2, err := nodeState(e.fluid, h2, p2)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}

	if e.expansion {
		stamp(jac, row, e.h1, e.eps*(1.0-e.t0*s1.dsdh)-1.0)
		stamp(jac, row, e.p1, -e.eps*e.t0*s1.dsdp)
		stamp(jac, row, e.h2, e.eps*(-1.0+e.t0*s2.dsdh)+1.0)
		stamp(jac, row, e.p2, e.eps*e.t0*s2.dsdp)
		return e.eps*(h1-h2-e.t0*(s1.s-s2.s)) - (h1 - h2), nil
	}
	stamp(jac, row, e.h1, -e.eps+1.0-e.t0*s1.dsdh)
	stamp(jac, row, e.p1, -e.t0*s1.dsdp)
	stamp(jac, row, e.h2, e.eps-1.0+e.t0*s2.dsdh)
	stamp(jac, row, e.p2, e.t0*s2.dsdp)
	return e.eps*(h2-h1) - (h2 - h1) + e.t0*(s2.s-s1.s), nil
}

// EntropyBalance: m_hot*(s1-s2) + m_cold*(s3-s4) = 0, the reversible limit
// of a two-stream heat exchanger.
type EntropyBalance struct {
	label          string
	fh             *props.Fluid
	mh             Ref
	h1, p1, h2, p2 Ref
	fc             *props.Fluid
	mc             Ref
	h3, p3, h4, p4 Ref
}

func NewEntropyBalance(label string, fh *props.Fluid, mh, h1, p1, h2, p2 Ref, fc *props.Fluid, mc, h3, p3, h4, p4 Ref) *EntropyBalance {
	return &EntropyBalance{label: label, fh: fh, mh: mh, h1: h1, p1: p1, h2: h2, p2: p2,
		fc: fc, mc: mc, h3: h3, p3: p3, h4: h4, p4: p4}
}

func (e *EntropyBalance) Label() string { return e.label }

func (e *EntropyBalance) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	mh := e.mh.Value(x)
	mc := e.mc.Value(x)
	s1, err := nodeState(e.fh, e.h1.Value(x), e.p1.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s2, err := nodeState(e.fh, e.h2.Value(x), e.p2.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s3, err := nodeState(e.fc, e.h3.Value(x), e.p3.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s4, err := nodeState(e.fc, e.h4.Value(x), e.p4.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}

	stamp(jac, row, e.mh, s1.s-s2.s)
	stamp(jac, row, e.mc, s3.s-s4.s)
	stamp(jac, row, e.h1, mh*s1.dsdh)
	stamp(jac, row, e.p1, mh*s1.dsdp)
	stamp(jac, row, e.h2, -mh*s2.dsdh)
	stamp(jac, row, e.p2, -mh*s2.dsdp)
	stamp(jac, row, e.h3, mc*s3.dsdh)
	stamp(jac, row, e.p3, mc*s3.dsdp)
	stamp(jac, row, e.h4, -mc*s4.dsdh)
	stamp(jac, row, e.p4, -mc*s4.dsdp)
	return mh*(s1.s-s2.s) + mc*(s3.s-s4.s), nil
}

// RecuperatorEntropy: (s1-s2) + (s3-s4) = 0, single fluid, equal mass flow
// on both sides.
type RecuperatorEntropy struct {
	label          string
	fluid          *props.Fluid
	h1, p1, h2, p2 Ref
	h3, p3, h4, p4 Ref
}

func NewRecuperatorEntropy(label string, fluid *props.Fluid, h1, p1, h2, p2, h3, p3, h4, p4 Ref) *RecuperatorEntropy {
	return &RecuperatorEntropy{label: label, fluid: fluid,
		h1: h1, p1: p1, h2: h2, p2: p2, h3: h3, p3: p3, h4: h4, p4: p4}
}

func (e *RecuperatorEntropy) Label() string { return e.label }

func (e *RecuperatorEntropy) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	s1, err := nodeState(e.fluid, e.h1.Value(x), e.p1.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s2, err := nodeState(e.fluid, e.h2.Value(x), e.p2.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s3, err := nodeState(e.fluid, e.h3.Value(x), e.p3.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	s4, err := nodeState(e.fluid, e.h4.Value(x), e.p4.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}

	stamp(jac, row, e.h1, s1.dsdh)
	stamp(jac, row, e.p1, s1.dsdp)
	stamp(jac, row, e.h2, -s2.dsdh)
	stamp(jac, row, e.p2, -s2.dsdp)
	stamp(jac, row, e.h3, s3.dsdh)
	stamp(jac, row, e.p3, s3.dsdp)
	stamp(jac, row, e.h4, -s4.dsdh)
	stamp(jac, row, e.p4, -s4.dsdp)
	return s1.s - s2.s + s3.s - s4.s, nil
}

// IsentropicThrottle is the reversible valve substitute: s_out - s_in = 0.
type IsentropicThrottle struct {
	label                string
	fluid                *props.Fluid
	hin, pin, hout, pout Ref
}

func NewIsentropicThrottle(label string, fluid *props.Fluid, hin, pin, hout, pout Ref) *IsentropicThrottle {
	return &IsentropicThrottle{label: label, fluid: fluid, hin: hin, pin: pin, hout: hout, pout: pout}
}

func (e *IsentropicThrottle) Label() string { return e.label }

func (e *IsentropicThrottle) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	si, err := nodeState(e.fluid, e.hin.Value(x), e.pin.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	so, err := nodeState(e.fluid, e.hout.Value(x), e.pout.Value(x))
	if err != nil {
		return 0, fmt.Errorf("%s: %v", e.label, err)
	}
	stamp(jac, row, e.hout, so.dsdh)
	stamp(jac, row, e.pout, so.dsdp)
	stamp(jac, row, e.hin, -si.dsdh)
	stamp(jac, row, e.pin, -si.dsdp)
	return so.s - si.s, nil
}
