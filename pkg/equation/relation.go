package equation

import "carnot-adex/pkg/matrix"

// PressureRatio: pr*p_in - p_out = 0.
type PressureRatio struct {
	label     string
	pr        float64
	pin, pout Ref
}

func NewPressureRatio(label string, pr float64, pin, pout Ref) *PressureRatio {
	return &PressureRatio{label: label, pr: pr, pin: pin, pout: pout}
}

func (e *PressureRatio) Label() string { return e.label }

func (e *PressureRatio) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	r := e.pr*e.pin.Value(x) - e.pout.Value(x)
	stamp(jac, row, e.pin, e.pr)
	stamp(jac, row, e.pout, -1.0)
	return r, nil
}

// FixedValue pins an unknown to a constant.
type FixedValue struct {
	label string
	ref   Ref
	value float64
}

func NewFixedValue(label string, ref Ref, value float64) *FixedValue {
	return &FixedValue{label: label, ref: ref, value: value}
}

func (e *FixedValue) Label() string { return e.label }

func (e *FixedValue) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	stamp(jac, row, e.ref, 1.0)
	return e.ref.Value(x) - e.value, nil
}

// ShaftPower: P + m*(h1-h2) = 0. For compression h2 > h1 and P is the
// consumed power, positive.
type ShaftPower struct {
	label    string
	power, m Ref
	h1, h2   Ref
}

func NewShaftPower(label string, power, m, h1, h2 Ref) *ShaftPower {
	return &ShaftPower{label: label, power: power, m: m, h1: h1, h2: h2}
}

func (e *ShaftPower) Label() string { return e.label }

func (e *ShaftPower) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	pw := e.power.Value(x)
	m := e.m.Value(x)
	h1 := e.h1.Value(x)
	h2 := e.h2.Value(x)
	stamp(jac, row, e.power, 1.0)
	stamp(jac, row, e.m, h1-h2)
	stamp(jac, row, e.h1, m)
	stamp(jac, row, e.h2, -m)
	return pw + m*(h1-h2), nil
}

// HeatBalance: m_hot*(h1-h2) - m_cold*(h4-h3) = 0, hot stream 1->2, cold
// stream 3->4.
type HeatBalance struct {
	label      string
	mh, h1, h2 Ref
	mc, h3, h4 Ref
}

func NewHeatBalance(label string, mh, h1, h2, mc, h3, h4 Ref) *HeatBalance {
	return &HeatBalance{label: label, mh: mh, h1: h1, h2: h2, mc: mc, h3: h3, h4: h4}
}

func (e *HeatBalance) Label() string { return e.label }

func (e *HeatBalance) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	mh := e.mh.Value(x)
	h1 := e.h1.Value(x)
	h2 := e.h2.Value(x)
	mc := e.mc.Value(x)
	h3 := e.h3.Value(x)
	h4 := e.h4.Value(x)
	stamp(jac, row, e.mh, h1-h2)
	stamp(jac, row, e.h1, mh)
	stamp(jac, row, e.h2, -mh)
	stamp(jac, row, e.mc, -(h4 - h3))
	stamp(jac, row, e.h3, mc)
	stamp(jac, row, e.h4, -mc)
	return mh*(h1-h2) - mc*(h4-h3), nil
}

// RecuperatorBalance: (h1-h2) - (h4-h3) = 0, both sides carrying the same
// mass flow.
type RecuperatorBalance struct {
	label          string
	h1, h2, h3, h4 Ref
}

func NewRecuperatorBalance(label string, h1, h2, h3, h4 Ref) *RecuperatorBalance {
	return &RecuperatorBalance{label: label, h1: h1, h2: h2, h3: h3, h4: h4}
}

func (e *RecuperatorBalance) Label() string { return e.label }

func (e *RecuperatorBalance) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	r := (e.h1.Value(x) - e.h2.Value(x)) - (e.h4.Value(x) - e.h3.Value(x))
	stamp(jac, row, e.h1, 1.0)
	stamp(jac, row, e.h2, -1.0)
	stamp(jac, row, e.h3, 1.0)
	stamp(jac, row, e.h4, -1.0)
	return r, nil
}

// IsenthalpicThrottle: h_out - h_in = 0.
type IsenthalpicThrottle struct {
	label     string
	hin, hout Ref
}

func NewIsenthalpicThrottle(label string, hin, hout Ref) *IsenthalpicThrottle {
	return &IsenthalpicThrottle{label: label, hin: hin, hout: hout}
}

func (e *IsenthalpicThrottle) Label() string { return e.label }

func (e *IsenthalpicThrottle) Eval(x []float64, jac *matrix.System, row int) (float64, error) {
	stamp(jac, row, e.hout, 1.0)
	stamp(jac, row, e.hin, -1.0)
	return e.hout.Value(x) - e.hin.Value(x), nil
}
