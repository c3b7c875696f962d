// Package exergy turns converged stream tables into component exergy
// balances: destruction, fuel, efficiency, the cycle figure of merit and
// the global energy closure.
package exergy

import (
	"fmt"
	"math"

	"carnot-adex/pkg/cycle"
	"carnot-adex/pkg/props"
)

// Ambient is the dead-state reference.
type Ambient struct {
	T0 float64 `yaml:"t0"`
	P0 float64 `yaml:"p0"`
}

type Balance struct {
	Destruction map[string]float64
	Fuel        map[string]float64 // NaN where the fuel concept does not apply
	Epsilon     map[string]float64

	Merit    float64 // COP (heat pump) or net thermal efficiency (ORC)
	Power    float64 // net shaft power: consumed (heat pump) or delivered (ORC)
	HeatIn   float64
	HeatOut  float64
	Residual float64 // global energy closure, zero for a converged run
}

// flowExergy computes e = h - h0 - T0*(s - s0) per node, with the dead
// state evaluated per fluid.
func flowExergy(st map[int]cycle.Stream, amb Ambient) (map[int]float64, error) {
	type dead struct{ h0, s0 float64 }
	deadStates := make(map[string]dead)
	e := make(map[int]float64, len(st))
	for id, s := range st {
		d, ok := deadStates[s.Fluid]
		if !ok {
			f, err := props.Get(s.Fluid)
			if err != nil {
				return nil, err
			}
			h0, err := f.HTP(amb.T0, amb.P0)
			if err != nil {
				return nil, fmt.Errorf("dead state of %s: %v", s.Fluid, err)
			}
			s0, err := f.SHP(h0, amb.P0)
			if err != nil {
				return nil, fmt.Errorf("dead state of %s: %v", s.Fluid, err)
			}
			d = dead{h0: h0, s0: s0}
			deadStates[s.Fluid] = d
		}
		e[id] = s.H - d.h0 - amb.T0*(s.S-d.s0)
	}
	return e, nil
}

func efficiencies(ed, ef map[string]float64) map[string]float64 {
	eps := make(map[string]float64, len(ed))
	for k, d := range ed {
		if math.IsNaN(ef[k]) {
			eps[k] = math.NaN()
			continue
		}
		eps[k] = 1.0 - d/ef[k]
	}
	return eps
}

// HeatPump evaluates the exergy balance of a converged heat-pump stream
// table. The valve and the ambient-driven evaporator carry no exergy fuel.
func HeatPump(st map[int]cycle.Stream, amb Ambient) (*Balance, error) {
	e, err := flowExergy(st, amb)
	if err != nil {
		return nil, fmt.Errorf("heat pump exergy: %v", err)
	}
	t0 := amb.T0
	m31 := st[31].M
	m21 := st[21].M

	ed := map[string]float64{
		cycle.HPCompressor: t0 * m31 * (st[31].S - st[36].S),
		cycle.HPCondenser:  t0 * (m31*(st[32].S-st[31].S) + m21*(st[22].S-st[21].S)),
		cycle.HPInternalHX: t0 * m31 * (st[33].S - st[32].S + st[36].S - st[35].S),
		cycle.HPValve:      t0 * m31 * (st[34].S - st[33].S),
		cycle.HPEvaporator: m31 * (e[34] - e[35]),
	}
	ef := map[string]float64{
		cycle.HPCompressor: m31 * (st[31].H - st[36].H),
		cycle.HPCondenser:  m31 * (e[31] - e[32]),
		cycle.HPInternalHX: m31 * (e[32] - e[33]),
		cycle.HPValve:      math.NaN(),
		cycle.HPEvaporator: math.NaN(),
	}

	pComp := m31 * (st[31].H - st[36].H)
	qCond := m21 * (st[22].H - st[21].H)
	qEva := m31 * (st[35].H - st[34].H)
	pIHX := m31 * (st[32].H - st[33].H + st[35].H - st[36].H)
	pVal := m31 * (st[33].H - st[34].H)
	pCond := m31*(st[31].H-st[32].H) - qCond

	return &Balance{
		Destruction: ed,
		Fuel:        ef,
		Epsilon:     efficiencies(ed, ef),
		Merit:       qCond / pComp,
		Power:       pComp,
		HeatIn:      qEva,
		HeatOut:     qCond,
		Residual:    pComp + qEva - qCond - pIHX - pVal - pCond,
	}, nil
}

// Rankine evaluates the exergy balance of a converged ORC stream table.
// The ambient-facing condenser carries no exergy fuel.
func Rankine(st map[int]cycle.Stream, amb Ambient) (*Balance, error) {
	e, err := flowExergy(st, amb)
	if err != nil {
		return nil, fmt.Errorf("rankine exergy: %v", err)
	}
	t0 := amb.T0
	m31 := st[31].M
	m41 := st[41].M

	ed := map[string]float64{
		cycle.ORCPump:       t0 * m31 * (st[32].S - st[31].S),
		cycle.ORCEvaporator: t0 * (m31*(st[34].S-st[33].S) + m41*(st[42].S-st[41].S)),
		cycle.ORCInternalHX: t0 * m31 * (st[33].S - st[32].S + st[36].S - st[35].S),
		cycle.ORCExpander:   t0 * m31 * (st[35].S - st[34].S),
		cycle.ORCCondenser:  m31 * (e[36] - e[31]),
	}
	ef := map[string]float64{
		cycle.ORCPump:       m31 * (st[32].H - st[31].H),
		cycle.ORCEvaporator: m41 * (e[41] - e[42]),
		cycle.ORCInternalHX: m31 * (e[35] - e[36]),
		cycle.ORCExpander:   m31 * (e[34] - e[35]),
		cycle.ORCCondenser:  math.NaN(),
	}

	powerPump := m31 * (st[32].H - st[31].H)
	powerExp := m31 * (st[34].H - st[35].H)
	heatEva := m41 * (st[41].H - st[42].H)
	heatCond := m31 * (st[36].H - st[31].H)
	powerIHX := m31 * (st[35].H - st[36].H + st[32].H - st[33].H)
	powerEva := heatEva + m31*(st[33].H-st[34].H)

	return &Balance{
		Destruction: ed,
		Fuel:        ef,
		Epsilon:     efficiencies(ed, ef),
		Merit:       (powerExp - powerPump) / heatEva,
		Power:       powerExp - powerPump,
		HeatIn:      heatEva,
		HeatOut:     heatCond,
		Residual:    heatEva + powerPump - powerExp - heatCond - powerIHX - powerEva,
	}, nil
}
