package cycle

import (
	"fmt"

	"carnot-adex/internal/consts"
	"carnot-adex/pkg/equation"
	"carnot-adex/pkg/props"
	"carnot-adex/pkg/solver"
)

// Organic Rankine cycle component names.
const (
	ORCPump       = "pump"
	ORCEvaporator = "eva"
	ORCExpander   = "exp"
	ORCInternalHX = "ihx"
	ORCCondenser  = "cond"
)

var RankineComponents = []string{ORCPump, ORCEvaporator, ORCExpander, ORCInternalHX, ORCCondenser}

// Unknown-vector layout of the ORC system. Working-fluid nodes: 31
// condenser outlet, 32 pump outlet, 33 IHX cold outlet, 34 evaporator
// outlet, 35 expander outlet, 36 IHX hot outlet, 38/39 evaporator section
// boundaries (saturated liquid / saturated vapor). Store water nodes: 41
// inlet, 42 outlet, 48/49 the matching section boundaries. The evaporation
// pressure at node 33 is the design unknown of the outer search.
const (
	orcH31 = iota
	orcP31
	orcH32
	orcH36
	orcP36
	orcP32
	orcP34
	orcH34
	orcP35
	orcH35
	orcH33
	orcH41
	orcH42
	orcP42
	orcM31
	orcH38
	orcH39
	orcH48
	orcH49
	orcP38
	orcP39
	orcP48
	orcP49
	orcUnknowns
)

// With the IHX idealized but the condenser kept real, the condenser
// pressure drop raises the saturation temperature at the IHX hot outlet
// above the cold inlet; a zero approach would land inside the dome and the
// system goes singular. 3 K clears the saturation-temperature rise.
const idealIHXApproach = 3.0

// RankineParams are the boundary conditions and loss parameters of the
// store-discharging ORC.
type RankineParams struct {
	WorkingFluid string `yaml:"working_fluid"`
	StoreFluid   string `yaml:"store_fluid"`

	TStoreIn  float64 `yaml:"t_store_in"`  // hot water inlet (K)
	TStoreOut float64 `yaml:"t_store_out"` // hot water outlet (K)
	PStore    float64 `yaml:"p_store"`     // Pa
	MStore    float64 `yaml:"m_store"`     // kg/s

	TTDCond float64 `yaml:"ttd_cond"` // condenser lower terminal difference (K)
	TTDIHX  float64 `yaml:"ttd_ihx"`  // IHX lower terminal difference (K)
	TTDEva  float64 `yaml:"ttd_eva"`  // evaporator upper terminal difference (K)

	PRCondHot float64 `yaml:"pr_cond_hot"`
	PRIHXHot  float64 `yaml:"pr_ihx_hot"`
	PRIHXCold float64 `yaml:"pr_ihx_cold"`
	PREvaHot  float64 `yaml:"pr_eva_hot"`
	PREvaCold float64 `yaml:"pr_eva_cold"`

	EtaPump     float64 `yaml:"eta_pump"`
	EtaExpander float64 `yaml:"eta_expander"`

	T0 float64 `yaml:"t0"` // ambient temperature (K)
	P0 float64 `yaml:"p0"` // ambient pressure (Pa)

	PDesignStart float64 `yaml:"p_design_start,omitempty"` // Pa
	SearchGain   float64 `yaml:"search_gain,omitempty"`    // Pa/K

	Start []float64 `yaml:"start,omitempty,flow"`
}

// DefaultRankineParams is the discharging study: store water cooled from
// 130 degC to 70 degC at 5 bar and 10 kg/s against a 10 degC ambient.
func DefaultRankineParams() RankineParams {
	return RankineParams{
		WorkingFluid: props.RB120.Name,
		StoreFluid:   props.Water.Name,
		TStoreIn:     130.0 + consts.KELVIN,
		TStoreOut:    70.0 + consts.KELVIN,
		PStore:       5 * consts.BAR,
		MStore:       10.0,
		TTDCond:      5.0,
		TTDIHX:       5.0,
		TTDEva:       5.0,
		PRCondHot:    0.95,
		PRIHXHot:     0.985,
		PRIHXCold:    0.985,
		PREvaHot:     1.0,
		PREvaCold:    0.95,
		EtaPump:      0.85,
		EtaExpander:  0.85,
		T0:           10.0 + consts.KELVIN,
		P0:           1.013 * consts.BAR,
		PDesignStart: 3 * consts.BAR,
		SearchGain:   -6e3,
	}
}

// UnavoidableRankineParams is the technological-limit variant.
func UnavoidableRankineParams() RankineParams {
	p := DefaultRankineParams()
	p.TTDCond = 0.5
	p.TTDIHX = 0.5
	p.TTDEva = 0.5
	p.PRCondHot = 1.0
	p.PRIHXHot = 1.0
	p.PRIHXCold = 1.0
	p.PREvaHot = 1.0
	p.PREvaCold = 1.0
	p.EtaPump = 0.95
	p.EtaExpander = 0.95
	return p
}

type Rankine struct {
	Params RankineParams
	Newton solver.Options

	wf, water *props.Fluid
}

func NewRankine(params RankineParams) (*Rankine, error) {
	wf, err := props.Get(params.WorkingFluid)
	if err != nil {
		return nil, fmt.Errorf("rankine: %v", err)
	}
	water, err := props.Get(params.StoreFluid)
	if err != nil {
		return nil, fmt.Errorf("rankine: %v", err)
	}
	return &Rankine{Params: params, Newton: solver.DefaultOptions(), wf: wf, water: water}, nil
}

func (r *Rankine) Name() string           { return "organic rankine" }
func (r *Rankine) Components() []string   { return RankineComponents }
func (r *Rankine) PinchComponent() string { return ORCEvaporator }

func (r *Rankine) equations(p33 float64, spec RunSpec) ([]equation.Equation, error) {
	cfg := r.Params
	wf, w := r.wf, r.water
	v, c := equation.Var, equation.Const

	prCondHot := 1.0
	prIHXHot, prIHXCold := 1.0, 1.0
	prEvaHot, prEvaCold := 1.0, 1.0
	ttdCond, ttdIHX, ttdEva := 0.0, 0.0, 0.0
	if spec.real(ORCCondenser) {
		prCondHot = cfg.PRCondHot
		ttdCond = cfg.TTDCond
	}
	if spec.real(ORCInternalHX) {
		prIHXHot, prIHXCold = cfg.PRIHXHot, cfg.PRIHXCold
		ttdIHX = cfg.TTDIHX
	}
	if spec.real(ORCEvaporator) {
		prEvaHot, prEvaCold = cfg.PREvaHot, cfg.PREvaCold
		ttdEva = cfg.TTDEva
	}
	prPartCold := cbrt(prEvaCold)
	prPartHot := cbrt(prEvaHot)

	t31 := cfg.T0 + ttdCond
	t34 := cfg.TStoreIn - ttdEva

	eqs := make([]equation.Equation, orcUnknowns)

	eqs[0] = equation.NewTemperaturePin("t31 set", wf, t31, v(orcH31), v(orcP31))
	eqs[1] = equation.NewVaporQuality("x31 set", wf, 0.0, v(orcH31), v(orcP31))

	switch {
	case spec.Adex && !spec.real(ORCPump):
		eqs[2] = equation.NewExergyEfficiency("pump ideal", wf, 1.0, cfg.T0,
			v(orcH31), v(orcP31), v(orcH32), v(orcP32), false)
	case spec.Adex:
		eps, ok := spec.Epsilon[ORCPump]
		if !ok {
			return nil, fmt.Errorf("rankine: no exergy efficiency for %s", ORCPump)
		}
		eqs[2] = equation.NewExergyEfficiency("pump eps", wf, eps, cfg.T0,
			v(orcH31), v(orcP31), v(orcH32), v(orcP32), false)
	default:
		eqs[2] = equation.NewIsentropicEfficiency("pump eta_s", wf, cfg.EtaPump,
			v(orcH31), v(orcP31), v(orcH32), v(orcP32), false)
	}

	switch {
	case spec.Adex && !spec.real(ORCInternalHX) && spec.real(ORCCondenser):
		eqs[3] = equation.NewApproachTemperature("t36 ttd min", wf, v(orcH36), v(orcP36),
			wf, v(orcH32), v(orcP32), idealIHXApproach)
	case spec.Adex && !spec.real(ORCInternalHX):
		eqs[3] = equation.NewSameTemperature("t36 same", wf, v(orcH36), v(orcP36), v(orcH32), v(orcP32))
	default:
		eqs[3] = equation.NewApproachTemperature("t36 set", wf, v(orcH36), v(orcP36),
			wf, v(orcH32), v(orcP32), ttdIHX)
	}

	eqs[4] = equation.NewPressureRatio("p31 set", prCondHot, v(orcP36), v(orcP31))
	eqs[5] = equation.NewPressureRatio("p32 set", prIHXCold, v(orcP32), c(p33))
	eqs[6] = equation.NewPressureRatio("p34 set", prEvaCold, c(p33), v(orcP34))
	eqs[7] = equation.NewTemperaturePin("t34 set", wf, t34, v(orcH34), v(orcP34))
	eqs[8] = equation.NewPressureRatio("p36 set", prIHXHot, v(orcP35), v(orcP36))

	switch {
	case spec.Adex && !spec.real(ORCExpander):
		eqs[9] = equation.NewExergyEfficiency("exp ideal", wf, 1.0, cfg.T0,
			v(orcH34), v(orcP34), v(orcH35), v(orcP35), true)
	case spec.Adex:
		eps, ok := spec.Epsilon[ORCExpander]
		if !ok {
			return nil, fmt.Errorf("rankine: no exergy efficiency for %s", ORCExpander)
		}
		eqs[9] = equation.NewExergyEfficiency("exp eps", wf, eps, cfg.T0,
			v(orcH34), v(orcP34), v(orcH35), v(orcP35), true)
	default:
		eqs[9] = equation.NewIsentropicEfficiency("exp eta_s", wf, cfg.EtaExpander,
			v(orcH34), v(orcP34), v(orcH35), v(orcP35), true)
	}

	// IHX hot side 35->36, cold side 32->33
	if spec.Adex && !spec.real(ORCInternalHX) {
		eqs[10] = equation.NewRecuperatorEntropy("ihx s-bal", wf,
			v(orcH35), v(orcP35), v(orcH36), v(orcP36), v(orcH32), v(orcP32), v(orcH33), c(p33))
	} else {
		eqs[10] = equation.NewRecuperatorBalance("ihx en-bal", v(orcH35), v(orcH36), v(orcH32), v(orcH33))
	}

	eqs[11] = equation.NewTemperaturePin("t41 set", w, cfg.TStoreIn, v(orcH41), c(cfg.PStore))
	eqs[12] = equation.NewTemperaturePin("t42 set", w, cfg.TStoreOut, v(orcH42), v(orcP42))
	eqs[13] = equation.NewPressureRatio("p42 set", prEvaHot, c(cfg.PStore), v(orcP42))

	// evaporator hot side 41->42, cold side 33->34
	if spec.Adex && !spec.real(ORCEvaporator) {
		eqs[14] = equation.NewEntropyBalance("eva s-bal",
			w, c(cfg.MStore), v(orcH41), c(cfg.PStore), v(orcH42), v(orcP42),
			wf, v(orcM31), v(orcH33), c(p33), v(orcH34), v(orcP34))
	} else {
		eqs[14] = equation.NewHeatBalance("eva en-bal",
			c(cfg.MStore), v(orcH41), v(orcH42), v(orcM31), v(orcH33), v(orcH34))
	}

	// evaporator sections: economizer 33->38, evaporation 38->39,
	// superheater 39->34, water boundaries 49 and 48
	eqs[15] = equation.NewVaporQuality("x38 set", wf, 0.0, v(orcH38), v(orcP38))
	eqs[16] = equation.NewHeatBalance("eva eco en-bal",
		c(cfg.MStore), v(orcH49), v(orcH42), v(orcM31), v(orcH33), v(orcH38))
	eqs[17] = equation.NewVaporQuality("x39 set", wf, 1.0, v(orcH39), v(orcP39))
	eqs[18] = equation.NewHeatBalance("eva sh en-bal",
		c(cfg.MStore), v(orcH41), v(orcH48), v(orcM31), v(orcH39), v(orcH34))
	eqs[19] = equation.NewPressureRatio("p38 set", prPartCold, c(p33), v(orcP38))
	eqs[20] = equation.NewPressureRatio("p39 set", prPartCold, v(orcP38), v(orcP39))
	eqs[21] = equation.NewPressureRatio("p48 set", prPartHot, c(cfg.PStore), v(orcP48))
	eqs[22] = equation.NewPressureRatio("p49 set", prPartHot, v(orcP48), v(orcP49))

	return eqs, nil
}

func (r *Rankine) start(p33 float64) ([]float64, error) {
	if len(r.Params.Start) == orcUnknowns {
		x := make([]float64, orcUnknowns)
		copy(x, r.Params.Start)
		return x, nil
	}

	n := DefaultRankineParams()
	wf, w := r.wf, r.water
	x := make([]float64, orcUnknowns)

	t31 := n.T0 + n.TTDCond
	t34 := n.TStoreIn - n.TTDEva

	p31 := wf.Psat(t31)
	x[orcP31] = p31
	var err error
	if x[orcH31], err = wf.HPQ(p31, 0.0); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcP36] = p31 / n.PRCondHot
	x[orcP35] = x[orcP36] / n.PRIHXHot
	x[orcP32] = p33 / n.PRIHXCold
	x[orcP34] = n.PREvaCold * p33
	x[orcP42] = n.PREvaHot * n.PStore
	prc, prh := cbrt(n.PREvaCold), cbrt(n.PREvaHot)
	x[orcP38] = prc * p33
	x[orcP39] = prc * x[orcP38]
	x[orcP48] = prh * n.PStore
	x[orcP49] = prh * x[orcP48]

	s31, err := wf.SHP(x[orcH31], p31)
	if err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	h32s, err := wf.HSP(s31, x[orcP32])
	if err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcH32] = x[orcH31] + (h32s-x[orcH31])/n.EtaPump

	if x[orcH34], err = wf.HTP(t34, x[orcP34]); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	s34, err := wf.SHP(x[orcH34], x[orcP34])
	if err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	h35s, err := wf.HSP(s34, x[orcP35])
	if err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcH35] = x[orcH34] - n.EtaExpander*(x[orcH34]-h35s)

	t32, err := wf.THP(x[orcH32], x[orcP32])
	if err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	if x[orcH36], err = wf.HTP(t32+n.TTDIHX, x[orcP36]); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcH33] = x[orcH32] + (x[orcH35] - x[orcH36])

	if x[orcH41], err = w.HTP(n.TStoreIn, n.PStore); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	if x[orcH42], err = w.HTP(n.TStoreOut, x[orcP42]); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcM31] = n.MStore * (x[orcH41] - x[orcH42]) / (x[orcH34] - x[orcH33])
	if x[orcH38], err = wf.HPQ(x[orcP38], 0.0); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	if x[orcH39], err = wf.HPQ(x[orcP39], 1.0); err != nil {
		return nil, fmt.Errorf("rankine start: %v", err)
	}
	x[orcH49] = x[orcH42] + x[orcM31]*(x[orcH38]-x[orcH33])/n.MStore
	x[orcH48] = x[orcH41] - x[orcM31]*(x[orcH34]-x[orcH39])/n.MStore
	return x, nil
}

func (r *Rankine) solveAt(p33 float64, spec RunSpec) ([]float64, int, error) {
	eqs, err := r.equations(p33, spec)
	if err != nil {
		return nil, 0, err
	}
	x0, err := r.start(p33)
	if err != nil {
		return nil, 0, err
	}
	return solver.Solve(eqs, x0, r.Newton)
}

// pinch is the approach between store water and evaporating working fluid
// at the saturated-liquid section boundary.
func (r *Rankine) pinch(x []float64) (float64, error) {
	t49, err := r.water.THP(x[orcH49], x[orcP49])
	if err != nil {
		return 0, err
	}
	t38, err := r.wf.THP(x[orcH38], x[orcP38])
	if err != nil {
		return 0, err
	}
	return t49 - t38, nil
}

func (r *Rankine) Solve(spec RunSpec) (*Solution, error) {
	search := solver.PinchSearch{
		Start:     r.Params.PDesignStart,
		Target:    spec.TargetPinch,
		Gain:      r.Params.SearchGain,
		Tolerance: 1e-3,
		MaxSteps:  100,
	}
	if search.Start == 0 {
		search.Start = 3 * consts.BAR
	}
	if search.Gain == 0 {
		search.Gain = -6e3
	}

	var x []float64
	var iters int
	p33, steps, err := search.Run(func(p float64) (float64, error) {
		var err error
		x, iters, err = r.solveAt(p, spec)
		if err != nil {
			return 0, err
		}
		return r.pinch(x)
	})
	if err != nil {
		return nil, fmt.Errorf("rankine: %v", err)
	}

	streams, err := r.streams(x, p33)
	if err != nil {
		return nil, fmt.Errorf("rankine: %v", err)
	}
	return &Solution{Streams: streams, Pressure: p33, SearchSteps: steps, NewtonIters: iters}, nil
}

func (r *Rankine) streams(x []float64, p33 float64) (map[int]Stream, error) {
	cfg := r.Params
	nodes := []struct {
		id    int
		h, p  float64
		fluid *props.Fluid
		m     float64
	}{
		{31, x[orcH31], x[orcP31], r.wf, x[orcM31]},
		{32, x[orcH32], x[orcP32], r.wf, x[orcM31]},
		{33, x[orcH33], p33, r.wf, x[orcM31]},
		{34, x[orcH34], x[orcP34], r.wf, x[orcM31]},
		{35, x[orcH35], x[orcP35], r.wf, x[orcM31]},
		{36, x[orcH36], x[orcP36], r.wf, x[orcM31]},
		{38, x[orcH38], x[orcP38], r.wf, x[orcM31]},
		{39, x[orcH39], x[orcP39], r.wf, x[orcM31]},
		{41, x[orcH41], cfg.PStore, r.water, cfg.MStore},
		{42, x[orcH42], x[orcP42], r.water, cfg.MStore},
		{48, x[orcH48], x[orcP48], r.water, cfg.MStore},
		{49, x[orcH49], x[orcP49], r.water, cfg.MStore},
	}

	st := make(map[int]Stream, len(nodes))
	for _, n := range nodes {
		t, err := n.fluid.THP(n.h, n.p)
		if err != nil {
			return nil, fmt.Errorf("node %d: %v", n.id, err)
		}
		s, err := n.fluid.SHP(n.h, n.p)
		if err != nil {
			return nil, fmt.Errorf("node %d: %v", n.id, err)
		}
		st[n.id] = Stream{ID: n.id, Fluid: n.fluid.Name, M: n.m, T: t, P: n.p, H: n.h, S: s}
	}
	return st, nil
}
