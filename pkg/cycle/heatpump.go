package cycle

import (
	"fmt"
	"math"

	"carnot-adex/internal/consts"
	"carnot-adex/pkg/equation"
	"carnot-adex/pkg/props"
	"carnot-adex/pkg/solver"
)

// Heat pump component names.
const (
	HPCompressor = "comp"
	HPCondenser  = "cond"
	HPInternalHX = "ihx"
	HPValve      = "val"
	HPEvaporator = "eva"
)

var HeatPumpComponents = []string{HPCompressor, HPCondenser, HPInternalHX, HPValve, HPEvaporator}

// Unknown-vector layout of the heat pump system. Refrigerant nodes:
// 31 compressor outlet, 32 condenser outlet, 33 IHX hot outlet, 34 valve
// outlet, 35 evaporator outlet, 36 IHX cold outlet (compressor inlet),
// 38/39 condenser section boundaries (saturated vapor / saturated liquid).
// Store water nodes: 21 inlet, 22 outlet, 28/29 the matching section
// boundaries. The condensation pressure at node 32 is the design unknown
// of the outer search and enters the system as a constant.
const (
	hpH36 = iota
	hpH31
	hpP31
	hpH32
	hpM31
	hpPower
	hpH21
	hpH22
	hpH33
	hpH35
	hpP36
	hpP33
	hpH34
	hpP34
	hpP22
	hpP35
	hpH38
	hpH39
	hpH28
	hpH29
	hpP38
	hpP39
	hpP28
	hpP29
	hpUnknowns
)

// HeatPumpParams are the boundary conditions and loss parameters of the
// store-charging heat pump.
type HeatPumpParams struct {
	WorkingFluid string `yaml:"working_fluid"`
	StoreFluid   string `yaml:"store_fluid"`

	TStoreIn  float64 `yaml:"t_store_in"`  // K
	TStoreOut float64 `yaml:"t_store_out"` // K
	PStore    float64 `yaml:"p_store"`     // Pa
	MStore    float64 `yaml:"m_store"`     // kg/s

	TTDCond float64 `yaml:"ttd_cond"` // condenser lower terminal difference (K)
	TTDIHX  float64 `yaml:"ttd_ihx"`  // IHX upper terminal difference (K)
	TTDEva  float64 `yaml:"ttd_eva"`  // evaporator lower terminal difference (K)

	PRCondHot  float64 `yaml:"pr_cond_hot"`
	PRCondCold float64 `yaml:"pr_cond_cold"`
	PRIHXHot   float64 `yaml:"pr_ihx_hot"`
	PRIHXCold  float64 `yaml:"pr_ihx_cold"`
	PREvaCold  float64 `yaml:"pr_eva_cold"`

	EtaComp float64 `yaml:"eta_comp"` // isentropic efficiency

	T0 float64 `yaml:"t0"` // ambient temperature (K)
	P0 float64 `yaml:"p0"` // ambient pressure (Pa)

	PDesignStart float64 `yaml:"p_design_start,omitempty"` // Pa
	SearchGain   float64 `yaml:"search_gain,omitempty"`    // Pa/K

	// Start overrides the constructed starting vector when present.
	Start []float64 `yaml:"start,omitempty,flow"`
}

// DefaultHeatPumpParams is the charging study: store water heated from
// 70 degC to 130 degC at 5 bar and 10 kg/s against a 10 degC ambient.
func DefaultHeatPumpParams() HeatPumpParams {
	return HeatPumpParams{
		WorkingFluid: props.RA165.Name,
		StoreFluid:   props.Water.Name,
		TStoreIn:     70.0 + consts.KELVIN,
		TStoreOut:    130.0 + consts.KELVIN,
		PStore:       5 * consts.BAR,
		MStore:       10.0,
		TTDCond:      5.0,
		TTDIHX:       5.0,
		TTDEva:       5.0,
		PRCondHot:    0.95,
		PRCondCold:   1.0,
		PRIHXHot:     0.985,
		PRIHXCold:    0.985,
		PREvaCold:    0.95,
		EtaComp:      0.85,
		T0:           10.0 + consts.KELVIN,
		P0:           1.013 * consts.BAR,
		PDesignStart: 13 * consts.BAR,
		SearchGain:   1e4,
	}
}

// UnavoidableHeatPumpParams is the technological-limit variant used for
// the avoidable/unavoidable split.
func UnavoidableHeatPumpParams() HeatPumpParams {
	p := DefaultHeatPumpParams()
	p.TTDCond = 0.5
	p.TTDIHX = 0.5
	p.TTDEva = 0.5
	p.PRCondHot = 1.0
	p.PRCondCold = 1.0
	p.PRIHXHot = 1.0
	p.PRIHXCold = 1.0
	p.PREvaCold = 1.0
	p.EtaComp = 0.95
	return p
}

type HeatPump struct {
	Params HeatPumpParams
	Newton solver.Options

	wf, water *props.Fluid
}

func NewHeatPump(params HeatPumpParams) (*HeatPump, error) {
	wf, err := props.Get(params.WorkingFluid)
	if err != nil {
		return nil, fmt.Errorf("heat pump: %v", err)
	}
	water, err := props.Get(params.StoreFluid)
	if err != nil {
		return nil, fmt.Errorf("heat pump: %v", err)
	}
	return &HeatPump{Params: params, Newton: solver.DefaultOptions(), wf: wf, water: water}, nil
}

func (h *HeatPump) Name() string           { return "heat pump" }
func (h *HeatPump) Components() []string   { return HeatPumpComponents }
func (h *HeatPump) PinchComponent() string { return HPCondenser }

// equations builds the 24 equation slots for a trial condensation
// pressure. Variant selection per slot follows the run spec.
func (h *HeatPump) equations(p32 float64, spec RunSpec) ([]equation.Equation, error) {
	cfg := h.Params
	wf, w := h.wf, h.water
	v, c := equation.Var, equation.Const

	prCondHot, prCondCold := 1.0, 1.0
	prIHXHot, prIHXCold, prEvaCold := 1.0, 1.0, 1.0
	ttdCond, ttdIHX, ttdEva := 0.0, 0.0, 0.0
	if spec.real(HPCondenser) {
		prCondHot, prCondCold = cfg.PRCondHot, cfg.PRCondCold
		ttdCond = cfg.TTDCond
	}
	if spec.real(HPInternalHX) {
		prIHXHot, prIHXCold = cfg.PRIHXHot, cfg.PRIHXCold
		ttdIHX = cfg.TTDIHX
	}
	if spec.real(HPEvaporator) {
		prEvaCold = cfg.PREvaCold
		ttdEva = cfg.TTDEva
	}
	prPartHot := cbrt(prCondHot)
	prPartCold := cbrt(prCondCold)

	t32 := cfg.TStoreIn + ttdCond
	t36 := t32 - ttdIHX
	t34 := cfg.T0 - ttdEva

	eqs := make([]equation.Equation, hpUnknowns)

	switch {
	case spec.Adex && !spec.real(HPCompressor):
		eqs[0] = equation.NewExergyEfficiency("comp ideal", wf, 1.0, cfg.T0,
			v(hpH36), v(hpP36), v(hpH31), v(hpP31), false)
	case spec.Adex:
		eps, ok := spec.Epsilon[HPCompressor]
		if !ok {
			return nil, fmt.Errorf("heat pump: no exergy efficiency for %s", HPCompressor)
		}
		eqs[0] = equation.NewExergyEfficiency("comp eps", wf, eps, cfg.T0,
			v(hpH36), v(hpP36), v(hpH31), v(hpP31), false)
	default:
		eqs[0] = equation.NewIsentropicEfficiency("comp eta_s", wf, cfg.EtaComp,
			v(hpH36), v(hpP36), v(hpH31), v(hpP31), false)
	}

	if spec.Adex && !spec.real(HPInternalHX) && !spec.real(HPCondenser) {
		// with condenser and IHX both ideal the cold outlet reaches the
		// hot inlet temperature
		eqs[1] = equation.NewApproachTemperature("ihx ttd0", wf, v(hpH32), c(p32),
			wf, v(hpH36), v(hpP36), 0.0)
	} else {
		eqs[1] = equation.NewTemperaturePin("t36 set", wf, t36, v(hpH36), v(hpP36))
	}

	eqs[2] = equation.NewTemperaturePin("t32 set", wf, t32, v(hpH32), c(p32))
	eqs[3] = equation.NewPressureRatio("p31 set", prCondHot, v(hpP31), c(p32))
	eqs[4] = equation.NewShaftPower("comp power", v(hpPower), v(hpM31), v(hpH36), v(hpH31))

	if spec.Adex && !spec.real(HPCondenser) {
		eqs[5] = equation.NewEntropyBalance("cond s-bal",
			wf, v(hpM31), v(hpH31), v(hpP31), v(hpH32), c(p32),
			w, c(cfg.MStore), v(hpH21), c(cfg.PStore), v(hpH22), v(hpP22))
	} else {
		eqs[5] = equation.NewHeatBalance("cond en-bal",
			v(hpM31), v(hpH31), v(hpH32), c(cfg.MStore), v(hpH21), v(hpH22))
	}

	eqs[6] = equation.NewTemperaturePin("t21 set", w, cfg.TStoreIn, v(hpH21), c(cfg.PStore))
	eqs[7] = equation.NewTemperaturePin("t22 set", w, cfg.TStoreOut, v(hpH22), v(hpP22))

	// IHX hot side 32->33, cold side 35->36
	if spec.Adex && !spec.real(HPInternalHX) {
		eqs[8] = equation.NewRecuperatorEntropy("ihx s-bal", wf,
			v(hpH32), c(p32), v(hpH33), v(hpP33), v(hpH35), v(hpP35), v(hpH36), v(hpP36))
	} else {
		eqs[8] = equation.NewRecuperatorBalance("ihx en-bal", v(hpH32), v(hpH33), v(hpH35), v(hpH36))
	}
	eqs[9] = equation.NewPressureRatio("p36 set", prIHXCold, v(hpP35), v(hpP36))
	eqs[10] = equation.NewPressureRatio("p33 set", prIHXHot, c(p32), v(hpP33))

	if spec.Adex && !spec.real(HPValve) {
		eqs[11] = equation.NewIsentropicThrottle("val s-const", wf,
			v(hpH33), v(hpP33), v(hpH34), v(hpP34))
	} else {
		eqs[11] = equation.NewIsenthalpicThrottle("val h-const", v(hpH33), v(hpH34))
	}

	eqs[12] = equation.NewVaporQuality("x35 set", wf, 1.0, v(hpH35), v(hpP35))
	eqs[13] = equation.NewTemperaturePin("t34 set", wf, t34, v(hpH34), v(hpP34))
	eqs[14] = equation.NewPressureRatio("p22 set", prCondCold, c(cfg.PStore), v(hpP22))
	eqs[15] = equation.NewPressureRatio("p35 set", prEvaCold, v(hpP34), v(hpP35))

	// condenser sections: desuperheater 31->38, condensation 38->39,
	// subcooler 39->32, water boundaries 29 and 28
	eqs[16] = equation.NewVaporQuality("x38 set", wf, 1.0, v(hpH38), v(hpP38))
	eqs[17] = equation.NewHeatBalance("cond sh en-bal",
		v(hpM31), v(hpH31), v(hpH38), c(cfg.MStore), v(hpH29), v(hpH22))
	eqs[18] = equation.NewVaporQuality("x39 set", wf, 0.0, v(hpH39), v(hpP39))
	eqs[19] = equation.NewHeatBalance("cond eco en-bal",
		v(hpM31), v(hpH39), v(hpH32), c(cfg.MStore), v(hpH21), v(hpH28))
	eqs[20] = equation.NewPressureRatio("p38 set", prPartHot, v(hpP31), v(hpP38))
	eqs[21] = equation.NewPressureRatio("p39 set", prPartHot, v(hpP38), v(hpP39))
	eqs[22] = equation.NewPressureRatio("p28 set", prPartCold, c(cfg.PStore), v(hpP28))
	eqs[23] = equation.NewPressureRatio("p29 set", prPartCold, v(hpP28), v(hpP29))

	return eqs, nil
}

// start constructs the starting vector for a trial pressure from the
// nominal design conditions, walking the cycle once with isentropic
// machines and closed energy balances. All idealization runs start from
// the same point.
func (h *HeatPump) start(p32 float64) ([]float64, error) {
	if len(h.Params.Start) == hpUnknowns {
		x := make([]float64, hpUnknowns)
		copy(x, h.Params.Start)
		return x, nil
	}

	n := DefaultHeatPumpParams()
	wf, w := h.wf, h.water
	x := make([]float64, hpUnknowns)

	t32 := n.TStoreIn + n.TTDCond
	t36 := t32 - n.TTDIHX
	t34 := n.T0 - n.TTDEva

	p34 := wf.Psat(t34)
	p35 := n.PREvaCold * p34
	p36 := n.PRIHXCold * p35
	p31 := p32 / n.PRCondHot
	x[hpP31] = p31
	x[hpP36] = p36
	x[hpP34] = p34
	x[hpP35] = p35
	x[hpP33] = n.PRIHXHot * p32
	x[hpP22] = n.PRCondCold * n.PStore
	prc, prcc := cbrt(n.PRCondHot), cbrt(n.PRCondCold)
	x[hpP38] = prc * p31
	x[hpP39] = prc * x[hpP38]
	x[hpP28] = prcc * n.PStore
	x[hpP29] = prcc * x[hpP28]

	h36, err := wf.HTP(t36, p36)
	if err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	x[hpH36] = h36
	s36, err := wf.SHP(h36, p36)
	if err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	h31s, err := wf.HSP(s36, p31)
	if err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	x[hpH31] = h36 + (h31s-h36)/n.EtaComp
	if x[hpH32], err = wf.HTP(t32, p32); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	if x[hpH21], err = w.HTP(n.TStoreIn, n.PStore); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	if x[hpH22], err = w.HTP(n.TStoreOut, x[hpP22]); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	x[hpM31] = n.MStore * (x[hpH22] - x[hpH21]) / (x[hpH31] - x[hpH32])
	x[hpPower] = x[hpM31] * (x[hpH31] - x[hpH36])
	if x[hpH35], err = wf.HPQ(p35, 1.0); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	x[hpH33] = x[hpH32] - (x[hpH36] - x[hpH35])
	x[hpH34] = x[hpH33]
	if x[hpH38], err = wf.HPQ(x[hpP38], 1.0); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	if x[hpH39], err = wf.HPQ(x[hpP39], 0.0); err != nil {
		return nil, fmt.Errorf("heat pump start: %v", err)
	}
	x[hpH29] = x[hpH22] - x[hpM31]*(x[hpH31]-x[hpH38])/n.MStore
	x[hpH28] = x[hpH21] + x[hpM31]*(x[hpH39]-x[hpH32])/n.MStore
	return x, nil
}

func (h *HeatPump) solveAt(p32 float64, spec RunSpec) ([]float64, int, error) {
	eqs, err := h.equations(p32, spec)
	if err != nil {
		return nil, 0, err
	}
	x0, err := h.start(p32)
	if err != nil {
		return nil, 0, err
	}
	return solver.Solve(eqs, x0, h.Newton)
}

// pinch is the approach between condensing refrigerant and store water at
// the saturated-vapor section boundary.
func (h *HeatPump) pinch(x []float64) (float64, error) {
	t38, err := h.wf.THP(x[hpH38], x[hpP38])
	if err != nil {
		return 0, err
	}
	t29, err := h.water.THP(x[hpH29], x[hpP29])
	if err != nil {
		return 0, err
	}
	return t38 - t29, nil
}

// Solve runs the design-pressure search around the Newton core and
// returns the converged stream table.
func (h *HeatPump) Solve(spec RunSpec) (*Solution, error) {
	search := solver.PinchSearch{
		Start:     h.Params.PDesignStart,
		Target:    spec.TargetPinch,
		Gain:      h.Params.SearchGain,
		Tolerance: 1e-3,
		MaxSteps:  100,
	}
	if search.Start == 0 {
		search.Start = 13 * consts.BAR
	}
	if search.Gain == 0 {
		search.Gain = 1e4
	}

	var x []float64
	var iters int
	p32, steps, err := search.Run(func(p float64) (float64, error) {
		var err error
		x, iters, err = h.solveAt(p, spec)
		if err != nil {
			return 0, err
		}
		return h.pinch(x)
	})
	if err != nil {
		return nil, fmt.Errorf("heat pump: %v", err)
	}

	streams, err := h.streams(x, p32)
	if err != nil {
		return nil, fmt.Errorf("heat pump: %v", err)
	}
	return &Solution{Streams: streams, Pressure: p32, SearchSteps: steps, NewtonIters: iters}, nil
}

func (h *HeatPump) streams(x []float64, p32 float64) (map[int]Stream, error) {
	cfg := h.Params
	nodes := []struct {
		id    int
		h, p  float64
		fluid *props.Fluid
		m     float64
	}{
		{31, x[hpH31], x[hpP31], h.wf, x[hpM31]},
		{32, x[hpH32], p32, h.wf, x[hpM31]},
		{33, x[hpH33], x[hpP33], h.wf, x[hpM31]},
		{34, x[hpH34], x[hpP34], h.wf, x[hpM31]},
		{35, x[hpH35], x[hpP35], h.wf, x[hpM31]},
		{36, x[hpH36], x[hpP36], h.wf, x[hpM31]},
		{38, x[hpH38], x[hpP38], h.wf, x[hpM31]},
		{39, x[hpH39], x[hpP39], h.wf, x[hpM31]},
		{21, x[hpH21], cfg.PStore, h.water, cfg.MStore},
		{22, x[hpH22], x[hpP22], h.water, cfg.MStore},
		{28, x[hpH28], x[hpP28], h.water, cfg.MStore},
		{29, x[hpH29], x[hpP29], h.water, cfg.MStore},
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

// cbrt splits an overall pressure-drop ratio evenly over the three
// exchanger sections.
func cbrt(v float64) float64 {
	return math.Cbrt(v)
}
