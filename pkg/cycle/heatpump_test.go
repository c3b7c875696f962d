package cycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnot-adex/pkg/solver"
)

func solveHeatPump(t *testing.T, params HeatPumpParams) *Solution {
	t.Helper()
	hp, err := NewHeatPump(params)
	require.NoError(t, err)
	sol, err := hp.Solve(RunSpec{TargetPinch: 5.0})
	require.NoError(t, err)
	return sol
}

func TestHeatPumpDesignPoint(t *testing.T) {
	sol := solveHeatPump(t, DefaultHeatPumpParams())

	assert.InDelta(t, 870622.94, sol.Pressure, 50.0, "condensation pressure")
	assert.Less(t, sol.SearchSteps, 50)
	assert.Greater(t, sol.SearchSteps, 1)

	st := sol.Streams
	require.Len(t, st, 12)

	// pinch sits at the saturated-vapor boundary of the condenser
	assert.InDelta(t, 5.0, st[38].T-st[29].T, 2e-3)

	assert.InDelta(t, 10.2325, st[31].M, 5e-3, "refrigerant mass flow")
	assert.InDelta(t, 511.011, st[31].T, 0.02, "compressor outlet")
	assert.InDelta(t, 348.15, st[32].T, 1e-3, "condenser outlet hits its pin")
	assert.InDelta(t, 286.988, st[33].T, 0.02, "IHX hot outlet")
	assert.InDelta(t, 278.15, st[34].T, 1e-3, "evaporator inlet hits its pin")
	assert.InDelta(t, 916445.2, st[31].P, 60.0, "compressor outlet pressure")

	// store water duty is fixed by its two temperature pins
	qCond := st[21].M * (st[22].H - st[21].H)
	assert.InDelta(t, 2.508e6, qCond, 20.0)

	power := st[31].M * (st[31].H - st[36].H)
	assert.InDelta(t, 881239.2, power, 50.0, "compressor power")
	assert.InDelta(t, 2.845992, qCond/power, 5e-4, "COP")
}

func TestHeatPumpValveIsIsenthalpic(t *testing.T) {
	st := solveHeatPump(t, DefaultHeatPumpParams()).Streams
	assert.InDelta(t, st[33].H, st[34].H, 1e-3)
	// the throttle generates entropy
	assert.Greater(t, st[34].S, st[33].S)
}

func TestHeatPumpCOPImprovesWithCompressorEfficiency(t *testing.T) {
	cop := func(eta float64) float64 {
		p := DefaultHeatPumpParams()
		p.EtaComp = eta
		st := solveHeatPump(t, p).Streams
		qCond := st[21].M * (st[22].H - st[21].H)
		return qCond / (st[31].M * (st[31].H - st[36].H))
	}

	c85 := cop(0.85)
	c90 := cop(0.90)
	c95 := cop(0.95)
	assert.InDelta(t, 2.845992, c85, 5e-4)
	assert.InDelta(t, 2.941457, c90, 5e-4)
	assert.InDelta(t, 3.036504, c95, 5e-4)
	assert.Less(t, c85, c90)
	assert.Less(t, c90, c95)
}

func TestHeatPumpSolveIsIdempotent(t *testing.T) {
	hp, err := NewHeatPump(DefaultHeatPumpParams())
	require.NoError(t, err)

	spec := RunSpec{TargetPinch: 5.0}
	const p32 = 870622.94
	x, _, err := hp.solveAt(p32, spec)
	require.NoError(t, err)

	// restarting the Newton core from the converged vector must not move
	eqs, err := hp.equations(p32, spec)
	require.NoError(t, err)
	_, iters, err := solver.Solve(eqs, x, hp.Newton)
	require.NoError(t, err)
	assert.Equal(t, 0, iters)
}

func TestHeatPumpConvergesFromCoarseStart(t *testing.T) {
	hp, err := NewHeatPump(DefaultHeatPumpParams())
	require.NoError(t, err)

	spec := RunSpec{TargetPinch: 5.0}
	const p32 = 870622.94
	x, _, err := hp.solveAt(p32, spec)
	require.NoError(t, err)

	// round the converged vector to three significant figures
	coarse := make([]float64, len(x))
	for i, v := range x {
		if v == 0 {
			continue
		}
		scale := math.Pow(10, math.Floor(math.Log10(math.Abs(v)))-2)
		coarse[i] = math.Round(v/scale) * scale
	}
	hp.Params.Start = coarse

	_, iters, err := hp.solveAt(p32, spec)
	require.NoError(t, err)
	assert.LessOrEqual(t, iters, 4, "quadratic convergence from a nearby start")
}

func TestHeatPumpRejectsUnknownFluid(t *testing.T) {
	p := DefaultHeatPumpParams()
	p.WorkingFluid = "r404z"
	_, err := NewHeatPump(p)
	assert.Error(t, err)
}

func TestHeatPumpAdexNeedsEpsilon(t *testing.T) {
	hp, err := NewHeatPump(DefaultHeatPumpParams())
	require.NoError(t, err)

	// compressor kept real in an idealization run but no efficiency given
	_, err = hp.equations(13e5, RunSpec{
		Adex: true,
		Real: map[string]bool{HPCompressor: true},
	})
	assert.Error(t, err)
}
