package exergy_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnot-adex/pkg/cycle"
	"carnot-adex/pkg/exergy"
)

func ambientOf(t0, p0 float64) exergy.Ambient {
	return exergy.Ambient{T0: t0, P0: p0}
}

func solvedHeatPump(t *testing.T) (map[int]cycle.Stream, exergy.Ambient) {
	t.Helper()
	params := cycle.DefaultHeatPumpParams()
	hp, err := cycle.NewHeatPump(params)
	require.NoError(t, err)
	sol, err := hp.Solve(cycle.RunSpec{TargetPinch: 5.0})
	require.NoError(t, err)
	return sol.Streams, ambientOf(params.T0, params.P0)
}

func solvedRankine(t *testing.T) (map[int]cycle.Stream, exergy.Ambient) {
	t.Helper()
	params := cycle.DefaultRankineParams()
	orc, err := cycle.NewRankine(params)
	require.NoError(t, err)
	sol, err := orc.Solve(cycle.RunSpec{TargetPinch: 5.0})
	require.NoError(t, err)
	return sol.Streams, ambientOf(params.T0, params.P0)
}

func TestHeatPumpBalance(t *testing.T) {
	st, amb := solvedHeatPump(t)
	bal, err := exergy.HeatPump(st, amb)
	require.NoError(t, err)

	wantED := map[string]float64{
		cycle.HPCompressor: 75243.19,
		cycle.HPCondenser:  149519.63,
		cycle.HPInternalHX: 9838.57,
		cycle.HPValve:      8432.99,
		cycle.HPEvaporator: 37416.89,
	}
	for k, want := range wantED {
		assert.InDelta(t, want, bal.Destruction[k], 5.0, "ED %s", k)
	}

	assert.InDelta(t, 0.914617, bal.Epsilon[cycle.HPCompressor], 2e-4)
	assert.InDelta(t, 0.800722, bal.Epsilon[cycle.HPCondenser], 2e-4)
	assert.InDelta(t, 0.714742, bal.Epsilon[cycle.HPInternalHX], 2e-4)
	assert.True(t, math.IsNaN(bal.Epsilon[cycle.HPValve]), "valve has no fuel")
	assert.True(t, math.IsNaN(bal.Epsilon[cycle.HPEvaporator]), "evaporator has no fuel")

	assert.InDelta(t, 2.845992, bal.Merit, 5e-4, "COP")
	assert.InDelta(t, 881239.2, bal.Power, 50.0)
	assert.InDelta(t, 2.508e6, bal.HeatOut, 20.0)
	assert.InDelta(t, bal.Power+bal.HeatIn, bal.HeatOut, 1e-3, "first law over the loop")
	assert.InDelta(t, 0.0, bal.Residual, 1e-6, "energy closure")
}

func TestRankineBalance(t *testing.T) {
	st, amb := solvedRankine(t)
	bal, err := exergy.Rankine(st, amb)
	require.NoError(t, err)

	wantED := map[string]float64{
		cycle.ORCPump:       431.36,
		cycle.ORCEvaporator: 177034.55,
		cycle.ORCInternalHX: 7267.70,
		cycle.ORCExpander:   49080.23,
		cycle.ORCCondenser:  54123.60,
	}
	for k, want := range wantED {
		assert.InDelta(t, want, bal.Destruction[k], 5.0, "ED %s", k)
	}

	assert.InDelta(t, 0.852628, bal.Epsilon[cycle.ORCPump], 2e-4)
	assert.InDelta(t, 0.705329, bal.Epsilon[cycle.ORCEvaporator], 2e-4)
	assert.InDelta(t, 0.865481, bal.Epsilon[cycle.ORCExpander], 2e-4)
	assert.InDelta(t, 0.592830, bal.Epsilon[cycle.ORCInternalHX], 2e-4)
	assert.True(t, math.IsNaN(bal.Epsilon[cycle.ORCCondenser]), "condenser has no fuel")

	assert.InDelta(t, 0.124741, bal.Merit, 5e-4, "net thermal efficiency")
	assert.InDelta(t, 312850.5, bal.Power, 60.0)
	assert.InDelta(t, 2.508e6, bal.HeatIn, 20.0)
	assert.InDelta(t, 0.0, bal.Residual, 1e-6, "energy closure")
}

// A stream table that went through the CSV dump must yield the same
// balance as the in-memory one.
func TestBalanceSurvivesStreamTableRoundTrip(t *testing.T) {
	st, amb := solvedHeatPump(t)
	direct, err := exergy.HeatPump(st, amb)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cycle.WriteStreams(&buf, st))
	back, err := cycle.ReadStreams(&buf)
	require.NoError(t, err)

	replayed, err := exergy.HeatPump(back, amb)
	require.NoError(t, err)
	for k, want := range direct.Destruction {
		assert.InDelta(t, want, replayed.Destruction[k], 1e-9, "ED %s", k)
	}
	assert.InDelta(t, direct.Merit, replayed.Merit, 1e-12)
}

func TestBalanceRejectsUnknownFluid(t *testing.T) {
	st, amb := solvedHeatPump(t)
	bad := st[31]
	bad.Fluid = "mystery"
	st[31] = bad
	_, err := exergy.HeatPump(st, amb)
	assert.Error(t, err)
}
