package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	for _, name := range []string{"ra165", "rb120", "water"} {
		f, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name)
	}

	_, err := Get("r1234yf")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	custom := &Fluid{Name: "test-fluid", Cpl: 1000, Cpv: 900, R: 100, L: 200e3,
		Tref: 300.0, Pref: 1e5, Vl: 0.001, Tbase: 273.15}
	Register(custom)
	defer delete(registry, custom.Name)

	f, err := Get("test-fluid")
	require.NoError(t, err)
	assert.Same(t, custom, f)
}

func TestEvaluateDispatcher(t *testing.T) {
	// T from (H, P) agrees with the direct call
	h, err := RA165.HTP(400.0, 5e5)
	require.NoError(t, err)
	temp, err := Evaluate(T, H, h, P, 5e5, "ra165")
	require.NoError(t, err)
	assert.InDelta(t, 400.0, temp, 1e-9)

	// argument order of the pair does not matter
	temp2, err := Evaluate(T, P, 5e5, H, h, "ra165")
	require.NoError(t, err)
	assert.Equal(t, temp, temp2)

	// H from (Q, P) hits the dome
	hv, err := RA165.HPQ(5e5, 1.0)
	require.NoError(t, err)
	got, err := Evaluate(H, Q, 1.0, P, 5e5, "ra165")
	require.NoError(t, err)
	assert.InDelta(t, hv, got, 1e-9)

	// S from (T, P) round trips through H
	s, err := Evaluate(S, T, 400.0, P, 5e5, "ra165")
	require.NoError(t, err)
	sDirect, err := RA165.SHP(h, 5e5)
	require.NoError(t, err)
	assert.InDelta(t, sDirect, s, 1e-12)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(T, H, 1e5, P, 5e5, "nope")
	assert.Error(t, err)

	// a pair without pressure is not supported
	_, err = RA165.Props(S, T, 400.0, H, 3e5)
	assert.Error(t, err)

	// nor are two pressures
	_, err = RA165.Props(S, P, 1e5, P, 5e5)
	assert.Error(t, err)
}
