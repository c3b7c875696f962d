package props

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaturationLine(t *testing.T) {
	ts, err := RA165.Tsat(RA165.Pref)
	require.NoError(t, err)
	assert.InDelta(t, RA165.Tref, ts, 1e-9)

	// Psat inverts Tsat
	for _, p := range []float64{0.4e5, 1e5, 5e5, 12e5} {
		ts, err := RA165.Tsat(p)
		require.NoError(t, err)
		assert.InEpsilon(t, p, RA165.Psat(ts), 1e-10)
	}

	_, err = RA165.Tsat(-1.0)
	assert.Error(t, err)
}

func TestRegionDispatch(t *testing.T) {
	p := 5e5
	hl, hv, err := RA165.SatH(p)
	require.NoError(t, err)
	require.Less(t, hl, hv)

	cases := []struct {
		h    float64
		want Region
	}{
		{hl - 2e4, Liquid},
		{hl + 0.5*(hv-hl), TwoPhase},
		{hv + 2e4, Vapor},
	}
	for _, c := range cases {
		r, err := RA165.RegionHP(c.h, p)
		require.NoError(t, err)
		assert.Equal(t, c.want, r)
	}

	r, err := Water.RegionHP(5e5, 1e5)
	require.NoError(t, err)
	assert.Equal(t, Liquid, r, "liquid-only fluid never leaves the liquid region")
}

func TestStateRoundTrips(t *testing.T) {
	for _, f := range []*Fluid{RA165, RB120} {
		for _, p := range []float64{0.5e5, 1e5, 3e5, 8e5} {
			hl, hv, err := f.SatH(p)
			require.NoError(t, err)
			for _, h := range []float64{hl - 1.5e4, hl + 0.3*(hv-hl), hv + 3e4} {
				s, err := f.SHP(h, p)
				require.NoError(t, err)
				h2, err := f.HSP(s, p)
				require.NoError(t, err)
				assert.InEpsilon(t, h, h2, 1e-9, "%s h(s(h)) at p=%g", f.Name, p)

				r, err := f.RegionHP(h, p)
				require.NoError(t, err)
				if r != TwoPhase {
					temp, err := f.THP(h, p)
					require.NoError(t, err)
					h3, err := f.HTP(temp, p)
					require.NoError(t, err)
					assert.InEpsilon(t, h, h3, 1e-9, "%s h(T(h)) at p=%g", f.Name, p)
				} else {
					q, err := f.QHP(h, p)
					require.NoError(t, err)
					h4, err := f.HPQ(p, q)
					require.NoError(t, err)
					assert.InEpsilon(t, h, h4, 1e-9, "%s h(q(h)) at p=%g", f.Name, p)
				}
			}
		}
	}
}

func TestQualityOutsideDomeIsNaN(t *testing.T) {
	q, err := RA165.QHP(1e3, 5e5)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(q))
}

func TestSaturationLineAmbiguous(t *testing.T) {
	ts, err := RA165.Tsat(5e5)
	require.NoError(t, err)
	_, err = RA165.HTP(ts, 5e5)
	assert.Error(t, err)
}

// Partials must match central finite differences of their value
// counterparts well inside each region.
func TestPartialsMatchFiniteDifferences(t *testing.T) {
	for _, f := range []*Fluid{RA165, RB120} {
		for _, p := range []float64{0.6e5, 2e5, 7e5} {
			hl, hv, err := f.SatH(p)
			require.NoError(t, err)
			for _, h := range []float64{hl - 2e4, hl + 0.4*(hv-hl), hv + 4e4} {
				checkPartials(t, f, h, p)
			}
		}
	}
	// liquid-only carrier
	checkPartials(t, Water, 3e5, 5e5)
}

func checkPartials(t *testing.T, f *Fluid, h, p float64) {
	t.Helper()
	const dh = 1.0
	dp := p * 1e-6

	fd := func(fn func(h, p float64) (float64, error), dx float64, byH bool) float64 {
		var a, b float64
		var err error
		if byH {
			a, err = fn(h+dx, p)
			require.NoError(t, err)
			b, err = fn(h-dx, p)
		} else {
			a, err = fn(h, p+dx)
			require.NoError(t, err)
			b, err = fn(h, p-dx)
		}
		require.NoError(t, err)
		return (a - b) / (2 * dx)
	}

	dtdh, err := f.DTdH(h, p)
	require.NoError(t, err)
	assert.InDelta(t, fd(f.THP, dh, true), dtdh, 1e-9+1e-5*math.Abs(dtdh), "dT/dh %s h=%g p=%g", f.Name, h, p)

	dsdh, err := f.DSdH(h, p)
	require.NoError(t, err)
	assert.InDelta(t, fd(f.SHP, dh, true), dsdh, 1e-9+1e-5*math.Abs(dsdh), "ds/dh %s h=%g p=%g", f.Name, h, p)

	dtdp, err := f.DTdP(h, p)
	require.NoError(t, err)
	assert.InDelta(t, fd(f.THP, dp, false), dtdp, 1e-12+1e-4*math.Abs(dtdp), "dT/dp %s h=%g p=%g", f.Name, h, p)

	dsdp, err := f.DSdP(h, p)
	require.NoError(t, err)
	assert.InDelta(t, fd(f.SHP, dp, false), dsdp, 1e-12+1e-4*math.Abs(dsdp), "ds/dp %s h=%g p=%g", f.Name, h, p)

	s, err := f.SHP(h, p)
	require.NoError(t, err)
	fdHS := fd(func(_, pp float64) (float64, error) { return f.HSP(s, pp) }, dp, false)
	dhdps, err := f.DHdPS(h, p)
	require.NoError(t, err)
	assert.InDelta(t, fdHS, dhdps, 1e-9+1e-4*math.Abs(dhdps), "dh/dp|s %s h=%g p=%g", f.Name, h, p)

	if !f.LiquidOnly {
		q, err := f.QHP(h, p)
		require.NoError(t, err)
		if !math.IsNaN(q) {
			fdHQ := fd(func(_, pp float64) (float64, error) { return f.HPQ(pp, q) }, dp, false)
			dhdpq, err := f.DHdPQ(p)
			require.NoError(t, err)
			assert.InDelta(t, fdHQ, dhdpq, 1e-9+1e-4*math.Abs(dhdpq), "dh/dp|q %s p=%g", f.Name, p)
		}
	}
}
