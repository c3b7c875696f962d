package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ra165", cfg.HeatPump.WorkingFluid)
	assert.Equal(t, "rb120", cfg.Rankine.WorkingFluid)
	assert.Equal(t, "water", cfg.HeatPump.StoreFluid)
	assert.InDelta(t, 343.15, cfg.HeatPump.TStoreIn, 1e-9)
	assert.InDelta(t, 343.15, cfg.Rankine.TStoreOut, 1e-9)
	assert.InDelta(t, 0.85, cfg.HeatPump.EtaComp, 1e-9)
	assert.InDelta(t, 0.95, cfg.HeatPumpUnavoidable.EtaComp, 1e-9)
	assert.Equal(t, 50, cfg.Solver.MaxIter)
	assert.InDelta(t, 5.0, cfg.Pinch, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")

	cfg := Default()
	cfg.HeatPump.EtaComp = 0.9
	cfg.Pinch = 7.5
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "heat_pump:\n  eta_comp: 0.92\nsolver:\n  max_iter: 25\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.92, cfg.HeatPump.EtaComp, 1e-9)
	assert.Equal(t, 25, cfg.Solver.MaxIter)

	// everything the file does not mention keeps its default
	assert.InDelta(t, 5.0, cfg.HeatPump.TTDCond, 1e-9)
	assert.Equal(t, "ra165", cfg.HeatPump.WorkingFluid)
	assert.InDelta(t, 1e-4, cfg.Solver.Tolerance, 1e-12)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
