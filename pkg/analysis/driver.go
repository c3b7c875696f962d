// Package analysis enumerates component idealization sets, drives the
// solve/post-process pipeline per set, and assembles the decomposition
// ledgers of the exergy destruction.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"carnot-adex/pkg/cycle"
	"carnot-adex/pkg/exergy"
)

// Labels of the two distinguished runs.
const (
	RealLabel  = "real"
	IdealLabel = "ideal"
)

// PostProcess maps a converged stream table to its exergy balance.
type PostProcess func(streams map[int]cycle.Stream, amb exergy.Ambient) (*exergy.Balance, error)

// Run is one solved configuration.
type Run struct {
	Label       string
	Real        []string
	Pressure    float64
	SearchSteps int
	Streams     map[int]cycle.Stream
	Balance     *exergy.Balance
}

// Suite drives the full decomposition study for one cycle: the all-real
// run first (it supplies the exergy-efficiency record), then the
// all-ideal, singleton and pair runs.
type Suite struct {
	Cycle    cycle.Cycle
	Post     PostProcess
	Ambient  exergy.Ambient
	Pinch    float64 // design pinch target (K) while the pinch exchanger stays real
	Parallel bool
}

func NewHeatPumpSuite(params cycle.HeatPumpParams) (*Suite, error) {
	hp, err := cycle.NewHeatPump(params)
	if err != nil {
		return nil, err
	}
	return &Suite{
		Cycle:   hp,
		Post:    exergy.HeatPump,
		Ambient: exergy.Ambient{T0: params.T0, P0: params.P0},
		Pinch:   5.0,
	}, nil
}

func NewRankineSuite(params cycle.RankineParams) (*Suite, error) {
	orc, err := cycle.NewRankine(params)
	if err != nil {
		return nil, err
	}
	return &Suite{
		Cycle:   orc,
		Post:    exergy.Rankine,
		Ambient: exergy.Ambient{T0: params.T0, P0: params.P0},
		Pinch:   5.0,
	}, nil
}

// Result holds all runs of one suite, keyed by label.
type Result struct {
	Components []string
	Runs       map[string]*Run
	Order      []string
}

// Label names an idealization set: "real", "ideal", or the real components
// joined by underscores in component order.
func Label(components, real []string) string {
	if len(real) == 0 {
		return IdealLabel
	}
	if len(real) == len(components) {
		return RealLabel
	}
	set := make(map[string]bool, len(real))
	for _, k := range real {
		set[k] = true
	}
	var kept []string
	for _, k := range components {
		if set[k] {
			kept = append(kept, k)
		}
	}
	return strings.Join(kept, "_")
}

// Configurations enumerates the idealization sets of the decomposition:
// all-real, all-ideal, every singleton, every pair.
func Configurations(components []string) [][]string {
	out := [][]string{append([]string(nil), components...), {}}
	for _, k := range components {
		out = append(out, []string{k})
	}
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			out = append(out, []string{components[i], components[j]})
		}
	}
	return out
}

func (s *Suite) solveOne(realSet []string, eps map[string]float64) (*Run, error) {
	label := Label(s.Cycle.Components(), realSet)

	spec := cycle.RunSpec{TargetPinch: s.Pinch}
	if label != RealLabel {
		set := make(map[string]bool, len(realSet))
		pinchReal := false
		for _, k := range realSet {
			set[k] = true
			if k == s.Cycle.PinchComponent() {
				pinchReal = true
			}
		}
		spec = cycle.RunSpec{Adex: true, Real: set, Epsilon: eps, TargetPinch: 0}
		if pinchReal {
			spec.TargetPinch = s.Pinch
		}
	}

	sol, err := s.Cycle.Solve(spec)
	if err != nil {
		return nil, fmt.Errorf("%s run %q: %v", s.Cycle.Name(), label, err)
	}
	bal, err := s.Post(sol.Streams, s.Ambient)
	if err != nil {
		return nil, fmt.Errorf("%s run %q: %v", s.Cycle.Name(), label, err)
	}
	return &Run{
		Label:       label,
		Real:        realSet,
		Pressure:    sol.Pressure,
		SearchSteps: sol.SearchSteps,
		Streams:     sol.Streams,
		Balance:     bal,
	}, nil
}

// Run executes the suite. The all-real run always goes first; the
// remaining runs are independent and execute concurrently when Parallel
// is set.
func (s *Suite) Run(ctx context.Context) (*Result, error) {
	components := s.Cycle.Components()
	configs := Configurations(components)

	realRun, err := s.solveOne(configs[0], nil)
	if err != nil {
		return nil, err
	}
	eps := realRun.Balance.Epsilon

	rest := configs[1:]
	runs := make([]*Run, len(rest))
	g, ctx := errgroup.WithContext(ctx)
	for i, realSet := range rest {
		do := func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := s.solveOne(realSet, eps)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		}
		if s.Parallel {
			g.Go(do)
		} else if err := do(); err != nil {
			return nil, err
		}
	}
	if s.Parallel {
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Components: components,
		Runs:       map[string]*Run{RealLabel: realRun},
		Order:      []string{RealLabel},
	}
	for _, run := range runs {
		result.Runs[run.Label] = run
		result.Order = append(result.Order, run.Label)
	}
	return result, nil
}
