// Package solver drives the cycle equation systems to convergence: a
// damped-free Newton-Raphson core over the sparse Jacobian, plus the outer
// design-pressure search.
package solver

import (
	"errors"
	"fmt"
	"math"

	"carnot-adex/pkg/equation"
	"carnot-adex/pkg/matrix"
)

var ErrNoConvergence = errors.New("no convergence")

type Options struct {
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"` // on the Euclidean residual norm
}

func DefaultOptions() Options {
	return Options{MaxIter: 50, Tolerance: 1e-4}
}

// Solve iterates x -= J^-1 r until the residual norm drops below the
// tolerance. It returns the converged vector and the number of iterations
// taken. The starting vector is not modified.
func Solve(eqs []equation.Equation, x0 []float64, opt Options) ([]float64, int, error) {
	n := len(eqs)
	if len(x0) != n {
		return nil, 0, fmt.Errorf("newton: %d equations for %d unknowns", n, len(x0))
	}
	if opt.MaxIter <= 0 {
		opt = DefaultOptions()
	}

	jac, err := matrix.NewSystem(n)
	if err != nil {
		return nil, 0, fmt.Errorf("newton: %v", err)
	}
	defer jac.Destroy()
	jac.SetupElements()

	x := make([]float64, n)
	copy(x, x0)
	residual := make([]float64, n)

	var norm float64
	for iter := 0; iter < opt.MaxIter; iter++ {
		jac.Clear()
		norm = 0
		for i, eq := range eqs {
			r, err := eq.Eval(x, jac, i)
			if err != nil {
				return nil, iter, fmt.Errorf("newton: %v", err)
			}
			residual[i] = r
			norm += r * r
		}
		norm = math.Sqrt(norm)
		if norm < opt.Tolerance {
			return x, iter, nil
		}

		for i, r := range residual {
			jac.AddRHS(i+1, r)
		}
		if err := jac.Solve(); err != nil {
			return nil, iter, fmt.Errorf("newton: iteration %d: %v", iter, err)
		}
		dx := jac.Solution()
		for i := range x {
			x[i] -= dx[i+1]
		}
	}
	return nil, opt.MaxIter, fmt.Errorf("newton: %w after %d iterations (residual %g)",
		ErrNoConvergence, opt.MaxIter, norm)
}
