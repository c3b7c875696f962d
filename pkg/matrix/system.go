// Package matrix wraps the sparse solver behind the small surface the
// Newton iteration needs: stamp elements, stamp the right-hand side,
// factor and solve.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

type System struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewSystem(size int) (*System, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		Translate:      true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	return &System{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
	}, nil
}

// SetupElements touches every element once so the sparse structure is
// allocated before the first factorization.
func (m *System) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *System) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		fmt.Printf("Warning: Matrix index out of bounds (i=%d, j=%d, size=%d)\n", i, j, m.Size)
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *System) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		fmt.Printf("Warning: RHS index out of bounds (i=%d, size=%d)\n", i, m.Size)
		return
	}
	m.rhs[i] += value
}

// Element reads a stamped coefficient back.
func (m *System) Element(i, j int) float64 {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return 0
	}
	return m.matrix.GetElement(int64(i), int64(j)).Real
}

func (m *System) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// pivotThreshold is the relative pivot threshold for the factorization.
// At 1.0 every accepted pivot dominates its column, so elimination
// multipliers stay bounded by one.
const pivotThreshold = 1.0

// Solve factors the stamped system and solves it against the stamped
// right-hand side. When restamped values no longer support a previously
// chosen pivot ordering, the factorization re-pivots from the failing
// step instead of reusing the stale ordering.
func (m *System) Solve() error {
	if err := m.matrix.OrderAndFactor(nil, pivotThreshold, 0.0, true); err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	var err error
	m.solution, err = m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}
	return nil
}

func (m *System) RHS() []float64 {
	return m.rhs
}

// Solution returns the solve result, 1-based like the stamps.
func (m *System) Solution() []float64 {
	return m.solution
}

func (m *System) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
