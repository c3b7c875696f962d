// Package cycle assembles the equation systems for the supported cycle
// topologies, owns their unknown-vector layouts and starting values, and
// turns converged vectors into stream tables.
package cycle

import "sort"

// Stream is one row of a cycle's stream table.
type Stream struct {
	ID    int
	Fluid string
	M     float64 // kg/s
	T     float64 // K
	P     float64 // Pa
	H     float64 // J/kg
	S     float64 // J/kgK
}

// RunSpec selects the model variant for one solve. With Adex unset the
// cycle is fully physical. With Adex set, components outside Real are
// replaced by their ideal-limit forms and real turbomachines by the
// exergy-efficiency substitute driven by Epsilon, which the caller takes
// from a prior all-real run.
type RunSpec struct {
	Adex        bool
	Real        map[string]bool
	Epsilon     map[string]float64
	TargetPinch float64 // K
}

func (s RunSpec) real(name string) bool {
	if !s.Adex {
		return true
	}
	return s.Real[name]
}

// Solution is the outcome of one converged design solve.
type Solution struct {
	Streams     map[int]Stream
	Pressure    float64 // converged design pressure (Pa)
	SearchSteps int
	NewtonIters int // iterations of the final trial solve
}

// Cycle is one closed topology the analysis driver can study.
type Cycle interface {
	Name() string
	Components() []string
	// PinchComponent names the component whose idealization removes the
	// pinch constraint.
	PinchComponent() string
	Solve(spec RunSpec) (*Solution, error)
}

// SortedIDs returns the node ids of a stream table in ascending order.
func SortedIDs(streams map[int]Stream) []int {
	ids := make([]int, 0, len(streams))
	for id := range streams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
