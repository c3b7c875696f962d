// Package equation is the catalog of residual relations the cycle models
// are assembled from. Every relation evaluates its residual and stamps its
// analytic Jacobian row in one pass, the same contract a circuit device
// uses when stamping companion-model conductances.
package equation

import "carnot-adex/pkg/matrix"

// Ref binds an equation argument either to a position in the global
// unknown vector or to an inline constant.
type Ref struct {
	index   int
	value   float64
	isConst bool
}

func Var(i int) Ref         { return Ref{index: i} }
func Const(v float64) Ref   { return Ref{value: v, isConst: true} }
func (r Ref) IsConst() bool { return r.isConst }

func (r Ref) Value(x []float64) float64 {
	if r.isConst {
		return r.value
	}
	return x[r.index]
}

// Equation evaluates a residual at x and stamps the partial derivatives of
// the residual into the given Jacobian row. Rows and unknown indices are
// zero-based here; the matrix itself is one-based.
type Equation interface {
	Label() string
	Eval(x []float64, jac *matrix.System, row int) (float64, error)
}

func stamp(jac *matrix.System, row int, r Ref, v float64) {
	if r.isConst || jac == nil {
		return
	}
	jac.AddElement(row+1, r.index+1, v)
}
