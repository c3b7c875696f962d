package props

import "fmt"

// Quantity names an input or output of the property dispatcher.
type Quantity int

const (
	T Quantity = iota
	P
	H
	S
	Q
	DTDH  // dT/dh at constant p
	DTDP  // dT/dp at constant h
	DSDH  // ds/dh at constant p
	DSDP  // ds/dp at constant h
	DHDPS // dh/dp at constant s
	DHDPQ // dh/dp at constant vapor quality
)

func (q Quantity) String() string {
	switch q {
	case T:
		return "T"
	case P:
		return "P"
	case H:
		return "H"
	case S:
		return "S"
	case Q:
		return "Q"
	case DTDH:
		return "dT/dH|P"
	case DTDP:
		return "dT/dP|H"
	case DSDH:
		return "dS/dH|P"
	case DSDP:
		return "dS/dP|H"
	case DHDPS:
		return "dH/dP|S"
	case DHDPQ:
		return "dH/dP|Q"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// Props evaluates an output quantity from an input pair. One input must be
// the pressure; the other one of H, Q, S or T.
func (f *Fluid) Props(out, in1 Quantity, v1 float64, in2 Quantity, v2 float64) (float64, error) {
	var p, other float64
	var name Quantity
	switch {
	case in1 == P:
		p, name, other = v1, in2, v2
	case in2 == P:
		p, name, other = v2, in1, v1
	default:
		return 0, fmt.Errorf("%s: input pair (%v,%v) lacks pressure", f.Name, in1, in2)
	}

	var h float64
	var err error
	switch name {
	case H:
		h = other
	case Q:
		h, err = f.HPQ(p, other)
	case S:
		h, err = f.HSP(other, p)
	case T:
		h, err = f.HTP(other, p)
	default:
		return 0, fmt.Errorf("%s: unsupported input pair (%v,P)", f.Name, name)
	}
	if err != nil {
		return 0, err
	}

	switch out {
	case T:
		return f.THP(h, p)
	case H:
		return h, nil
	case S:
		return f.SHP(h, p)
	case Q:
		return f.QHP(h, p)
	case DTDH:
		return f.DTdH(h, p)
	case DTDP:
		return f.DTdP(h, p)
	case DSDH:
		return f.DSdH(h, p)
	case DSDP:
		return f.DSdP(h, p)
	case DHDPS:
		return f.DHdPS(h, p)
	case DHDPQ:
		return f.DHdPQ(p)
	}
	return 0, fmt.Errorf("%s: unsupported output quantity %v", f.Name, out)
}
