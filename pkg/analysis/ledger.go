package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LedgerEntry splits one component's exergy destruction into the part
// caused by its own irreversibility alone (endogenous), the part induced
// by the rest of the plant (exogenous), the binary-interaction shares per
// partner, and the remainder (mexogenous).
type LedgerEntry struct {
	Component string
	ED        float64 // destruction in the all-real run
	EN        float64 // endogenous part
	EX        float64 // exogenous part, ED - EN by construction
	ExSplit   map[string]float64
	Mexo      float64
}

// Ledger assembles the endogenous/exogenous/mexogenous decomposition from
// a completed suite.
func (r *Result) Ledger() (map[string]*LedgerEntry, error) {
	led := make(map[string]*LedgerEntry, len(r.Components))
	allReal, ok := r.Runs[RealLabel]
	if !ok {
		return nil, fmt.Errorf("ledger: suite lacks the all-real run")
	}
	for _, k := range r.Components {
		single, ok := r.Runs[k]
		if !ok {
			return nil, fmt.Errorf("ledger: suite lacks the %q singleton run", k)
		}
		ed := allReal.Balance.Destruction[k]
		en := single.Balance.Destruction[k]
		ex := ed - en

		split := make(map[string]float64, len(r.Components)-1)
		sum := 0.0
		for _, l := range r.Components {
			if l == k {
				continue
			}
			pair, ok := r.Runs[Label(r.Components, []string{k, l})]
			if !ok {
				return nil, fmt.Errorf("ledger: suite lacks the {%s,%s} pair run", k, l)
			}
			part := pair.Balance.Destruction[k] - en
			split[l] = part
			sum += part
		}

		led[k] = &LedgerEntry{
			Component: k,
			ED:        ed,
			EN:        en,
			EX:        ex,
			ExSplit:   split,
			Mexo:      ex - sum,
		}
	}
	return led, nil
}

// AvoidableEntry splits a component's destruction against the
// technological-limit parameter set.
type AvoidableEntry struct {
	Component string
	ED        float64
	EDUn      float64 // destruction under the unavoidable parameter set
	EDAv      float64 // ED - EDUn
	EDEnAv    float64 // avoidable share of the endogenous part
	EDExAv    float64 // avoidable share of the exogenous part
}

// Avoidable combines the suites of the nominal and the unavoidable
// parameter sets.
func Avoidable(base, unavoid *Result) (map[string]*AvoidableEntry, error) {
	baseLed, err := base.Ledger()
	if err != nil {
		return nil, err
	}
	unLed, err := unavoid.Ledger()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*AvoidableEntry, len(base.Components))
	for _, k := range base.Components {
		ed := baseLed[k].ED
		edUn := unLed[k].ED
		enAv := baseLed[k].EN - unLed[k].EN
		edAv := ed - edUn
		out[k] = &AvoidableEntry{
			Component: k,
			ED:        ed,
			EDUn:      edUn,
			EDAv:      edAv,
			EDEnAv:    enAv,
			EDExAv:    edAv - enAv,
		}
	}
	return out, nil
}

// WriteLedger dumps a ledger as CSV keyed by (component, partner). The
// totals row of each component has an empty partner column; partner rows
// carry the binary-interaction share.
func WriteLedger(w io.Writer, r *Result) error {
	led, err := r.Ledger()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component", "partner", "ed", "ed_en", "ed_ex", "ed_mexo"}); err != nil {
		return fmt.Errorf("ledger: %v", err)
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, k := range r.Components {
		e := led[k]
		if err := cw.Write([]string{k, "", g(e.ED), g(e.EN), g(e.EX), g(e.Mexo)}); err != nil {
			return fmt.Errorf("ledger: %v", err)
		}
		for _, l := range r.Components {
			if l == k {
				continue
			}
			if err := cw.Write([]string{k, l, "", "", g(e.ExSplit[l]), ""}); err != nil {
				return fmt.Errorf("ledger: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
