package cycle

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var streamHeader = []string{"node", "fluid", "m", "T", "p", "h", "s"}

// WriteStreams dumps a stream table as CSV at full float precision, one
// row per node in ascending id order.
func WriteStreams(w io.Writer, streams map[int]Stream) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(streamHeader); err != nil {
		return fmt.Errorf("stream table: %v", err)
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, id := range SortedIDs(streams) {
		s := streams[id]
		row := []string{strconv.Itoa(s.ID), s.Fluid, g(s.M), g(s.T), g(s.P), g(s.H), g(s.S)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("stream table: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadStreams parses a stream table written by WriteStreams.
func ReadStreams(r io.Reader) (map[int]Stream, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stream table: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("stream table: empty input")
	}
	if len(records[0]) != len(streamHeader) || records[0][0] != streamHeader[0] {
		return nil, fmt.Errorf("stream table: unexpected header %v", records[0])
	}

	streams := make(map[int]Stream, len(records)-1)
	for _, rec := range records[1:] {
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("stream table: bad node id %q", rec[0])
		}
		vals := make([]float64, 5)
		for i, field := range rec[2:] {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("stream table node %d: %v", id, err)
			}
		}
		streams[id] = Stream{ID: id, Fluid: rec[1], M: vals[0], T: vals[1], P: vals[2], H: vals[3], S: vals[4]}
	}
	return streams, nil
}
