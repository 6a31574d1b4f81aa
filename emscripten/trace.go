package emscripten

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/jszwec/csvutil"
)

// A TraceEvent records one dispatched syscall.
type TraceEvent struct {
	Seq    int    `csv:"seq" json:"seq"`
	Num    int32  `csv:"syscall" json:"syscall"`
	Name   string `csv:"name" json:"name"`
	Ret    int32  `csv:"ret" json:"ret"`
	Micros int64  `csv:"micros" json:"micros"`
}

// A Tracer accumulates a per-context syscall trace. Attach one via
// Options.Tracer. A Tracer is not safe for concurrent use; like the Env it is
// attached to, it belongs to a single execution context.
type Tracer struct {
	events []TraceEvent
}

func (t *Tracer) record(num int32, name string, ret int32, d time.Duration) {
	t.events = append(t.events, TraceEvent{
		Seq:    len(t.events),
		Num:    num,
		Name:   name,
		Ret:    ret,
		Micros: d.Microseconds(),
	})
}

// Events returns the recorded events in dispatch order.
func (t *Tracer) Events() []TraceEvent {
	return t.events
}

// WriteCSV writes the trace as CSV with a header row.
func (t *Tracer) WriteCSV(w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	encoder := csvutil.NewEncoder(csvWriter)
	for _, event := range t.events {
		if err := encoder.Encode(event); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteJSON writes the trace as a JSON array.
func (t *Tracer) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	return encoder.Encode(t.events)
}

// ReadTrace decodes a JSON trace previously written with WriteJSON.
func ReadTrace(r io.Reader) ([]TraceEvent, error) {
	var events []TraceEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// WriteTraceCSV writes the given events as CSV with a header row.
func WriteTraceCSV(w io.Writer, events []TraceEvent) error {
	t := Tracer{events: events}
	return t.WriteCSV(w)
}
