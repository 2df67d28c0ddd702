// Package store writes recorded runs as JSON traces and CSV step tables.
package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/san-kum/algostep/internal/engine"
)

type FrameRecord struct {
	Seq      int             `json:"seq"`
	Phase    string          `json:"phase,omitempty"`
	OffsetMS float64         `json:"offset_ms"`
	Snapshot json.RawMessage `json:"snapshot"`
}

type Trace struct {
	Run       string             `json:"run"`
	Algorithm string             `json:"algorithm"`
	Reason    string             `json:"reason"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Payload   json.RawMessage    `json:"payload,omitempty"`
	Frames    []FrameRecord      `json:"frames"`
}

// NewTrace encodes frames and payload. Offsets are measured from the first
// frame.
func NewTrace(h *engine.Handle, seed int64, frames []engine.Frame, payload any, metrics map[string]float64) (*Trace, error) {
	t := &Trace{
		Run:       h.ID(),
		Algorithm: h.Algorithm(),
		Reason:    h.Reason().String(),
		Seed:      seed,
		Steps:     len(frames),
		Metrics:   metrics,
		Frames:    make([]FrameRecord, len(frames)),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		t.Payload = raw
	}

	var origin time.Time
	if len(frames) > 0 {
		origin = frames[0].Time
	}
	for i, f := range frames {
		raw, err := json.Marshal(f.Snapshot)
		if err != nil {
			return nil, err
		}
		t.Frames[i] = FrameRecord{
			Seq:      f.Seq,
			Phase:    f.Phase,
			OffsetMS: float64(f.Time.Sub(origin)) / float64(time.Millisecond),
			Snapshot: raw,
		}
	}
	return t, nil
}

func WriteJSON(w io.Writer, t *Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

func ExportJSON(path string, t *Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(file, t)
}

// writeAndClose returns the close error when the write succeeded.
func writeAndClose(wc io.WriteCloser, t *Trace) error {
	if err := WriteJSON(wc, t); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

func ReadJSON(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteCSV writes one row per frame: seq, phase, offset_ms.
func WriteCSV(w io.Writer, t *Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"seq", "phase", "offset_ms"}); err != nil {
		return err
	}
	for _, f := range t.Frames {
		row := []string{
			strconv.Itoa(f.Seq),
			f.Phase,
			strconv.FormatFloat(f.OffsetMS, 'f', 3, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
