package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/sorting"
)

func sampleFrames() []engine.Frame {
	t0 := time.Unix(1000, 0)
	return []engine.Frame{
		{Seq: 1, Phase: "sort", Time: t0, Snapshot: sorting.Snapshot{Values: []int{3, 5}, Comparing: []int{0, 1}}},
		{Seq: 2, Phase: "sort", Time: t0.Add(250 * time.Millisecond), Snapshot: sorting.Snapshot{Values: []int{3, 5}, Sorted: []int{0, 1}}},
	}
}

func TestTraceRoundTrip(t *testing.T) {
	h := engine.Finished("bubble", engine.ReasonCompleted)
	tr, err := NewTrace(h, 7, sampleFrames(), []int{0, 1}, map[string]float64{"steps": 2})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "trace.json")
	if err := ExportJSON(path, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadJSON(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Algorithm != "bubble" || got.Reason != "completed" || got.Seed != 7 {
		t.Errorf("header = %+v", got)
	}
	if got.Steps != 2 || len(got.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got.Frames))
	}
	if got.Frames[1].OffsetMS != 250 {
		t.Errorf("offset = %v", got.Frames[1].OffsetMS)
	}

	var snap sorting.Snapshot
	if err := json.Unmarshal(got.Frames[0].Snapshot, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Comparing) != 2 || snap.Comparing[1] != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	var payload []int
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload) != 2 || payload[0] != 0 || payload[1] != 1 {
		t.Errorf("expected payload [0 1], got %v", payload)
	}
}

func TestTraceWithoutPayload(t *testing.T) {
	h := engine.Finished("bfs", engine.ReasonExhausted)
	tr, err := NewTrace(h, 0, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, tr); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "payload") {
		t.Errorf("nil payload serialised: %s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	tr, err := NewTrace(engine.Finished("bubble", engine.ReasonCompleted), 0, sampleFrames(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tr); err != nil {
		t.Fatal(err)
	}
	want := "seq,phase,offset_ms\n1,sort,0.000\n2,sort,250.000\n"
	if buf.String() != want {
		t.Errorf("csv = %q", buf.String())
	}
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestExportReportsCloseError(t *testing.T) {
	tr, err := NewTrace(engine.Finished("bubble", engine.ReasonCompleted), 0, sampleFrames(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	diskFull := errors.New("no space left on device")
	w := &failingCloser{err: diskFull}
	if err := writeAndClose(w, tr); !errors.Is(err, diskFull) {
		t.Errorf("expected close error, got %v", err)
	}
	if w.Len() == 0 {
		t.Error("expected trace to be written before close")
	}

	if err := writeAndClose(&failingCloser{}, tr); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
