package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/contnet/internal/tensor"
)

func sampleTrajectory() Trajectory {
	return Trajectory{
		Times: []float64{0, 0.5, 1},
		States: []tensor.Tensor{
			tensor.MustNew([]int{2, 2}, []float64{1, 2, 3, 4}),
			tensor.MustNew([]int{2, 2}, []float64{0.5, 1, 1.5, 2}),
			tensor.MustNew([]int{2, 2}, []float64{0.1, 1.0 / 3, -2e-9, 4}),
		},
	}
}

// exerciseStore runs the shared contract against any backend.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	if err := st.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	older := RunMetadata{
		Model:     "decay",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Seed:      42,
		Scheme:    "RK4",
		NStep:     2,
		Metrics:   map[string]float64{"stability": 1},
	}
	traj := sampleTrajectory()

	id, err := st.Save(ctx, older, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(id, "decay_20240102-030405_") {
		t.Errorf("unexpected run id %q", id)
	}

	newer := older
	newer.Model = "dense"
	newer.Timestamp = older.Timestamp.Add(time.Hour)
	if _, err := st.Save(ctx, newer, Trajectory{}); err != nil {
		t.Fatalf("save empty trajectory: %v", err)
	}

	meta, err := st.Load(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "decay" || meta.Seed != 42 || meta.Scheme != "RK4" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["stability"] != 1 {
		t.Errorf("expected stability 1, got %v", meta.Metrics["stability"])
	}
	if len(meta.Shape) != 2 || meta.Shape[0] != 2 || meta.Shape[1] != 2 {
		t.Errorf("expected shape [2 2], got %v", meta.Shape)
	}

	got, err := st.LoadTrajectory(ctx, id)
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}
	if len(got.States) != 3 || len(got.Times) != 3 {
		t.Fatalf("expected 3 states, got %d", len(got.States))
	}
	for i := range traj.States {
		if !got.States[i].Equal(traj.States[i]) || got.Times[i] != traj.Times[i] {
			t.Errorf("state %d: got %v at %v, want %v at %v", i, got.States[i], got.Times[i], traj.States[i], traj.Times[i])
		}
	}

	runs, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Model != "dense" || runs[1].Model != "decay" {
		t.Errorf("runs not newest first: %s, %s", runs[0].Model, runs[1].Model)
	}

	if _, err := st.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	bad := Trajectory{Times: []float64{0}, States: nil}
	if _, err := st.Save(ctx, older, bad); !errors.Is(err, ErrBadTrajectory) {
		t.Errorf("expected ErrBadTrajectory, got %v", err)
	}
}

func TestFSStore(t *testing.T) {
	exerciseStore(t, NewFSStore(t.TempDir()))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_NotInitialized(t *testing.T) {
	st := NewMemoryStore()
	if _, err := st.List(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestFSStore_Layout(t *testing.T) {
	dir := t.TempDir()
	st := NewFSStore(dir)
	ctx := context.Background()
	if err := st.Init(ctx); err != nil {
		t.Fatal(err)
	}

	id, err := st.Save(ctx, RunMetadata{Model: "oscillator"}, sampleTrajectory())
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, id, "metadata.json"))
	if err != nil {
		t.Fatalf("metadata.json: %v", err)
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["model"] != "oscillator" {
		t.Errorf("metadata model = %v", meta["model"])
	}

	csvData, err := os.ReadFile(filepath.Join(dir, id, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv: %v", err)
	}
	if first := strings.SplitN(string(csvData), "\n", 2)[0]; first != "time,x0,x1,x2,x3" {
		t.Errorf("unexpected header %q", first)
	}

	// stray directories are ignored
	os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755)
	runs, err := st.List(ctx)
	if err != nil || len(runs) != 1 {
		t.Errorf("expected 1 run, got %d (%v)", len(runs), err)
	}
}

func TestFSStore_ListMissingDir(t *testing.T) {
	st := NewFSStore(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List(context.Background())
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteClose(t *testing.T) {
	errClose := errors.New("disk full")
	errWrite := errors.New("short write")

	tests := []struct {
		name     string
		writeErr error
		closeErr error
		want     error
	}{
		{"ok", nil, nil, nil},
		{"close error surfaces", nil, errClose, errClose},
		{"write error wins", errWrite, errClose, errWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := &failingCloser{closeErr: tt.closeErr}
			err := writeClose(wc, func(w io.Writer) error {
				if _, err := w.Write([]byte("x")); err != nil {
					return err
				}
				return tt.writeErr
			})
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if !wc.closed {
				t.Error("writer was not closed")
			}
		})
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID("dense", time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC))
	if !regexp.MustCompile(`^dense_20250607-080910_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("unexpected run id %q", id)
	}
	if NewRunID("dense", time.Now()) == NewRunID("dense", time.Now()) {
		t.Error("run ids should be unique")
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	traj := sampleTrajectory()
	if err := ExportCSV(&buf, traj); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(&buf, []int{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := range traj.States {
		if !got.States[i].Equal(traj.States[i]) {
			t.Errorf("row %d: %v != %v", i, got.States[i], traj.States[i])
		}
	}

	if _, err := ReadCSV(strings.NewReader("time,x0\n0,abc\n"), []int{1}); !errors.Is(err, ErrBadTrajectory) {
		t.Errorf("expected ErrBadTrajectory, got %v", err)
	}
	if _, err := ReadCSV(strings.NewReader("time,x0,x1\n0,1,2\n"), []int{3}); !errors.Is(err, ErrBadTrajectory) {
		t.Errorf("expected ErrBadTrajectory for shape mismatch, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{Model: "decay", Scheme: "Euler", NStep: 2, Shape: []int{2, 2}}
	if err := ExportJSON(&buf, meta, sampleTrajectory()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 3 || len(data.States) != 3 || len(data.States[0]) != 4 {
		t.Errorf("unexpected export %+v", data)
	}
	if data.Scheme != "Euler" {
		t.Errorf("scheme = %q", data.Scheme)
	}
}

func TestNewStore(t *testing.T) {
	for _, kind := range []string{"", "fs", "memory"} {
		st, err := NewStore(kind, t.TempDir())
		if err != nil || st == nil {
			t.Errorf("NewStore(%q): %v", kind, err)
		}
	}
	if _, err := NewStore("unknown", ""); err == nil {
		t.Error("expected unsupported store error")
	}
}
