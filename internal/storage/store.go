package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/contnet/internal/tensor"
)

var (
	ErrNotFound       = errors.New("storage: run not found")
	ErrNotInitialized = errors.New("storage: store is not initialized")
	ErrBadTrajectory  = errors.New("storage: malformed trajectory")
)

// RunMetadata describes one persisted integration.
type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Scheme    string             `json:"scheme"`
	NStep     int                `json:"n_step"`
	Basis     string             `json:"basis"`
	Nodes     int                `json:"nodes"`
	Shape     []int              `json:"shape"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Trajectory is the sequence of states visited by a run. Times[i] is the
// time at which States[i] was reached.
type Trajectory struct {
	Times  []float64
	States []tensor.Tensor
}

// Store persists runs.
type Store interface {
	Init(ctx context.Context) error
	// Save stores a run and returns its ID. An empty meta.ID is assigned
	// with NewRunID.
	Save(ctx context.Context, meta RunMetadata, traj Trajectory) (string, error)
	// List returns every run, newest first.
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, id string) (*RunMetadata, error)
	LoadTrajectory(ctx context.Context, id string) (Trajectory, error)
	Close() error
}

// NewRunID names a run <model>_<timestamp>_<8 hex digits>.
func NewRunID(model string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", model, now.Format("20060102-150405"), uuid.NewString()[:8])
}

func (t Trajectory) validate() error {
	if len(t.Times) != len(t.States) {
		return fmt.Errorf("%w: %d times for %d states", ErrBadTrajectory, len(t.Times), len(t.States))
	}
	for i := 1; i < len(t.States); i++ {
		if !t.States[i].SameShape(t.States[0]) {
			return fmt.Errorf("%w: state %d has shape %v, want %v", ErrBadTrajectory, i, t.States[i].Shape(), t.States[0].Shape())
		}
	}
	return nil
}

// prepare fills in the ID, timestamp and shape of meta.
func prepare(meta RunMetadata, traj Trajectory) (RunMetadata, error) {
	if err := traj.validate(); err != nil {
		return RunMetadata{}, err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Model, meta.Timestamp)
	}
	if len(traj.States) > 0 {
		meta.Shape = traj.States[0].Shape()
	}
	return meta, nil
}

func sortNewestFirst(runs []RunMetadata) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
}
