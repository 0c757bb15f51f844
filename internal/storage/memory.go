package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/contnet/internal/tensor"
)

type memoryRun struct {
	meta RunMetadata
	traj Trajectory
}

// MemoryStore keeps runs in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]memoryRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.initialized = true
		s.runs = make(map[string]memoryRun)
	}
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, meta RunMetadata, traj Trajectory) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	meta, err := prepare(meta, traj)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return "", ErrNotInitialized
	}
	s.runs[meta.ID] = memoryRun{meta: cloneMeta(meta), traj: cloneTrajectory(traj)}
	return meta.ID, nil
}

func (s *MemoryStore) List(_ context.Context) ([]RunMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	runs := make([]RunMetadata, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, cloneMeta(r.meta))
	}
	sortNewestFirst(runs)
	return runs, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*RunMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	meta := cloneMeta(r.meta)
	return &meta, nil
}

func (s *MemoryStore) LoadTrajectory(_ context.Context, id string) (Trajectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return Trajectory{}, ErrNotInitialized
	}

	r, ok := s.runs[id]
	if !ok {
		return Trajectory{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneTrajectory(r.traj), nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneMeta(m RunMetadata) RunMetadata {
	m.Shape = append([]int(nil), m.Shape...)
	if m.Metrics != nil {
		metrics := make(map[string]float64, len(m.Metrics))
		for k, v := range m.Metrics {
			metrics[k] = v
		}
		m.Metrics = metrics
	}
	return m
}

func cloneTrajectory(t Trajectory) Trajectory {
	out := Trajectory{
		Times:  append([]float64(nil), t.Times...),
		States: make([]tensor.Tensor, len(t.States)),
	}
	for i, s := range t.States {
		out.States[i] = s.Clone()
	}
	return out
}
