package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore keeps one directory per run holding metadata.json and states.csv.
type FSStore struct {
	baseDir string
}

func NewFSStore(baseDir string) *FSStore {
	return &FSStore{baseDir: baseDir}
}

func (s *FSStore) Init(_ context.Context) error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FSStore) Save(ctx context.Context, meta RunMetadata, traj Trajectory) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	meta, err := prepare(meta, traj)
	if err != nil {
		return "", err
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("storage: create run dir: %w", err)
	}

	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", fmt.Errorf("storage: write metadata: %w", err)
	}

	if err := writeFile(filepath.Join(runDir, "states.csv"), func(w io.Writer) error {
		return ExportCSV(w, traj)
	}); err != nil {
		return "", fmt.Errorf("storage: write states: %w", err)
	}
	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeClose(f, write)
}

// writeClose returns the Close error unless write already failed.
func writeClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// List skips directories without readable metadata.
func (s *FSStore) List(ctx context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(ctx, entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sortNewestFirst(runs)
	return runs, nil
}

func (s *FSStore) Load(_ context.Context, id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode metadata %s: %w", id, err)
	}
	return &meta, nil
}

func (s *FSStore) LoadTrajectory(ctx context.Context, id string) (Trajectory, error) {
	meta, err := s.Load(ctx, id)
	if err != nil {
		return Trajectory{}, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, id, "states.csv"))
	if err != nil {
		return Trajectory{}, err
	}
	defer file.Close()

	return ReadCSV(file, meta.Shape)
}

func (s *FSStore) Close() error { return nil }
