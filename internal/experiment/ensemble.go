package experiment

import (
	"context"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/contnet/internal/config"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent copies of one config with consecutive seeds.
// Every run gets the same opts, so an observer passed with WithObserver is
// called from several goroutines at once.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	workers   int
	opts      []Option
	logger    log.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.GOMAXPROCS(0),
		opts:      opts,
		logger:    New(cfg, opts...).logger,
	}
}

// SetWorkers bounds the number of concurrent runs.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Run returns the results in seed order. The first failure cancels the
// remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(i)

			res, err := New(cfg, e.opts...).Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		level.Error(e.logger).Log("subsys", "ensemble", "msg", "run failed", "err", err)
		return nil, err
	}
	level.Info(e.logger).Log("subsys", "ensemble", "msg", "finished", "runs", e.numRuns)
	return results, nil
}
