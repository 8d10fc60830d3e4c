package uninstall

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/logging"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
)

// Options configures an Executor.
type Options struct {
	DryRun  bool
	Workers int
	Layout  config.Layout
	Log     *slog.Logger
}

// Executor removes uninstall candidates in a single best-effort pass.
// Nothing is measured: outcomes carry zero bytes.
type Executor struct {
	opts   Options
	log    *slog.Logger
	remove func(path string) error
}

// NewExecutor returns an executor with defaults applied.
func NewExecutor(opts Options) *Executor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return &Executor{opts: opts, log: opts.Log, remove: core.RemovePath}
}

// ─── Public API ──────────────────────────────────────────────────────────────

// Plan returns the candidates for name without touching anything.
func (x *Executor) Plan(name string) ([]Candidate, error) {
	cands, err := Candidates(x.opts.Layout, name)
	if err != nil {
		return nil, err
	}
	x.log.Debug("uninstall candidates", "name", name, "count", len(cands))
	return cands, nil
}

// Run plans and executes the removal of name. The error is non-nil only
// for an invalid name or a malformed template; per-path problems are
// outcomes in the report.
func (x *Executor) Run(name string) (*result.Report, error) {
	cands, err := x.Plan(name)
	if err != nil {
		return nil, err
	}
	return x.Execute(cands), nil
}

// Execute processes candidates concurrently. Each path is independent: a
// failure is recorded and the remaining paths continue.
func (x *Executor) Execute(cands []Candidate) *result.Report {
	collector := result.NewCollector(x.opts.DryRun)

	outcomes := make(chan result.Outcome, x.opts.Workers)
	done := make(chan struct{})
	go collector.Drain(outcomes, done)

	var g errgroup.Group
	g.SetLimit(x.opts.Workers)
	for _, c := range cands {
		g.Go(func() error {
			outcomes <- x.removeOne(c)
			return nil
		})
	}
	_ = g.Wait()

	close(outcomes)
	<-done
	return collector.Report()
}

// ─── Internal Helpers ────────────────────────────────────────────────────────

func (x *Executor) removeOne(c Candidate) result.Outcome {
	if _, err := os.Lstat(c.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			x.log.Debug("not found", "path", c.Path, "category", c.Category)
			return result.Failure{Path: c.Path, Category: c.Category, Err: result.ErrNotFound}
		}
		x.log.Warn("cannot inspect path", "path", c.Path, "error", err)
		return result.Failure{Path: c.Path, Category: c.Category, Err: err}
	}

	if core.IsProtected(c.Path, x.opts.Layout.Home) {
		x.log.Warn("refusing protected location", "path", c.Path)
		return result.Failure{Path: c.Path, Category: c.Category, Err: result.ErrProtectedPath}
	}

	if x.opts.DryRun {
		x.log.Info("would delete", "path", c.Path, "category", c.Category)
		return result.Success{Path: c.Path, Category: c.Category}
	}

	if err := x.remove(c.Path); err != nil {
		x.log.Warn("delete failed", "path", c.Path, "error", err)
		return result.Failure{
			Path:     c.Path,
			Category: c.Category,
			Err:      fmt.Errorf("%w: %v", result.ErrDeleteFailed, err),
		}
	}

	x.log.Info("deleted", "path", c.Path, "category", c.Category)
	return result.Success{Path: c.Path, Category: c.Category}
}
