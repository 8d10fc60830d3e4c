package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/ignore"
	"github.com/lakshaymaurya-felt/osxmole/internal/logging"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
)

// Options configures an Engine.
type Options struct {
	// DryRun records what would be freed without touching the filesystem.
	DryRun bool

	// Ignore excludes user-listed paths before probing. May be nil.
	Ignore *ignore.Filter

	// IgnoreMatch is the coarse substring filter applied to raw candidate
	// paths ahead of Ignore. May be nil.
	IgnoreMatch *ignore.Filter

	// Workers bounds the Probe and Act worker pools.
	Workers int

	Layout config.Layout
	Log    *slog.Logger

	// Elevated and SIPEnabled feed the post-run warnings. They default to
	// core.IsElevated and core.SIPEnabled.
	Elevated   func() bool
	SIPEnabled func(ctx context.Context) bool
}

// Engine runs the Probe/Act protocol over category sources.
type Engine struct {
	opts      Options
	log       *slog.Logger
	protected map[string]bool
	remove    func(path string) error
}

// probeResult is a candidate confirmed to exist with a non-zero size.
type probeResult struct {
	Path     string
	Category string
	Bytes    int64
	Size     string
	Dir      bool
}

// NewEngine returns an engine with defaults applied.
func NewEngine(opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU() * 2
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Elevated == nil {
		opts.Elevated = core.IsElevated
	}
	if opts.SIPEnabled == nil {
		opts.SIPEnabled = core.SIPEnabled
	}

	protected := make(map[string]bool)
	for _, p := range config.ProtectedTemp(opts.Layout) {
		protected[filepath.Clean(p)] = true
		protected[ignore.Canonical(p)] = true
	}

	return &Engine{opts: opts, log: opts.Log, protected: protected, remove: core.RemovePath}
}

// Run discovers, filters, probes and acts on every candidate of sources.
// The returned error is non-nil only when a source cannot enumerate its
// category; individual path problems become outcomes in the report.
func (e *Engine) Run(ctx context.Context, sources []Source) (*result.Report, error) {
	candidates, err := e.discover(ctx, sources)
	if err != nil {
		return nil, err
	}

	collector := e.process(candidates)
	e.warn(ctx, sources, collector)
	return collector.Report(), nil
}

// process runs filter, Probe and Act over already discovered candidates.
func (e *Engine) process(candidates []Candidate) *result.Collector {
	collector := result.NewCollector(e.opts.DryRun)
	candidates = e.filter(candidates, collector)

	outcomes := make(chan result.Outcome, e.opts.Workers)
	done := make(chan struct{})
	go collector.Drain(outcomes, done)

	probed := e.probe(candidates, outcomes)
	// Barrier: probe has fully returned before any act begins.
	e.act(probed, outcomes)

	close(outcomes)
	<-done
	return collector
}

// ─── Discovery ───────────────────────────────────────────────────────────────

func (e *Engine) discover(ctx context.Context, sources []Source) ([]Candidate, error) {
	perSource := make([][]Candidate, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			found, err := src.Candidates(gctx)
			if err != nil {
				return err
			}
			e.log.Debug("discovered candidates", "category", src.Kind.String(), "count", len(found))
			perSource[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discover candidates: %w", err)
	}

	var all []Candidate
	for _, found := range perSource {
		all = append(all, found...)
	}
	return all, nil
}

// filter drops user-ignored candidates, exact duplicates, and candidates
// nested inside another candidate that will itself be processed.
func (e *Engine) filter(candidates []Candidate, collector *result.Collector) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		switch {
		case e.opts.IgnoreMatch.Excluded(c.Path):
			e.log.Info("ignored by user", "path", c.Path, "category", c.Category, "match", "substring")
			collector.Ignore(c.Path)
		case e.opts.Ignore.Excluded(c.Path):
			e.log.Info("ignored by user", "path", c.Path, "category", c.Category)
			collector.Ignore(c.Path)
		default:
			kept = append(kept, c)
		}
	}

	roots := make(map[string]bool, len(kept))
	for _, c := range kept {
		p := filepath.Clean(c.Path)
		if e.removable(p) {
			roots[p] = true
		}
	}

	out := kept[:0]
	seen := make(map[string]bool, len(kept))
	for _, c := range kept {
		p := filepath.Clean(c.Path)
		if seen[p] {
			continue
		}
		seen[p] = true
		if parent := coveringAncestor(p, roots); parent != "" {
			e.log.Debug("covered by another candidate", "path", p, "parent", parent)
			continue
		}
		out = append(out, c)
	}

	e.warnShadowed(out, collector)
	return out
}

// warnShadowed reports ignore patterns that sit strictly inside a candidate
// removed as a whole. Such a pattern cannot keep its path.
func (e *Engine) warnShadowed(candidates []Candidate, collector *result.Collector) {
	warned := make(map[string]bool)
	for _, c := range candidates {
		if !e.removable(filepath.Clean(c.Path)) {
			continue
		}
		for _, p := range e.opts.Ignore.Below(c.Path) {
			if warned[p] {
				continue
			}
			warned[p] = true
			msg := fmt.Sprintf("ignore pattern %s lies inside %s, which is removed as a whole; the pattern has no effect", p, c.Path)
			e.log.Warn(msg)
			collector.Warn(msg)
		}
	}
}

// removable reports whether path can reach Act at all.
func (e *Engine) removable(path string) bool {
	return !e.isSafetyExcluded(path) && !core.IsProtected(path, e.opts.Layout.Home)
}

// coveringAncestor returns the nearest strict ancestor of path present in
// roots, or "".
func coveringAncestor(path string, roots map[string]bool) string {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if roots[dir] {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

// ─── Probe ───────────────────────────────────────────────────────────────────

func (e *Engine) probe(candidates []Candidate, outcomes chan<- result.Outcome) []probeResult {
	slots := make([]*probeResult, len(candidates))

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			if pr, ok := e.probeOne(c, outcomes); ok {
				slots[i] = &pr
			}
			return nil
		})
	}
	_ = g.Wait()

	probed := make([]probeResult, 0, len(slots))
	for _, pr := range slots {
		if pr != nil {
			probed = append(probed, *pr)
		}
	}
	return probed
}

// probeOne classifies one candidate. It returns ok when the candidate
// should proceed to Act; otherwise it has either emitted its outcome or
// dropped it for being empty.
func (e *Engine) probeOne(c Candidate, outcomes chan<- result.Outcome) (probeResult, bool) {
	if e.isSafetyExcluded(c.Path) {
		e.log.Info("skipping active temporary directory", "path", c.Path)
		outcomes <- result.Skip{Path: c.Path, Category: c.Category, Err: result.ErrSafetyExcluded}
		return probeResult{}, false
	}

	if core.IsProtected(c.Path, e.opts.Layout.Home) {
		e.log.Warn("refusing protected location", "path", c.Path, "category", c.Category)
		outcomes <- result.Failure{Path: c.Path, Category: c.Category, Err: result.ErrProtectedPath}
		return probeResult{}, false
	}

	info, err := os.Lstat(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.log.Debug("candidate not found", "path", c.Path)
			outcomes <- result.Failure{Path: c.Path, Category: c.Category, Err: result.ErrNotFound}
		} else {
			outcomes <- result.Skip{Path: c.Path, Category: c.Category, Err: measureErr(err)}
		}
		return probeResult{}, false
	}

	size, formatted, err := core.Measure(c.Path, func(child string, err error) {
		e.log.Debug("skipping unreadable path", "path", child, "error", err)
		outcomes <- result.Skip{Path: child, Category: c.Category, Err: measureErr(err)}
	})
	if err != nil {
		e.log.Warn("size check failed", "path", c.Path, "error", err)
		outcomes <- result.Skip{Path: c.Path, Category: c.Category, Err: measureErr(err)}
		return probeResult{}, false
	}

	if size == 0 {
		e.log.Debug("dropping empty candidate", "path", c.Path, "category", c.Category)
		return probeResult{}, false
	}

	return probeResult{
		Path:     c.Path,
		Category: c.Category,
		Bytes:    size,
		Size:     formatted,
		Dir:      info.IsDir(),
	}, true
}

func (e *Engine) isSafetyExcluded(path string) bool {
	return e.protected[filepath.Clean(path)] || e.protected[ignore.Canonical(path)]
}

func measureErr(err error) error {
	return fmt.Errorf("%w: %v", result.ErrMeasurementFailed, err)
}

// ─── Act ─────────────────────────────────────────────────────────────────────

func (e *Engine) act(probed []probeResult, outcomes chan<- result.Outcome) {
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for _, pr := range probed {
		g.Go(func() error {
			outcomes <- e.actOne(pr)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) actOne(pr probeResult) result.Outcome {
	if e.opts.DryRun {
		e.log.Debug("would delete", "path", pr.Path, "category", pr.Category, "size", pr.Size)
		return result.Success{Path: pr.Path, Category: pr.Category, Bytes: pr.Bytes, Dir: pr.Dir}
	}

	if err := e.remove(pr.Path); err != nil {
		e.log.Warn("delete failed", "path", pr.Path, "error", err)
		return result.Failure{
			Path:     pr.Path,
			Category: pr.Category,
			Err:      fmt.Errorf("%w: %v", result.ErrDeleteFailed, err),
		}
	}

	after, err := remaining(pr.Path)
	if err != nil {
		e.log.Warn("size check after cleanup failed", "path", pr.Path, "error", err)
		return result.Skip{
			Path:     pr.Path,
			Category: pr.Category,
			Err:      fmt.Errorf("size check after cleanup failed: %w", measureErr(err)),
		}
	}

	freed := max(pr.Bytes-after, 0)
	if freed == 0 {
		e.log.Warn("no space freed", "path", pr.Path)
		return result.Skip{Path: pr.Path, Category: pr.Category, Err: result.ErrNoSpaceFreed}
	}

	e.log.Debug("deleted", "path", pr.Path, "category", pr.Category, "freed", core.FormatSize(freed))
	return result.Success{Path: pr.Path, Category: pr.Category, Bytes: freed, Dir: pr.Dir}
}

// remaining returns the bytes still held by path after a delete. An absent
// path is 0 without a walk.
func remaining(path string) (int64, error) {
	if !core.Exists(path) {
		return 0, nil
	}
	size, _, err := core.Measure(path, nil)
	return size, err
}

// ─── Warnings ────────────────────────────────────────────────────────────────

func (e *Engine) warn(ctx context.Context, sources []Source, collector *result.Collector) {
	if !e.opts.Elevated() {
		for _, src := range sources {
			if src.RequiresAdmin() {
				msg := fmt.Sprintf("%s requires administrator privileges; some paths may not be removed", src.Kind)
				e.log.Info(msg)
				collector.Warn(msg)
			}
		}
	}

	if e.opts.SIPEnabled(ctx) {
		msg := "System Integrity Protection is enabled; some system locations cannot be modified"
		e.log.Info(msg)
		collector.Warn(msg)
	}
}
