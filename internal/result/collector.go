package result

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/lakshaymaurya-felt/osxmole/internal/core"
)

// TotalLabel is the path column of the synthetic grand-total row.
const TotalLabel = "Total"

// Collector accumulates outcomes for a single run. It has no locking of its
// own: exactly one goroutine may own it, and workers hand outcomes to that
// goroutine over a channel (see Drain).
type Collector struct {
	dryRun    bool
	successes []Success
	failures  []Failure
	skips     []Skip
	ignored   []string
	warnings  []string
	total     int64
}

// NewCollector returns an empty collector.
func NewCollector(dryRun bool) *Collector {
	return &Collector{dryRun: dryRun}
}

// Add records one outcome. Only Success contributes to the freed total.
func (c *Collector) Add(o Outcome) {
	switch v := o.(type) {
	case Success:
		c.successes = append(c.successes, v)
		c.total += v.Bytes
	case Failure:
		c.failures = append(c.failures, v)
	case Skip:
		c.skips = append(c.skips, v)
	}
}

// Ignore records a path excluded by the user before probing.
func (c *Collector) Ignore(path string) {
	c.ignored = append(c.ignored, path)
}

// Warn records an informational warning for the presenter.
func (c *Collector) Warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

// Drain consumes outcomes from ch until it is closed, then closes done.
// It is meant to run as the collector goroutine.
func (c *Collector) Drain(ch <-chan Outcome, done chan<- struct{}) {
	for o := range ch {
		c.Add(o)
	}
	close(done)
}

// Report snapshots the collected state.
func (c *Collector) Report() *Report {
	return &Report{
		DryRun:    c.dryRun,
		Successes: append([]Success(nil), c.successes...),
		Failures:  append([]Failure(nil), c.failures...),
		Skipped:   append([]Skip(nil), c.skips...),
		Ignored:   append([]string(nil), c.ignored...),
		Warnings:  append([]string(nil), c.warnings...),
		Total:     c.total,
	}
}

// ─── Report ──────────────────────────────────────────────────────────────────

// Report is the final, immutable outcome of a run.
type Report struct {
	DryRun    bool
	Successes []Success
	Failures  []Failure
	Skipped   []Skip
	Ignored   []string
	Warnings  []string
	// Total is the sum of all Success bytes.
	Total int64
}

// Row is one line of the success summary.
type Row struct {
	Category string
	Path     string
	Bytes    int64
	Size     string
}

// Rows builds the success summary. Outcomes of categories for which
// aggregate returns true are keyed by (category, representative directory)
// so a category with thousands of files shows one row per location. The
// representative directory is the parent for file outcomes and the path
// itself for directory outcomes. Rows are sorted by key and followed by the
// Total row.
func (r *Report) Rows(aggregate func(category string) bool) []Row {
	type key struct{ category, path string }
	sums := make(map[key]int64)
	var order []key

	for _, s := range r.Successes {
		k := key{category: s.Category, path: s.Path}
		if aggregate != nil && aggregate(s.Category) && !s.Dir {
			k.path = filepath.Dir(s.Path)
		}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += s.Bytes
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].category != order[j].category {
			return order[i].category < order[j].category
		}
		return order[i].path < order[j].path
	})

	rows := make([]Row, 0, len(order)+1)
	for _, k := range order {
		rows = append(rows, Row{
			Category: k.category,
			Path:     k.path,
			Bytes:    sums[k],
			Size:     core.FormatSize(sums[k]),
		})
	}
	rows = append(rows, Row{
		Path:  TotalLabel,
		Bytes: r.Total,
		Size:  core.FormatSize(r.Total),
	})
	return rows
}

// FailuresExcept returns failures whose error does not match target.
// Used to hide routine "not found" noise from uninstall reports.
func (r *Report) FailuresExcept(target error) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if !errors.Is(f.Err, target) {
			out = append(out, f)
		}
	}
	return out
}
