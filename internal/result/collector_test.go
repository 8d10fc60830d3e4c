package result

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCollectorTotalsOnlySuccesses(t *testing.T) {
	c := NewCollector(false)
	c.Add(Success{Path: "/a", Category: "User Caches", Bytes: 100})
	c.Add(Failure{Path: "/b", Category: "User Caches", Err: ErrNotFound})
	c.Add(Skip{Path: "/c", Category: "User Caches", Err: ErrNoSpaceFreed})
	c.Add(Success{Path: "/d", Category: "User Logs", Bytes: 23})
	c.Ignore("/e")

	r := c.Report()
	if r.Total != 123 {
		t.Errorf("Total = %d, want 123", r.Total)
	}
	if len(r.Successes) != 2 || len(r.Failures) != 1 || len(r.Skipped) != 1 || len(r.Ignored) != 1 {
		t.Errorf("unexpected report shape: %+v", r)
	}
}

func TestDrainFromManyWorkers(t *testing.T) {
	c := NewCollector(true)
	ch := make(chan Outcome)
	done := make(chan struct{})
	go c.Drain(ch, done)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch <- Success{Path: fmt.Sprintf("/p/%d", i), Category: "X", Bytes: int64(i)}
			ch <- Skip{Path: fmt.Sprintf("/s/%d", i), Category: "X", Err: ErrMeasurementFailed}
		}()
	}
	wg.Wait()
	close(ch)
	<-done

	r := c.Report()
	if len(r.Successes) != 50 || len(r.Skipped) != 50 {
		t.Fatalf("got %d successes and %d skips", len(r.Successes), len(r.Skipped))
	}
	var sum int64
	for _, s := range r.Successes {
		sum += s.Bytes
	}
	if sum != r.Total || r.Total != 49*50/2 {
		t.Errorf("Total = %d, sum = %d", r.Total, sum)
	}
}

func TestRowsAggregation(t *testing.T) {
	c := NewCollector(true)
	c.Add(Success{Path: "/Users/me/Downloads/a.iso", Category: "Large Files", Bytes: 300})
	c.Add(Success{Path: "/Users/me/Downloads/b.dmg", Category: "Large Files", Bytes: 200})
	c.Add(Success{Path: "/Users/me/Movies/c.mov", Category: "Large Files", Bytes: 50})
	c.Add(Success{Path: "/Users/me/Library/Caches", Category: "User Caches", Bytes: 7, Dir: true})
	c.Add(Success{Path: "/tmp/x", Category: "Temporary Files", Bytes: 1})
	c.Add(Success{Path: "/tmp/y", Category: "Temporary Files", Bytes: 2})

	rows := c.Report().Rows(func(category string) bool { return category == "Large Files" })

	want := []Row{
		{Category: "Large Files", Path: "/Users/me/Downloads", Bytes: 500, Size: "500 bytes"},
		{Category: "Large Files", Path: "/Users/me/Movies", Bytes: 50, Size: "50 bytes"},
		{Category: "Temporary Files", Path: "/tmp/x", Bytes: 1, Size: "1 bytes"},
		{Category: "Temporary Files", Path: "/tmp/y", Bytes: 2, Size: "2 bytes"},
		{Category: "User Caches", Path: "/Users/me/Library/Caches", Bytes: 7, Size: "7 bytes"},
		{Path: TotalLabel, Bytes: 560, Size: "560 bytes"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestRowsAggregatedDirectoryKeepsItsPath(t *testing.T) {
	c := NewCollector(true)
	c.Add(Success{Path: "/Volumes/Ext/.Trashes", Category: "Agg", Bytes: 10, Dir: true})

	rows := c.Report().Rows(func(string) bool { return true })
	if rows[0].Path != "/Volumes/Ext/.Trashes" {
		t.Errorf("directory outcome keyed by %q, want itself", rows[0].Path)
	}
}

func TestEmptyReportHasTotalRow(t *testing.T) {
	rows := NewCollector(true).Report().Rows(nil)
	if len(rows) != 1 || rows[0].Path != TotalLabel || rows[0].Size != "0 bytes" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestFailuresExcept(t *testing.T) {
	c := NewCollector(false)
	c.Add(Failure{Path: "/a", Err: ErrNotFound})
	c.Add(Failure{Path: "/b", Err: fmt.Errorf("%w: permission denied", ErrDeleteFailed)})

	got := c.Report().FailuresExcept(ErrNotFound)
	if len(got) != 1 || got[0].Path != "/b" {
		t.Fatalf("FailuresExcept = %+v", got)
	}
	if !errors.Is(got[0].Err, ErrDeleteFailed) {
		t.Error("wrapped sentinel lost")
	}
	if got[0].Reason() != "delete failed: permission denied" {
		t.Errorf("Reason = %q", got[0].Reason())
	}
}
