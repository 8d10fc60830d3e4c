package clean

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
)

// largeFileWalker performs a parallel recursive walk collecting regular
// files at or above a size threshold.
type largeFileWalker struct {
	ctx       context.Context
	threshold int64
	sem       chan struct{}
	mu        sync.Mutex
	found     []string
	source    Source
}

// largeFiles walks the user directories and returns qualifying files.
// Directories are never candidates here and symlinks are not followed.
func (s Source) largeFiles(ctx context.Context) ([]string, error) {
	threshold := s.LargeFileThreshold
	if threshold <= 0 {
		var err error
		if threshold, err = config.ParseSize(config.DefaultLargeFileSize); err != nil {
			return nil, err
		}
	}
	workers := s.Workers
	if workers <= 0 {
		workers = 8
	}

	w := &largeFileWalker{
		ctx:       ctx,
		threshold: threshold,
		sem:       make(chan struct{}, workers),
		source:    s,
	}

	var wg sync.WaitGroup
	for _, dir := range config.LargeFileDirs(s.Layout) {
		info, err := os.Lstat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			w.walk(d)
		}(dir)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(w.found)
	return w.found, nil
}

// walk scans one directory, holding the semaphore only during ReadDir so
// nested goroutines cannot deadlock on it.
func (w *largeFileWalker) walk(dir string) {
	if w.ctx.Err() != nil {
		return
	}

	w.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-w.sem

	if err != nil {
		w.source.logger().Debug("cannot read directory", "path", dir, "error", err)
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		switch {
		case e.IsDir():
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				w.walk(p)
			}(path)

		case e.Type().IsRegular():
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Size() >= w.threshold {
				w.mu.Lock()
				w.found = append(w.found, path)
				w.mu.Unlock()
			}
		}
	}
	wg.Wait()
}
