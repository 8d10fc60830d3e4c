package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SkipFunc receives a descendant path that could not be measured. The
// descendant is excluded from the parent's size.
type SkipFunc func(path string, err error)

// Measure returns the size of path in bytes together with its formatted form.
//
// A missing path measures 0 without error. Files and symlinks report their
// own length (links are never followed). Directories are summed recursively;
// unreadable children are handed to onSkip and left out of the sum rather
// than failing the whole measurement. Only an unreadable root is an error.
func Measure(path string, onSkip SkipFunc) (int64, string, error) {
	size, err := measure(path, onSkip)
	if err != nil {
		return 0, "", err
	}
	return size, FormatSize(size), nil
}

func measure(path string, onSkip SkipFunc) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	if !info.IsDir() {
		return info.Size(), nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		child := filepath.Join(path, e.Name())
		size, err := measure(child, onSkip)
		if err != nil {
			// Permission denied or I/O error: skip, don't fail the parent.
			if onSkip != nil {
				onSkip(child, err)
			}
			continue
		}
		total += size
	}
	return total, nil
}

// FormatSize formats bytes with binary units: "512 bytes", "1.50 KB",
// "10.00 MB", "2.25 GB".
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
