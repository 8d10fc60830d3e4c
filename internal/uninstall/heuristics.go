package uninstall

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
)

// LaunchItems returns launch agent and daemon property lists whose file
// name contains name, case-insensitively. The match is a plain substring,
// so a short name can pick up unrelated agents.
func LaunchItems(l config.Layout, name string) []string {
	return scanNames(config.LaunchItemDirs(l), name, func(lower string) bool {
		return strings.HasSuffix(lower, ".plist")
	})
}

// Receipts returns package receipts (.bom, .plist) whose file name contains
// name, case-insensitively.
func Receipts(l config.Layout, name string) []string {
	return scanNames(config.ReceiptDirs(l), name, nil)
}

// scanNames lists the immediate entries of dirs whose lowercased name
// contains the lowercased needle and passes keep. Unreadable directories are
// skipped.
func scanNames(dirs []string, needle string, keep func(lower string) bool) []string {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}

	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			lower := strings.ToLower(e.Name())
			if !strings.Contains(lower, needle) {
				continue
			}
			if keep != nil && !keep(lower) {
				continue
			}
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
