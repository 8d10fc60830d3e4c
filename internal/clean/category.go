package clean

import (
	"fmt"
	"strings"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
)

// Kind enumerates the cleanup categories. The set is closed.
type Kind int

const (
	KindSystemCaches Kind = iota
	KindUserCaches
	KindTemporaryFiles
	KindUserLogs
	KindCrashReports
	KindTrash
	KindBrowserCaches
	KindLargeFiles
)

// AllKinds lists every category in run order.
var AllKinds = []Kind{
	KindSystemCaches,
	KindUserCaches,
	KindTemporaryFiles,
	KindUserLogs,
	KindCrashReports,
	KindTrash,
	KindBrowserCaches,
	KindLargeFiles,
}

// String returns the display name, which is also the outcome category.
func (k Kind) String() string {
	switch k {
	case KindSystemCaches:
		return config.NameSystemCaches
	case KindUserCaches:
		return config.NameUserCaches
	case KindTemporaryFiles:
		return config.NameTemporaryFiles
	case KindUserLogs:
		return config.NameUserLogs
	case KindCrashReports:
		return config.NameCrashReports
	case KindTrash:
		return config.NameTrash
	case KindBrowserCaches:
		return config.NameBrowserCaches
	case KindLargeFiles:
		return config.NameLargeFiles
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key returns the flag-friendly identifier ("user-caches").
func (k Kind) Key() string {
	return strings.ReplaceAll(strings.ToLower(k.String()), " ", "-")
}

// Aggregated reports whether outcomes of this category fan out widely
// enough to be grouped by directory in the summary.
func (k Kind) Aggregated() bool {
	return k == KindLargeFiles
}

// ParseKinds resolves category keys ("user-caches", "trash-bins") or display
// names. Empty input selects every category.
func ParseKinds(keys []string) ([]Kind, error) {
	if len(keys) == 0 {
		return append([]Kind(nil), AllKinds...), nil
	}

	var kinds []Kind
	seen := make(map[Kind]bool)
	for _, raw := range keys {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		k, ok := lookupKind(key)
		if !ok {
			return nil, fmt.Errorf("unknown category %q (valid: %s)", key, strings.Join(kindKeys(), ", "))
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// IsAggregated reports whether the category name belongs to an aggregated
// kind. It adapts Kind.Aggregated to result.Report.Rows.
func IsAggregated(category string) bool {
	for _, k := range AllKinds {
		if k.String() == category {
			return k.Aggregated()
		}
	}
	return false
}

func lookupKind(key string) (Kind, bool) {
	for _, k := range AllKinds {
		if strings.EqualFold(key, k.Key()) || strings.EqualFold(key, k.String()) {
			return k, true
		}
	}
	return 0, false
}

func kindKeys() []string {
	keys := make([]string, len(AllKinds))
	for i, k := range AllKinds {
		keys[i] = k.Key()
	}
	return keys
}
