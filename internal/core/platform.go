package core

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// commandTimeout bounds the small helper binaries queried below.
const commandTimeout = 5 * time.Second

// MacOSVersionString returns a human-readable platform string.
// Examples: "macOS 14.5 (arm64)", "linux (amd64)"
func MacOSVersionString() string {
	if v := MacOSVersion(); v != "" {
		return fmt.Sprintf("macOS %s (%s)", v, runtime.GOARCH)
	}
	return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
}

// SIPEnabled reports whether System Integrity Protection is enabled. SIP
// blocks deletion under /System and a few other locations even for root.
func SIPEnabled(ctx context.Context) bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	out, err := runQuiet(ctx, "csrutil", "status")
	if err != nil {
		return false
	}
	return strings.Contains(out, "enabled")
}

func runQuiet(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}
