//go:build darwin

package core

import "golang.org/x/sys/unix"

// MacOSVersion returns the product version (e.g., "14.5"), or an empty
// string when the kernel does not report one.
func MacOSVersion() string {
	v, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return ""
	}
	return v
}
