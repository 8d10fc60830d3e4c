package core

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// RemovePath deletes a file, symlink or directory tree. A missing path is
// not an error: the desired state already holds.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	switch mode := info.Mode(); {
	case mode.IsRegular(), mode&fs.ModeSymlink != 0:
		return os.Remove(path)
	case mode.IsDir():
		return os.RemoveAll(path)
	default:
		// Sockets, FIFOs, device nodes: best effort.
		return os.Remove(path)
	}
}

// Exists reports whether path exists without following a trailing symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// neverDelete lists locations that must never be removed regardless of
// what a source produces.
var neverDelete = []string{
	"/",
	"/Applications",
	"/Library",
	"/System",
	"/System/Library",
	"/Users",
	"/Volumes",
	"/bin",
	"/etc",
	"/private",
	"/private/var",
	"/sbin",
	"/usr",
	"/usr/local",
	"/var",
}

// IsProtected reports whether path is a never-delete location or the home
// directory itself. Descendants of these locations are not protected.
func IsProtected(path, home string) bool {
	clean := filepath.Clean(path)
	if home != "" && clean == filepath.Clean(home) {
		return true
	}
	for _, p := range neverDelete {
		if clean == p {
			return true
		}
	}
	return false
}
