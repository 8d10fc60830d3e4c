package core

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// VolumeStat is the space summary of the volume holding a path.
type VolumeStat struct {
	Path        string
	Total       uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

// VolumeUsage returns the usage of the volume that contains path.
func VolumeUsage(ctx context.Context, path string) (VolumeStat, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return VolumeStat{}, err
	}
	return VolumeStat{
		Path:        u.Path,
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}

// MountedVolumes returns the mountpoints of external volumes (those under
// /Volumes), skipping the boot volume.
func MountedVolumes(ctx context.Context) []string {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil
	}

	var mounts []string
	seen := make(map[string]bool)
	for _, p := range parts {
		if !strings.HasPrefix(p.Mountpoint, "/Volumes/") || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		mounts = append(mounts, p.Mountpoint)
	}
	return mounts
}
