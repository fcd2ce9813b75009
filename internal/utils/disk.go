package utils

import (
	"golang.org/x/sys/unix"
)

// DiskSpace holds information about disk space usage
type DiskSpace struct {
	Total int64
	Free  int64
	// Available is the free space usable by an unprivileged writer.
	Available int64
	Used      int64
}

// SpaceFunc returns disk space information for the volume holding path
type SpaceFunc func(path string) (DiskSpace, error)

// GetDiskSpace returns disk space information for the given path
func GetDiskSpace(path string) (DiskSpace, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return DiskSpace{}, err
	}

	// Calculate bytes
	bsize := int64(stat.Bsize)
	total := int64(stat.Blocks) * bsize
	free := int64(stat.Bfree) * bsize
	available := int64(stat.Bavail) * bsize

	return DiskSpace{
		Total:     total,
		Free:      free,
		Available: available,
		Used:      total - free,
	}, nil
}
