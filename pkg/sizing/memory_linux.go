//go:build linux

package sizing

import (
	"golang.org/x/sys/unix"
)

// availableMemory reports free plus reclaimable buffer memory from sysinfo(2).
func availableMemory() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := int64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return (int64(info.Freeram) + int64(info.Bufferram)) * unit
}
