package server

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/sembrowse/errors"
)

// memoryStats is host memory as reported on /health.
type memoryStats struct {
	TotalBytes     uint64 `json:"total_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`
}

// getMemoryStats returns current host memory usage in bytes
func getMemoryStats() (memoryStats, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return memoryStats{}, errors.Wrap(err, "failed to get memory stats")
	}
	return memoryStats{TotalBytes: v.Total, AvailableBytes: v.Available}, nil
}
