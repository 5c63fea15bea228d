package xruntime

import (
	"runtime"
)

const (
	// CacheLineSize is useful for preventing false sharing.
	CacheLineSize = 64
)

// Parallelism returns the maximum possible number of concurrently running goroutines.
func Parallelism() uint32 {
	maxProcs := uint32(runtime.GOMAXPROCS(0))
	numCPU := uint32(runtime.NumCPU())
	if maxProcs < numCPU {
		return maxProcs
	}
	return numCPU
}
