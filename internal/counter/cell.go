// Copyright (c) 2025 census contributors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package counter implements the per-type counter cell shared by every
// goroutine that constructs or releases instances of the tracked type.
package counter

import (
	"sync/atomic"
	"unsafe"

	"github.com/censuslib/census/internal/xruntime"
)

// Counts is a single read of a cell. The three fields are loaded
// independently, so a read racing with writers may be mutually inconsistent
// for a moment (live above maxLive and similar). The skew disappears once
// writers quiesce.
type Counts struct {
	// Total is the number of instances ever created.
	Total uint64
	// MaxLive is the historical peak of Live.
	MaxLive uint64
	// Live is the number of instances created but not yet released.
	Live uint64
}

// Cell holds the counters for one tracked type. A cell is created exactly once
// per type, shared by every goroutine that has seen the type and lives until
// the process exits. The fields are padded apart so that goroutines hammering
// different counters of the same hot type do not share a cache line.
type Cell struct {
	total        atomic.Uint64
	totalPadding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte

	live        atomic.Uint64
	livePadding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte

	maxLive        atomic.Uint64
	maxLivePadding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte

	name string
}

// New creates a cell with the given display name and all counters at zero.
func New(name string) *Cell {
	return &Cell{
		name: name,
	}
}

// Name returns the display name of the tracked type.
func (c *Cell) Name() string {
	return c.name
}

// Inc records a construction.
//
// total and live are bumped with two independent atomic adds and maxLive is
// raised with a CAS loop afterwards, so a concurrent Read may briefly observe
// live above maxLive. Collapsing the three updates into one synchronized
// section would put a lock on the hot path, which is exactly what this
// package exists to avoid.
func (c *Cell) Inc() {
	c.total.Add(1)
	live := c.live.Add(1)
	for {
		maxLive := c.maxLive.Load()
		if live <= maxLive {
			return
		}
		if c.maxLive.CompareAndSwap(maxLive, live) {
			return
		}
	}
}

// Dec records a release and reports whether it dropped the live count to zero.
func (c *Cell) Dec() bool {
	return c.live.Add(^uint64(0)) == 0
}

// Read returns the current counts. See the Counts doc for the consistency
// caveat.
func (c *Cell) Read() Counts {
	return Counts{
		Total:   c.total.Load(),
		MaxLive: c.maxLive.Load(),
		Live:    c.live.Load(),
	}
}
