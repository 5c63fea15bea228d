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

// Package engine ties the counting machinery together: the process-global
// registry, the pooled warm caches in front of it and the enable flag.
package engine

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/censuslib/census/internal/counter"
	"github.com/censuslib/census/internal/registry"
)

// The flag is an operational switch, not a synchronization point: operations
// racing with a toggle may observe either state.
var enabled atomic.Bool

// Enable turns counting on or off process-wide.
func Enable(yes bool) {
	enabled.Store(yes)
}

// Enabled reports whether counting is on.
func Enabled() bool {
	return enabled.Load()
}

var (
	globalOnce     sync.Once
	globalRegistry *registry.Registry
)

// global returns the process-wide registry, creating it on first use.
func global() *registry.Registry {
	globalOnce.Do(func() {
		globalRegistry = registry.New(registry.WithHasher(typeHash))
	})
	return globalRegistry
}

// inc bumps the key's cell through the warm cache. The cache in front of the
// registry makes the common case, a goroutine constructing instances of the
// same type in a loop, a single atomic increment with no shared lookup at all.
func (c *cache) inc(key reflect.Type) {
	cell, ok := c.cells.Get(key)
	if !ok {
		cell = lookup(key)
		c.cells.Put(key, cell)
	}
	cell.Inc()
}

// dec mirrors inc and reports whether the live count dropped to zero.
//
// A cache miss here is the construct-on-one-goroutine, release-on-another
// case: the releasing side pays one registry lookup and is warm afterwards.
// The cell normally already exists because some inc preceded this dec; a
// create can only happen when the enable flag was toggled between the two,
// and then the unsigned live count simply wraps, same as any other
// unbalanced dec.
func (c *cache) dec(key reflect.Type) bool {
	cell, ok := c.cells.Get(key)
	if !ok {
		cell = lookup(key)
		c.cells.Put(key, cell)
	}
	return cell.Dec()
}

// lookup finds the key's cell, preferring the registry's lock-free read over
// the locked insert-if-absent path. Only the first-ever miss of a key pays
// for a bucket mutex.
func lookup(key reflect.Type) *counter.Cell {
	r := global()
	if cell, ok := r.Get(key); ok {
		return cell
	}
	return r.GetOrCreate(key, key.String)
}

// Inc records a construction of the type identified by key.
func Inc(key reflect.Type) {
	c := getCache()
	c.inc(key)
	putCache(c)
}

// Dec records a release of the type identified by key and reports whether it
// dropped the live count to zero.
func Dec(key reflect.Type) bool {
	c := getCache()
	zero := c.dec(key)
	putCache(c)
	return zero
}

// Get returns the counts of the given key. A key that has never been counted
// reads as zero and is not created.
func Get(key reflect.Type) counter.Counts {
	if cell, ok := global().Get(key); ok {
		return cell.Read()
	}
	return counter.Counts{}
}

// Cells returns every cell ever created, in no particular order.
func Cells() []*counter.Cell {
	r := global()
	cells := make([]*counter.Cell, 0, r.Size())
	r.Range(func(c *counter.Cell) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}
