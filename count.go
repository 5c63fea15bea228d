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

package census

import (
	"github.com/censuslib/census/internal/engine"
)

// Count is the guard that drives the counters of T. Store one inside the
// tracked type, create it with NewCount and call Release exactly once from
// every exit path of the owner, typically with defer.
//
// The zero Count is inert: it counted nothing and Release on it does nothing.
// A Count must not be copied; use Clone to register a new instance.
type Count[T any] struct {
	noCopy noCopy

	// armed is set only by NewCount, so a Release is always backed by an
	// increment and repeated Releases decrement once.
	armed bool
}

// NewCount registers a new instance of T and returns its guard. When counting
// is disabled this is a no-op guard.
func NewCount[T any]() Count[T] {
	if !engine.Enabled() {
		return Count[T]{}
	}
	engine.Inc(keyOf[T]())
	return Count[T]{armed: true}
}

// Clone registers a fresh instance of T. A clone is a new logical instance,
// never a free copy of this guard.
func (c *Count[T]) Clone() Count[T] {
	return NewCount[T]()
}

// Release unregisters the instance. Only the first call on a guard returned
// by NewCount decrements; later calls and calls on the zero Count do nothing.
// Like NewCount, Release is a no-op while counting is disabled.
func (c *Count[T]) Release() {
	if !c.armed {
		return
	}
	c.armed = false
	if !engine.Enabled() {
		return
	}
	key := keyOf[T]()
	if engine.Dec(key) {
		notifyIdle(key)
	}
}

// noCopy makes go vet flag copies of the embedding type.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
