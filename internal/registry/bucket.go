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

package registry

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/censuslib/census/internal/counter"
	"github.com/censuslib/census/internal/xruntime"
)

// entry binds a type key to its cell. Entries are published into buckets with
// atomic pointer stores and are immutable afterwards.
type entry struct {
	key  reflect.Type
	cell *counter.Cell
}

// <= 2 cache lines.
type paddedBucket struct {
	padding [2*xruntime.CacheLineSize - unsafe.Sizeof(bucket{})]byte

	bucket
}

type bucket struct {
	mutex   sync.Mutex
	seq     uint64
	hashes  [bucketSize]uint64
	entries [bucketSize]unsafe.Pointer
}

func (b *paddedBucket) add(h uint64, entryPtr unsafe.Pointer) {
	for i := 0; i < bucketSize; i++ {
		if b.entries[i] == nil {
			b.hashes[i] = h
			b.entries[i] = entryPtr
			return
		}
	}
}
