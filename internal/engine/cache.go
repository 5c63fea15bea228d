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

package engine

import (
	"reflect"
	"sync"

	"github.com/dolthub/swiss"

	"github.com/censuslib/census/internal/counter"
)

const initCacheCapacity = 8

// cache is a warm map of type key to cell in front of the registry. Caches
// live in a sync.Pool, which keeps a free cache per P: a goroutine counting
// in a tight loop keeps getting the same cache back without contending with
// other threads. The cache holds non-owning references into registry-owned
// cells, so the pool dropping a cache under GC pressure costs nothing but a
// later registry lookup.
type cache struct {
	cells *swiss.Map[reflect.Type, *counter.Cell]
}

var cachePool sync.Pool

func getCache() *cache {
	c, ok := cachePool.Get().(*cache)
	if !ok {
		c = &cache{
			cells: swiss.NewMap[reflect.Type, *counter.Cell](initCacheCapacity),
		}
	}
	return c
}

func putCache(c *cache) {
	cachePool.Put(c)
}
