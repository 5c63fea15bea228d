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

	"github.com/dolthub/maphash"
)

// Option configures a Registry.
type Option func(*options)

type options struct {
	initEntryCount int
	hasher         func(reflect.Type) uint64
}

func defaultOptions() *options {
	hasher := maphash.NewHasher[reflect.Type]()
	return &options{
		initEntryCount: minEntryCount,
		hasher:         hasher.Hash,
	}
}

// WithHasher replaces the default runtime-seeded hasher.
func WithHasher(hasher func(reflect.Type) uint64) Option {
	return func(o *options) {
		o.hasher = hasher
	}
}

// WithEntryCount sizes the initial table for the expected number of distinct
// counted types.
func WithEntryCount(initEntryCount int) Option {
	return func(o *options) {
		o.initEntryCount = initEntryCount
	}
}
