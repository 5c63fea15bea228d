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

// Package census counts live, total and peak-live instances per type with
// near-zero overhead.
//
// Embed a Count in the type you want tracked and release it from the owner's
// cleanup path:
//
//	type Widget struct {
//		c census.Count[Widget]
//	}
//
//	func NewWidget() *Widget {
//		return &Widget{c: census.NewCount[Widget]()}
//	}
//
//	func (w *Widget) Close() {
//		w.c.Release()
//	}
//
// Counting is disabled by default and is a relaxed load and a branch while it
// stays off, so Count fields are safe to leave in library types. Call
// census.Enable(true) early in main to turn it on:
//
//	census.Enable(os.Getenv("CENSUS") != "")
//	defer census.ExitReport(os.Stderr)()
//
// Counter updates are relaxed: a snapshot racing with writers may be
// transiently inconsistent (for example Live above MaxLive) and an increment
// on one goroutine is only eventually visible to readers on another. The
// numbers are exact once the writers have quiesced.
package census

import (
	"reflect"
	"slices"
	"strings"

	"github.com/censuslib/census/internal/engine"
)

// Enable turns counting on or off process-wide. Counting is disabled by
// default.
//
// The switch is not a barrier: constructions and releases racing with a
// toggle may observe either state.
func Enable(yes bool) {
	engine.Enable(yes)
}

// Enabled reports whether counting is on.
func Enabled() bool {
	return engine.Enabled()
}

// Get returns the counts for the type T. A type that has never been counted
// reads as zero.
func Get[T any]() Counts {
	c := engine.Get(keyOf[T]())
	return Counts{
		Total:   c.Total,
		MaxLive: c.MaxLive,
		Live:    c.Live,
	}
}

// GetAll returns the counts for every type observed so far, sorted by display
// name.
func GetAll() AllCounts {
	cells := engine.Cells()
	entries := make([]Entry, 0, len(cells))
	for _, cell := range cells {
		c := cell.Read()
		entries = append(entries, Entry{
			Name: cell.Name(),
			Counts: Counts{
				Total:   c.Total,
				MaxLive: c.MaxLive,
				Live:    c.Live,
			},
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return AllCounts{Entries: entries}
}

// keyOf returns the process-stable key of T. The runtime canonicalizes type
// descriptors, so every call for the same T yields the same key.
func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
