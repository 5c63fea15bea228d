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
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Counts is a point-in-time view of one type's counters. The three fields are
// read independently, so a view taken while other goroutines construct or
// release instances may be mutually inconsistent; it becomes exact once the
// writers quiesce.
type Counts struct {
	// Total is the number of instances ever created.
	Total uint64
	// MaxLive is the historical peak of Live.
	MaxLive uint64
	// Live is the number of instances created but not yet released.
	Live uint64
}

// Entry is the counts of a single type.
type Entry struct {
	// Name is the display name of the type.
	Name string
	// Counts is the type's current counts.
	Counts Counts
}

// AllCounts is the counts of every type observed so far, sorted by name.
type AllCounts struct {
	Entries []Entry
}

// String renders one line per type: the name left-aligned and padded to the
// longest name present, then total, max_live and live right-aligned and
// grouped in thousands with an underscore separator, followed by a header
// line labeling the columns.
func (ac AllCounts) String() string {
	if len(ac.Entries) == 0 {
		if Enabled() {
			return "all counts are zero\n"
		}
		return "counts are disabled\n"
	}

	maxWidth := 0
	for _, e := range ac.Entries {
		if width := utf8.RuneCountInString(e.Name); width > maxWidth {
			maxWidth = width
		}
	}

	var sb strings.Builder
	for _, e := range ac.Entries {
		fmt.Fprintf(
			&sb, "%-*s  %12s %12s %12s\n",
			maxWidth, e.Name, sep(e.Counts.Total), sep(e.Counts.MaxLive), sep(e.Counts.Live),
		)
	}
	fmt.Fprintf(&sb, "%-*s  %12s %12s %12s\n", maxWidth, "", "total", "max_live", "live")
	return sb.String()
}

// sep groups n in thousands with an underscore separator: 1234567 becomes
// "1_234_567".
func sep(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	var sb strings.Builder
	sb.Grow(len(s) + (len(s)-lead)/3)
	sb.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		sb.WriteByte('_')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
