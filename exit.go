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
	"io"
	"sync"
)

// ExitReport returns a function that writes the counts of every observed type
// to w the first time it is called. Defer it at the top of main to get a
// final report at normal process termination:
//
//	func main() {
//		census.Enable(true)
//		defer census.ExitReport(os.Stderr)()
//		// ...
//	}
//
// The report is best effort: it never runs when the process terminates
// abnormally (os.Exit, panic in another goroutine, signals) and write errors
// are discarded.
func ExitReport(w io.Writer) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			_, _ = io.WriteString(w, GetAll().String())
		})
	}
}
