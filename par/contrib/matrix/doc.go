// Copyright 2025 go-highway Authors
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

// Package matrix provides a dense, row-major matrix over any par.Number.
//
// Element (i, j) lives at data[i*cols+j]. A Matrix is never mutated after
// construction, so it can be read from many goroutines at once:
//
//	a, err := matrix.New(2, 3, []int{1, 2, 3, 4, 5, 6})
//	row := a.Row(1)  // zero-copy view {4, 5, 6}
//	col := a.Col(2)  // owned copy {3, 6}
//
// Row and Col trust their index argument; they are meant for callers that
// already validated shapes, such as the multiply orchestrator. At performs
// bounds checking and returns ErrOutOfRange instead.
package matrix
