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

// Package matmul multiplies dense matrices by fanning one dot product per
// output cell out to a call-scoped worker pool and fanning the results back in.
//
// Example usage:
//
//	// C = A * B where A is MxK, B is KxN, C is MxN
//	a, _ := matrix.New(2, 3, []int{1, 2, 3, 4, 5, 6})
//	b, _ := matrix.New(3, 2, []int{1, 2, 3, 4, 5, 6})
//
//	c, err := matmul.Multiply(a, b, matmul.WithWorkers(4))
//	// c = [[22 28] [49 64]]
//
// Every call goes through the same phases:
//   - validate shapes (no goroutine is started on failure)
//   - start a pool of P workers, each with a private queue
//   - route the task for output index i*N+j to worker (i*N+j) mod P
//   - enqueue every task before waiting on any reply
//   - collect replies and write each value at its index
//   - close the pool, on success and on failure alike
//
// Either a fully populated matrix is returned or an error; never a partial
// result. MultiplySequential computes the same product on the calling
// goroutine with the same summation order, and serves as a reference.
package matmul
