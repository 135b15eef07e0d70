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

package matmul

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-parmul/par/contrib/matrix"
	"github.com/ajroetker/go-parmul/par/contrib/workerpool"
)

var poolSizes = []int{1, 2, 4, 17}

// withPoolHook reports the size of every pool Multiply starts.
func withPoolHook(f func(size int)) Option {
	return func(o *options) {
		o.onPool = func(p observedPool) { f(p.Size()) }
	}
}

// withPoolObserver hands the pool of each call to f.
func withPoolObserver(f func(p observedPool)) Option {
	return func(o *options) {
		o.onPool = f
	}
}

// withShortColumns drops the last n elements of every column of b, so the
// kernel sees operands of different lengths.
func withShortColumns(n int) Option {
	return func(o *options) {
		o.trimCols = n
	}
}

func mustNew[T int | int64 | float64 | complex128](t testing.TB, rows, cols int, data []T) *matrix.Matrix[T] {
	t.Helper()
	m, err := matrix.New(rows, cols, data)
	require.NoError(t, err)
	return m
}

func randomInt64(rng *rand.Rand, rows, cols int) []int64 {
	data := make([]int64, rows*cols)
	for i := range data {
		data[i] = rng.Int63n(201) - 100
	}
	return data
}

// matmulReference computes C = A * B with the textbook triple loop on raw
// slices. Used as reference for correctness testing.
func matmulReference(a, b []int64, m, n, k int) []int64 {
	c := make([]int64, m*n)
	for i := range m {
		for j := range n {
			var sum int64
			for p := range k {
				sum += a[i*k+p] * b[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return c
}

func TestMultiplySmall(t *testing.T) {
	// 2x3 * 3x2 = 2x2
	a := mustNew(t, 2, 3, []int{1, 2, 3, 4, 5, 6})
	b := mustNew(t, 3, 2, []int{1, 2, 3, 4, 5, 6})

	for _, p := range poolSizes {
		t.Run(fmt.Sprintf("P=%d", p), func(t *testing.T) {
			c, err := Multiply(a, b, WithWorkers(p))
			require.NoError(t, err)
			assert.Equal(t, [][]int{{22, 28}, {49, 64}}, c.ToRows())
		})
	}
}

func TestMultiplyOneByOne(t *testing.T) {
	c, err := Multiply(mustNew(t, 1, 1, []int{5}), mustNew(t, 1, 1, []int{7}))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{35}}, c.ToRows())
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	a := mustNew(t, 2, 3, []int{1, 2, 3, 4, 5, 6})
	b := mustNew(t, 2, 2, []int{1, 2, 3, 4})

	pools := 0
	c, err := Multiply(a, b, withPoolHook(func(int) { pools++ }))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, c)
	assert.Zero(t, pools, "no worker may start on a shape error")

	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "validate", merr.Op)
	assert.Equal(t, -1, merr.Index)
	assert.Contains(t, err.Error(), "a is 2x3, b is 2x2")
}

func TestMultiplyTooLarge(t *testing.T) {
	testCases := []struct {
		name       string
		rows, cols int
	}{
		{"cells overflow int", math.MaxInt / 2, 3},
		{"result exceeds heap", math.MaxInt32, math.MaxInt32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := matrix.Zeros[float64](tc.rows, 0)
			require.NoError(t, err)
			b, err := matrix.Zeros[float64](0, tc.cols)
			require.NoError(t, err)

			pools := 0
			c, err := Multiply(a, b, withPoolHook(func(int) { pools++ }))
			require.ErrorIs(t, err, ErrBadShape)
			assert.Nil(t, c)
			assert.Zero(t, pools)

			var merr *Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, "validate", merr.Op)

			_, err = MultiplySequential(a, b)
			assert.ErrorIs(t, err, ErrBadShape)
		})
	}
}

func TestMultiplyComputeFailureTearsDown(t *testing.T) {
	a := mustNew(t, 3, 4, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	b := mustNew(t, 4, 5, randomInt64(rand.New(rand.NewSource(7)), 4, 5))

	for _, workers := range poolSizes {
		t.Run(fmt.Sprintf("P=%d", workers), func(t *testing.T) {
			var pool observedPool
			c, err := Multiply(a, b,
				WithWorkers(workers),
				withShortColumns(1),
				withPoolObserver(func(p observedPool) { pool = p }))

			require.ErrorIs(t, err, ErrShapeMismatch)
			assert.Nil(t, c, "no partial result")

			var merr *Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, "compute", merr.Op)
			assert.Equal(t, 0, merr.Index)

			require.NotNil(t, pool)
			for w, s := range pool.States() {
				assert.Equal(t, workerpool.WorkerShutdown, s, "worker %d", w)
			}
			var handled uint64
			for _, st := range pool.Stats() {
				handled += st.Processed + st.FailedReplies
			}
			assert.Equal(t, uint64(3*5), handled, "every task is accounted for")
		})
	}
}

func TestMultiplyFailsIffInnerDimsDiffer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 50 {
		m, k1, k2, n := 1+rng.Intn(4), 1+rng.Intn(4), 1+rng.Intn(4), 1+rng.Intn(4)
		a := mustNew(t, m, k1, randomInt64(rng, m, k1))
		b := mustNew(t, k2, n, randomInt64(rng, k2, n))

		c, err := Multiply(a, b, WithWorkers(2))
		if k1 != k2 {
			assert.ErrorIs(t, err, ErrDimensionMismatch, "%dx%d * %dx%d", m, k1, k2, n)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, m, c.Rows())
		assert.Equal(t, n, c.Cols())
	}
}

func TestMultiplyNil(t *testing.T) {
	a := mustNew(t, 1, 1, []int{1})
	_, err := Multiply(a, nil)
	assert.ErrorIs(t, err, ErrNilMatrix)
	_, err = Multiply(nil, a)
	assert.ErrorIs(t, err, ErrNilMatrix)
}

func TestMultiplyMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	shapes := []struct{ m, k, n int }{
		{1, 1, 1},
		{3, 5, 2},
		{7, 1, 9},
		{16, 16, 16},
		{33, 17, 5},
	}

	for _, s := range shapes {
		ad := randomInt64(rng, s.m, s.k)
		bd := randomInt64(rng, s.k, s.n)
		want := matmulReference(ad, bd, s.m, s.n, s.k)

		for _, p := range poolSizes {
			t.Run(fmt.Sprintf("%dx%dx%d/P=%d", s.m, s.k, s.n, p), func(t *testing.T) {
				c, err := Multiply(mustNew(t, s.m, s.k, ad), mustNew(t, s.k, s.n, bd), WithWorkers(p))
				require.NoError(t, err)

				r, cols := c.Dims()
				assert.Equal(t, s.m, r)
				assert.Equal(t, s.n, cols)
				if diff := cmp.Diff(want, c.Data()); diff != "" {
					t.Errorf("product mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestEveryIndexWrittenOnce(t *testing.T) {
	// A[i] = {i, 1} and B = {{n...}, {0..n-1}} make C[i][j] = i*n + j, so
	// every cell holds its own row-major index.
	const m, n = 13, 11
	ad := make([]int, 0, m*2)
	for i := range m {
		ad = append(ad, i, 1)
	}
	bd := make([]int, 2*n)
	for j := range n {
		bd[j] = n
		bd[n+j] = j
	}
	want := make([]int, m*n)
	for i := range want {
		want[i] = i
	}

	for _, p := range poolSizes {
		t.Run(fmt.Sprintf("P=%d", p), func(t *testing.T) {
			c, err := Multiply(mustNew(t, m, 2, ad), mustNew(t, 2, n, bd), WithWorkers(p))
			require.NoError(t, err)
			if diff := cmp.Diff(want, c.Data()); diff != "" {
				t.Errorf("index layout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMultiplyDeterministicIntegers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := mustNew(t, 20, 30, randomInt64(rng, 20, 30))
	b := mustNew(t, 30, 10, randomInt64(rng, 30, 10))

	for _, p := range poolSizes {
		first, err := Multiply(a, b, WithWorkers(p))
		require.NoError(t, err)
		for range 5 {
			again, err := Multiply(a, b, WithWorkers(p))
			require.NoError(t, err)
			require.True(t, first.Equal(again), "P=%d: repeated call differs", p)
		}
	}
}

func TestMultiplyFloat64AgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const m, k, n = 24, 31, 19

	ad := make([]float64, m*k)
	bd := make([]float64, k*n)
	for i := range ad {
		ad[i] = rng.Float64()*2 - 1
	}
	for i := range bd {
		bd[i] = rng.Float64()*2 - 1
	}

	var want mat.Dense
	want.Mul(mat.NewDense(m, k, append([]float64(nil), ad...)), mat.NewDense(k, n, append([]float64(nil), bd...)))

	for _, p := range poolSizes {
		c, err := Multiply(mustNew(t, m, k, ad), mustNew(t, k, n, bd), WithWorkers(p))
		require.NoError(t, err)

		var maxErr float64
		for i := range m {
			for j := range n {
				got, err := c.At(i, j)
				require.NoError(t, err)
				maxErr = math.Max(maxErr, math.Abs(got-want.At(i, j)))
			}
		}
		const tolerance = 1e-12
		assert.LessOrEqual(t, maxErr, tolerance, "P=%d", p)
	}
}

func TestMultiplySequentialAgrees(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := mustNew(t, 9, 4, randomInt64(rng, 9, 4))
	b := mustNew(t, 4, 6, randomInt64(rng, 4, 6))

	seq, err := MultiplySequential(a, b)
	require.NoError(t, err)
	parallel, err := Multiply(a, b)
	require.NoError(t, err)
	assert.True(t, seq.Equal(parallel))

	_, err = MultiplySequential(a, a)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMultiplyComplex(t *testing.T) {
	a := mustNew(t, 1, 2, []complex128{1i, 2})
	b := mustNew(t, 2, 1, []complex128{1i, 3})
	c, err := Multiply(a, b)
	require.NoError(t, err)
	v, _ := c.At(0, 0)
	assert.Equal(t, complex(5, 0), v)
}

func TestMultiplyEmpty(t *testing.T) {
	testCases := []struct {
		name          string
		m, k, n       int
		rows, columns int
	}{
		{"0xK times KxN", 0, 3, 2, 0, 2},
		{"MxK times Kx0", 2, 3, 0, 2, 0},
		{"Mx0 times 0xN", 2, 0, 3, 2, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustNew(t, tc.m, tc.k, make([]int, tc.m*tc.k))
			b := mustNew(t, tc.k, tc.n, make([]int, tc.k*tc.n))
			c, err := Multiply(a, b)
			require.NoError(t, err)
			assert.Equal(t, tc.rows, c.Rows())
			assert.Equal(t, tc.columns, c.Cols())
			for _, v := range c.Data() {
				assert.Zero(t, v)
			}
		})
	}
}

func TestMultiplyDefaultPoolSize(t *testing.T) {
	a := mustNew(t, 2, 2, []int{1, 0, 0, 1})
	var sizes []int
	hook := withPoolHook(func(size int) { sizes = append(sizes, size) })

	_, err := Multiply(a, a, hook)
	require.NoError(t, err)
	_, err = Multiply(a, a, WithWorkers(0), hook)
	require.NoError(t, err)
	_, err = Multiply(a, a, WithWorkers(3), hook)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 4, 3}, sizes)
}

func TestMultiplyLogsCallID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := mustNew(t, 2, 2, []int{1, 2, 3, 4})
	_, err := Multiply(a, a, WithLogger(logger), WithWorkers(2))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "tasks dispatched")
	assert.Contains(t, out, "results collected")
	assert.Contains(t, out, "call=")
	assert.Contains(t, out, "worker stopped")
}

func TestDispatchOnClosedPool(t *testing.T) {
	a := mustNew(t, 2, 2, []int{1, 2, 3, 4})
	pool := workerpool.New[int](2, 4, nil)
	require.NoError(t, pool.Close())

	replies := make([]*workerpool.Reply[int], 4)
	err := dispatch(pool, a, a, replies, 0)
	require.ErrorIs(t, err, ErrChannelFailure)
	require.ErrorIs(t, err, workerpool.ErrPoolClosed)

	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "dispatch", merr.Op)
	assert.Equal(t, 0, merr.Index)
}

func TestCollectErrors(t *testing.T) {
	t.Run("kernel error", func(t *testing.T) {
		replies := []*workerpool.Reply[int]{workerpool.NewReply[int](), workerpool.NewReply[int]()}
		require.NoError(t, replies[0].Send(workerpool.Result[int]{Index: 0, Value: 1}))
		require.NoError(t, replies[1].Send(workerpool.Result[int]{Index: 1, Err: fmt.Errorf("boom: %w", ErrShapeMismatch)}))

		data, err := collect(replies)
		assert.Nil(t, data, "no partial result")
		require.ErrorIs(t, err, ErrShapeMismatch)
		var merr *Error
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "compute", merr.Op)
		assert.Equal(t, 1, merr.Index)
	})

	t.Run("misrouted reply", func(t *testing.T) {
		reply := workerpool.NewReply[int]()
		require.NoError(t, reply.Send(workerpool.Result[int]{Index: 5}))

		_, err := collect([]*workerpool.Reply[int]{reply})
		assert.ErrorIs(t, err, ErrChannelFailure)
	})

	t.Run("consumed reply", func(t *testing.T) {
		reply := workerpool.NewReply[int]()
		require.NoError(t, reply.Send(workerpool.Result[int]{Index: 0}))
		_, err := reply.Recv()
		require.NoError(t, err)

		_, err = collect([]*workerpool.Reply[int]{reply})
		assert.ErrorIs(t, err, ErrChannelFailure)
	})
}

func BenchmarkMultiply(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{16, 64, 128} {
		a := mustNew(b, size, size, randomInt64(rng, size, size))
		c := mustNew(b, size, size, randomInt64(rng, size, size))

		b.Run(fmt.Sprintf("%d/sequential", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = MultiplySequential(a, c)
			}
		})
		for _, p := range []int{1, 4} {
			b.Run(fmt.Sprintf("%d/P=%d", size, p), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_, _ = Multiply(a, c, WithWorkers(p))
				}
			})
		}
	}
}
