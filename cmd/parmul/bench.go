package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parmul/internal/matrixio"
	"github.com/ajroetker/go-parmul/par/contrib/matmul"
	"github.com/ajroetker/go-parmul/par/contrib/matrix"
)

type benchOptions struct {
	sizes   []int
	workers []int
	repeat  int
	seed    int64
}

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the worker pool against the sequential multiply",
		Long: `Bench multiplies random NxN matrices with the sequential reference and
with the worker pool at every requested pool size, checks that the results
agree and reports the best time of --repeat runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var o benchOptions
			o.sizes, _ = cmd.Flags().GetIntSlice("size")
			o.workers, _ = cmd.Flags().GetIntSlice("workers")
			o.repeat, _ = cmd.Flags().GetInt("repeat")
			o.seed, _ = cmd.Flags().GetInt64("seed")
			dtype, _ := cmd.Flags().GetString("dtype")

			if len(o.workers) == 0 {
				o.workers = []int{a.cfg.Workers}
			}
			if o.repeat < 1 {
				return fmt.Errorf("--repeat must be >= 1, got %d", o.repeat)
			}
			for _, s := range o.sizes {
				if s < 1 {
					return fmt.Errorf("--size values must be >= 1, got %d", s)
				}
			}

			switch dtype {
			case "int64":
				return runBench(cmd, a, o, func(r *rand.Rand) int64 { return r.Int63n(201) - 100 })
			case "float64":
				return runBench(cmd, a, o, func(r *rand.Rand) float64 { return r.Float64()*2 - 1 })
			default:
				return fmt.Errorf("unknown dtype %q (want int64 or float64)", dtype)
			}
		},
	}
	cmd.Flags().IntSlice("size", []int{64, 128}, "Matrix sizes N (NxN)")
	cmd.Flags().IntSlice("workers", nil, "Pool sizes to try (default from config)")
	cmd.Flags().Int("repeat", 3, "Runs per measurement; the fastest is reported")
	cmd.Flags().Int64("seed", 1, "Random seed")
	cmd.Flags().String("dtype", "float64", "Element type: int64, float64")
	return cmd
}

func runBench[T matrixio.Scalar](cmd *cobra.Command, a *app, o benchOptions, gen func(*rand.Rand) T) error {
	rng := rand.New(rand.NewSource(o.seed))
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tWORKERS\tSEQUENTIAL\tPARALLEL\tSPEEDUP")

	for _, n := range o.sizes {
		ma := randomMatrix(rng, n, gen)
		mb := randomMatrix(rng, n, gen)

		want, seq, err := best(o.repeat, func() (*matrix.Matrix[T], error) {
			return matmul.MultiplySequential(ma, mb)
		})
		if err != nil {
			return err
		}

		for _, p := range o.workers {
			got, parallel, err := best(o.repeat, func() (*matrix.Matrix[T], error) {
				return matmul.Multiply(ma, mb, matmul.WithWorkers(p), matmul.WithLogger(a.logger))
			})
			if err != nil {
				return err
			}
			if d := maxAbsDiff(want, got); d > 1e-9*float64(n) {
				return fmt.Errorf("size %d, %d workers: result differs from sequential by %g", n, p, d)
			}
			a.logger.Debug("bench point",
				slog.Int("size", n),
				slog.Int("workers", p),
				slog.Duration("sequential", seq),
				slog.Duration("parallel", parallel))
			fmt.Fprintf(tw, "%d\t%d\t%v\t%v\t%.2fx\n", n, p, seq, parallel, float64(seq)/float64(parallel))
		}
	}
	return tw.Flush()
}

// best runs fn repeat times and returns its last result and the fastest time.
func best[T matrixio.Scalar](repeat int, fn func() (*matrix.Matrix[T], error)) (*matrix.Matrix[T], time.Duration, error) {
	var (
		result  *matrix.Matrix[T]
		timings = make([]time.Duration, 0, repeat)
	)
	for range repeat {
		start := time.Now()
		m, err := fn()
		if err != nil {
			return nil, 0, err
		}
		timings = append(timings, time.Since(start))
		result = m
	}
	return result, lo.Min(timings), nil
}

func randomMatrix[T matrixio.Scalar](rng *rand.Rand, n int, gen func(*rand.Rand) T) *matrix.Matrix[T] {
	data := make([]T, n*n)
	for i := range data {
		data[i] = gen(rng)
	}
	m, _ := matrix.New(n, n, data)
	return m
}

func maxAbsDiff[T matrixio.Scalar](a, b *matrix.Matrix[T]) float64 {
	ad, bd := a.Data(), b.Data()
	var d float64
	for i := range ad {
		d = math.Max(d, math.Abs(float64(ad[i])-float64(bd[i])))
	}
	return d
}
