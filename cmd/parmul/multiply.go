package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parmul/internal/matrixio"
	"github.com/ajroetker/go-parmul/par/contrib/matmul"
)

func newMultiplyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multiply",
		Short: "Multiply two matrices read from YAML files",
		Long: `Multiply reads A and B from YAML matrix documents, computes A*B on the
worker pool and writes the product as YAML to stdout or --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			aPath, _ := cmd.Flags().GetString("a")
			bPath, _ := cmd.Flags().GetString("b")
			out, _ := cmd.Flags().GetString("out")
			dtype, _ := cmd.Flags().GetString("dtype")

			switch dtype {
			case "int64":
				return runMultiply[int64](cmd, a, aPath, bPath, out)
			case "float64":
				return runMultiply[float64](cmd, a, aPath, bPath, out)
			default:
				return fmt.Errorf("unknown dtype %q (want int64 or float64)", dtype)
			}
		},
	}
	cmd.Flags().String("a", "", "Path to matrix A (required)")
	cmd.Flags().String("b", "", "Path to matrix B (required)")
	cmd.Flags().String("out", "", "Write the product to this file instead of stdout")
	cmd.Flags().String("dtype", "float64", "Element type: int64, float64")
	cmd.Flags().Int("workers", 0, "Worker pool size (default from config)")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func runMultiply[T matrixio.Scalar](cmd *cobra.Command, a *app, aPath, bPath, out string) error {
	ma, err := matrixio.ReadFile[T](aPath)
	if err != nil {
		return err
	}
	mb, err := matrixio.ReadFile[T](bPath)
	if err != nil {
		return err
	}

	c, err := matmul.Multiply(ma, mb, matmul.WithWorkers(a.cfg.Workers), matmul.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Info("multiply done",
		slog.Int("rows", c.Rows()),
		slog.Int("cols", c.Cols()),
		slog.Int("workers", a.cfg.Workers))

	if out != "" {
		return matrixio.WriteFile(out, c)
	}
	return matrixio.Write(cmd.OutOrStdout(), c)
}
