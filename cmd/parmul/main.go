// Command parmul multiplies matrices on a fixed pool of worker goroutines.
//
// Usage:
//
//	parmul multiply --a a.yaml --b b.yaml --workers 4
//	parmul bench --size 64,128 --workers 1,2,4
//	parmul info
//
// Configuration is read from --config (YAML), then PARMUL_* environment
// variables, then flags.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parmul/internal/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "parmul",
		Short: "parmul - concurrent dense matrix multiplication",
		Long: `parmul multiplies dense matrices by distributing one dot product per
output cell across a fixed pool of worker goroutines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, logOut)
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parmul v%s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(newMultiplyCmd(a))
	rootCmd.AddCommand(newBenchCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))

	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, logOut io.Writer) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		cfg.LogFormat = f.Value.String()
	}
	// Subcommands that take a single pool size expose it as --workers.
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed && f.Value.Type() == "int" {
		n, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = n
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger(logOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	logger.Debug("configuration loaded", slog.String("config", cfg.String()))
	return nil
}
