package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parmul/par"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print CPU information and effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := par.CurrentCPU()
			features := strings.Join(info.Features, ",")
			if features == "" {
				features = "none detected"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "arch:            %s\n", info.Arch)
			fmt.Fprintf(w, "cpus:            %d (GOMAXPROCS %d)\n", info.NumCPU, info.GOMAXPROCS)
			fmt.Fprintf(w, "cache line:      %d bytes\n", info.CacheLineSize)
			fmt.Fprintf(w, "features:        %s\n", features)
			fmt.Fprintf(w, "workers:         %d (default %d)\n", a.cfg.Workers, par.DefaultWorkers)
			fmt.Fprintf(w, "log:             %s/%s\n", a.cfg.LogLevel, a.cfg.LogFormat)
			return nil
		},
	}
}
