package main

import (
	"github.com/chabad360/miniosc/internal/demo"
	"github.com/spf13/cobra"
)

func newDemoCmd(a *app) *cobra.Command {
	cfg := demo.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a loop-back exchange between two local endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = a.log
			totals, err := demo.Run(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return totals.Check(cfg.Frames)
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "address both endpoints use")
	cmd.Flags().IntVar(&cfg.PortA, "port-a", cfg.PortA, "port of the first endpoint")
	cmd.Flags().IntVar(&cfg.PortB, "port-b", cfg.PortB, "port of the second endpoint")
	cmd.Flags().IntVar(&cfg.Frames, "frames", cfg.Frames, "number of frames to send")
	cmd.Flags().IntVar(&cfg.Drain, "drain", cfg.Drain, "polls to wait for stragglers")
	return cmd
}
