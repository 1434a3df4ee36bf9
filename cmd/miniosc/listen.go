package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/chabad360/miniosc/osc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newListenCmd(a *app) *cobra.Command {
	var (
		port    int
		count   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print every message arriving on a port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.LocalPort = port
			}
			a.cfg.RemoteHost = ""

			e, err := osc.Open(a.cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "listening on %s\n", e.LocalAddr())

			received := 0
			h := func(m *osc.Message) {
				received++
				fmt.Fprintln(out, m)
			}

			ctx := cmd.Context()
			if !cmd.Flags().Changed("timeout") {
				timeout = a.pollTimeout()
			}
			for count <= 0 || received < count {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				if _, err := e.Poll(timeout, h); err != nil {
					if errors.Is(err, osc.ErrProtocol) || errors.Is(err, osc.ErrTransport) {
						a.log.Warn("dropped datagram", zap.Error(err))
						continue
					}
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 9001, "local port")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "poll timeout (defaults to poll_timeout_ms from the config)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after this many messages (0 runs until interrupted)")
	return cmd
}
