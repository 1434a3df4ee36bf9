package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/chabad360/miniosc/osc"
	"github.com/spf13/cobra"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		host      string
		port      int
		localPort int
		more      bool
	)

	cmd := &cobra.Command{
		Use:   "send PATH [TAG:VALUE...]",
		Short: "Send one message",
		Long: `Send one message. Each argument is written as <typetag>:<data>:

  i:42        int32
  f:0.5       float32
  s:hello     string
  b:deadbeef  blob, hex encoded`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") || a.cfg.RemoteHost == "" {
				a.cfg.RemoteHost = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.RemotePort = port
			}
			a.cfg.LocalPort = localPort

			oscArgs := make([]osc.Argument, 0, len(args)-1)
			for _, s := range args[1:] {
				arg, err := parseArg(s)
				if err != nil {
					return err
				}
				oscArgs = append(oscArgs, arg)
			}
			tags, err := osc.GetTypeTag(oscArgs)
			if err != nil {
				return err
			}
			msg := &osc.Message{Path: args[0], TypeTags: tags, Arguments: oscArgs}

			e, err := osc.Open(a.cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			var flags osc.SendFlag
			if more {
				flags |= osc.SendMore
			}
			if err := e.SendPacket(msg, flags); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", msg, e.RemoteAddr())
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "remote host")
	cmd.Flags().IntVarP(&port, "port", "p", 9000, "remote port")
	cmd.Flags().IntVar(&localPort, "local-port", 0, "source port (0 picks an ephemeral one)")
	cmd.Flags().BoolVar(&more, "more", false, "ask the kernel to coalesce with the next send")
	return cmd
}

const argsep = ":"

// parseArg parses a single <typetag>:<data> argument.
func parseArg(s string) (osc.Argument, error) {
	tag, data, ok := strings.Cut(s, argsep)
	if !ok || len(tag) != 1 {
		return nil, fmt.Errorf("argument %q: expected <typetag>:<data>", s)
	}

	switch osc.TypeTag(tag[0]) {
	case osc.TypeInt32:
		i, err := strconv.ParseInt(data, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", s, err)
		}
		return osc.Int32(i), nil
	case osc.TypeFloat32:
		f, err := strconv.ParseFloat(data, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", s, err)
		}
		return osc.Float32(f), nil
	case osc.TypeString:
		return osc.String(data), nil
	case osc.TypeBlob:
		b, err := hex.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", s, err)
		}
		return osc.Blob(b), nil
	default:
		return nil, fmt.Errorf("argument %q: unsupported type tag %q", s, tag)
	}
}
