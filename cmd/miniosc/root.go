package main

import (
	"fmt"
	"time"

	"github.com/chabad360/miniosc/osc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by the subcommands of one root command.
type app struct {
	cfgFile  string
	logLevel string

	cfg *osc.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "miniosc",
		Short: "Send and receive Open Sound Control messages over UDP",
		Long: `miniosc speaks the i/f/s/b subset of Open Sound Control over UDP.
It can send a single message, print everything arriving on a port, or run
a loop-back exchange between two local endpoints.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := osc.LoadConfig(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := newLogger(a.logLevel)
			if err != nil {
				return err
			}
			cfg.Logger = log

			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "miniosc.yaml", "config file (.yaml or .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newSendCmd(a), newListenCmd(a), newDemoCmd(a))
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	return zc.Build()
}

// pollTimeout returns the configured poll timeout.
func (a *app) pollTimeout() time.Duration {
	if a.cfg.PollTimeoutMs <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(a.cfg.PollTimeoutMs) * time.Millisecond
}
