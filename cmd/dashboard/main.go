package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/internal/config"
	"github.com/bloodlink/dashboard/internal/logging"
)

// Version will be set by the build system
var Version = "dev"

var configPath string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dashboard version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
		return err
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bloodlink-dashboard",
		Short:         "BloodLink Dashboard",
		Long:          "BloodLink dashboard for patients, hospitals, blood banks and admins.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	cmd.AddCommand(
		versionCmd,
		serveCmd(),
		statusCmd(),
		logoutCmd(),
	)

	return cmd
}

// setup loads the configuration and installs the default logger
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, oops.In("main").Wrapf(err, "Failed to load the configuration")
	}

	if err := logging.InitAsDefault(cfg.Logger, os.Stderr); err != nil {
		return nil, oops.In("main").Wrapf(err, "Failed to initialise the logger")
	}

	return cfg, nil
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "Failed to run the dashboard", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)

		return err
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
