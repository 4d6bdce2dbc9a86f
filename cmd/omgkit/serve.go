package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/server"
	"github.com/doanchienthangdev/omgkit/pkg/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content catalog over HTTP",
	Long: `Start a read-only HTTP API exposing commands, agents, skills, workflows,
and installed packs. The catalog reloads automatically when content changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := &server.Config{
			Host: viper.GetString("serve_host"),
			Port: viper.GetInt("serve_port"),
		}
		return runServe(cmd.Context(), config)
	},
}

func init() {
	serveCmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().Int("port", 7777, "Port to listen on")

	viper.BindPFlag("serve_host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("serve_port", serveCmd.Flags().Lookup("port"))
}

func runServe(ctx context.Context, config *server.Config) error {
	discovery, err := packs.NewDiscovery()
	if err != nil {
		return errors.Wrap(err, "failed to create pack discovery")
	}

	srv, err := server.NewServer(ctx, config, discovery)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w, err := watcher.New(0)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(contentRoots(discovery)...); err != nil {
		return err
	}

	go func() {
		err := w.Watch(ctx, func() {
			if err := srv.Reload(ctx); err != nil {
				logger.G(ctx).WithError(err).Warn("catalog reload failed")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.G(ctx).WithError(err).Warn("content watcher stopped")
		}
	}()

	return srv.Start(ctx)
}
