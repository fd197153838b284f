package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nDmitry/weibocard/internal/api/rest"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve index feeds and rendered posts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := app.Logger()

			cfg, err := loadConfig(root)

			if err != nil {
				return err
			}

			if port != "" {
				cfg.HTTPServerPort = port
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				select {
				case <-sigChan:
				case <-ctx.Done():
					return
				}

				logger.Info("Received first shutdown signal, starting graceful shutdown...")
				cancel()

				// If we receive a second signal, exit immediately
				<-sigChan
				logger.Info("Received second shutdown signal, exiting immediately...")
				os.Exit(1)
			}()

			c, err := newCache(ctx, cfg)

			if err != nil {
				return err
			}

			defer c.Close()

			renderer, err := newRenderer(cfg, c)

			if err != nil {
				return err
			}

			server := rest.NewServer(c, feed.NewDefaultFetcher(), &feed.Generator{}, renderer, cfg)

			if err := server.Run(ctx); err != nil {
				return err
			}

			logger.Info("Server exited gracefully")

			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port, overrides the config and HTTP_SERVER_PORT")

	return cmd
}
