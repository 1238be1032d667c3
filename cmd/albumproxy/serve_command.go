package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/album-proxy/internal/server"
	"github.com/Sternrassler/album-proxy/internal/tracing"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			shutdownTracing, err := tracing.InitProvider(runCtx, tracing.Config{
				ServiceName:    cfg.Tracing.ServiceName,
				ServiceVersion: version,
				OTLPEndpoint:   cfg.Tracing.Endpoint,
				Enabled:        cfg.Tracing.Enabled,
				SampleRatio:    cfg.Tracing.SampleRatio,
			})
			tracingEnabled := cfg.Tracing.Enabled
			if err != nil {
				log.Warn().Err(err).Msg("Failed to initialize tracing, continuing without it")
				tracingEnabled = false
				shutdownTracing = func(context.Context) error { return nil }
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(flushCtx); err != nil {
					log.Warn().Err(err).Msg("Tracing shutdown failed")
				}
			}()

			service, client, err := ctx.newService()
			if err != nil {
				return err
			}
			defer client.Close()

			srv, err := server.New(server.Config{
				BasePath:        cfg.Server.BasePath,
				ShutdownTimeout: cfg.ShutdownTimeout(),
				Tracing:         tracingEnabled,
				ServiceName:     cfg.Tracing.ServiceName,
			}, service)
			if err != nil {
				return err
			}

			log.Info().
				Str("version", version).
				Str("upstream", cfg.Upstream.URL).
				Str("config", ctx.configPath).
				Msg("Album proxy starting")

			return srv.Run(runCtx, cfg.Server.Listen)
		},
	}
}
