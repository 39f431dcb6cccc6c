package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/cv-builder/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local editor server",
	Long:  `Start an HTTP server on the loopback interface that exposes the document, saved CVs, previews and exports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	return withApp(cmd, func(a *app) error {
		if serveHost != "" {
			a.cfg.Host = serveHost
		}
		if servePort != 0 {
			a.cfg.Port = servePort
		}

		srv, err := server.New(server.Options{
			Addr:        a.cfg.Addr(),
			Store:       a.store,
			Exports:     a.exports,
			Registry:    a.registry,
			Broadcaster: a.broadcaster,
			Metrics:     a.metrics,
			Logger:      a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		a.logger.Info("cv builder ready",
			zap.String("url", "http://"+a.cfg.Addr()),
			zap.String("storage", a.cfg.StorageBackend),
			zap.Bool("pdf", a.exports.CanPrintPDF()))
		//nolint:errcheck // best-effort banner
		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", a.cfg.Addr())

		return srv.Start(ctx)
	})
}
