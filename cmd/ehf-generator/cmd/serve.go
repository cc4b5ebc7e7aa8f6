package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/server"
)

var (
	serverAddr  string
	serverDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for generating EHF invoices.

The API provides endpoints for:
  - POST /api/v1/generate           - JSON record to EHF XML
  - POST /api/v1/generate/envelope  - XML plus routing as JSON
  - POST /api/v1/validate           - Check a record
  - POST /api/v1/send               - Generate and queue in the outbox
  - POST /api/v1/inspect            - Summarize an EHF document
  - GET  /health                    - Health check

Address and timeouts come from the server section of ehf.yaml or
EHF_SERVER_* variables; flags override them.

Examples:
  # Start server on the configured address
  ehf-generator serve

  # Start on a custom port in debug mode
  ehf-generator serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from config)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug || serverDebug,
	}
	if serverAddr != "" {
		config.Address = serverAddr
	}

	registry, err := newRegistry(context.Background())
	if err != nil {
		return err
	}

	srv := server.NewServer(config,
		server.WithPipeline(newPipeline()),
		server.WithRegistry(registry),
		server.WithLogger(log),
	)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		_ = log.Sync()
		os.Exit(0)
	}()

	log.Info("starting server",
		zap.String("address", config.Address),
		zap.String("archive", cfg.Archive.Driver),
		zap.Any("capabilities", registry.Capabilities()))

	return srv.Run()
}
