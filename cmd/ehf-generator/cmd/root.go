package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/config"
	"github.com/rezonia/ehf-generator/internal/logger"
	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/processor"
	"github.com/rezonia/ehf-generator/internal/transmit"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string
	logLevel     string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ehf-generator",
	Short: "Generate EHF (PEPPOL BIS Billing 3.0) invoices",
	Long: `EHF Generator turns flat invoice records into PEPPOL BIS Billing 3.0
UBL invoices for Norwegian e-invoicing.

Input is JSON: one invoice record object, or an array of them.

Examples:
  # Generate an invoice to stdout
  ehf-generator generate invoice.json

  # Generate every record in a directory into out/
  ehf-generator generate records/ -o out/

  # Check records without producing XML
  ehf-generator validate invoice.json

  # Summarize a generated document
  ehf-generator inspect out/INV-77.xml`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: ehf.yaml in ., ./config, /etc/ehf-generator)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: EHF_LOG_LEVEL)")
}

// initConfig loads the config file and environment, then applies flags
func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Log.Level = logLevel
	} else if verbose {
		cfg.Log.Level = "debug"
	}

	l, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	log = l
	return nil
}

func newPipeline() *processor.Pipeline {
	return processor.NewPipeline(
		processor.WithLogger(log),
		processor.WithRules(cfg.Rules),
	)
}

// newRegistry registers the outbox for EHF delivery on the configured
// archive
func newRegistry(ctx context.Context) (*transmit.Registry, error) {
	store, err := cfg.Archive.Store(ctx, log)
	if err != nil {
		return nil, err
	}

	registry := transmit.NewRegistry()
	registry.Register(model.DeliveryEHF, transmit.NewOutboxTransmitter(store,
		transmit.WithLogger(log),
		transmit.WithPlaceholder(cfg.Rules.PlaceholderEndpoint),
	))
	return registry, nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
