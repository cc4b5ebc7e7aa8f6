package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/archive"
	"github.com/rezonia/ehf-generator/internal/processor"
)

var (
	outputDir   string
	archiveDocs bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate EHF invoices from JSON records",
	Long: `Generate a PEPPOL BIS Billing 3.0 invoice for every record in the given
JSON files. A file holds one record object or an array of records.

Without --output the documents are written to stdout. With --output each
document is written to <dir>/<invoice number>.xml. With --archive each
document is also stored in the configured archive under
invoices/<invoice number>.xml.

Applied fallbacks are logged at warn level.

Examples:
  ehf-generator generate invoice.json
  ehf-generator generate records/*.json -o out/
  ehf-generator generate batch.json --archive`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: stdout)")
	generateCmd.Flags().BoolVar(&archiveDocs, "archive", false, "Store generated documents in the configured archive")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to process")
	}

	printVerbose("Found %d files to process\n", len(files))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var store archive.Store
	if archiveDocs {
		if store, err = cfg.Archive.Store(ctx, log); err != nil {
			return err
		}
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	pipeline := newPipeline()
	failed := 0

	for _, file := range files {
		printVerbose("Processing: %s\n", file)

		inputs, err := readRecords(file)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			continue
		}

		results, err := pipeline.GenerateBatch(inputs)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
		}

		for _, res := range results {
			if res == nil {
				continue
			}
			if err := emit(ctx, store, res); err != nil {
				return err
			}
			printVerbose("  %s: %d bytes, %d fallbacks\n", res.Invoice.ID.Value, len(res.XML), len(res.Fallbacks))
		}
	}

	if failed > 0 {
		return fmt.Errorf("generation failed for %d of %d files", failed, len(files))
	}
	return nil
}

func emit(ctx context.Context, store archive.Store, res *processor.Result) error {
	number := res.Invoice.ID.Value
	key := archive.DocumentKey(number)

	if store != nil {
		if err := store.Put(ctx, key, res.XML, "application/xml"); err != nil {
			return fmt.Errorf("archive %s: %w", number, err)
		}
		log.Info("document archived", zap.String("invoice", number), zap.String("key", key))
	}

	if outputDir == "" {
		_, err := os.Stdout.Write(res.XML)
		return err
	}

	path := filepath.Join(outputDir, filepath.Base(key))
	if err := os.WriteFile(path, res.XML, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
