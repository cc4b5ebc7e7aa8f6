package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rezonia/ehf-generator/internal/mapper"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice records",
	Long: `Check invoice records against the EHF derivation rules without
producing XML.

Checks performed:
  - Mandatory fields present (supplier, buyer, invoice, lines)
  - Dates, currency and organization number formats
  - Line amounts and VAT (quantity > 0, VAT matches rate)
  - Stored totals match the line sums
  - Attachments are of an allowed type

Fallbacks that would be applied are listed as warnings.

Examples:
  ehf-generator validate invoice.json
  ehf-generator validate records/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := newPipeline()
	var results []*ValidationResult

	for _, file := range files {
		inputs, err := readRecords(file)
		if err != nil {
			results = append(results, &ValidationResult{File: file, Errors: []string{err.Error()}})
			continue
		}

		for _, in := range inputs {
			result := &ValidationResult{File: file, Invoice: in.Invoice.Number, Valid: true}
			mapped, err := pipeline.Map(in)
			if err != nil {
				result.Valid = false
				result.Errors = append(result.Errors, err.Error())
			} else {
				result.Warnings = lo.Map(mapped.Fallbacks, func(f mapper.Fallback, _ int) string { return f.String() })
			}
			results = append(results, result)
		}
	}

	allValid := lo.EveryBy(results, func(r *ValidationResult) bool { return r.Valid })

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			name := r.File
			if r.Invoice != "" {
				name = fmt.Sprintf("%s [%s]", r.File, r.Invoice)
			}
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", name)
			} else {
				fmt.Printf("✗ %s: INVALID\n", name)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some records")
	}

	return nil
}

// ValidationResult holds the result of validating a single record
type ValidationResult struct {
	File     string   `json:"file"`
	Invoice  string   `json:"invoice,omitempty"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
