package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Summarize EHF invoice documents",
	Long: `Read EHF XML documents and print a summary of each: number, dates,
parties, tax categories and the payable amount.

Examples:
  ehf-generator inspect INV-77.xml
  ehf-generator inspect out/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult holds the summary of a single document
type InspectResult struct {
	File    string             `json:"file"`
	Summary *xmlparser.Summary `json:"summary,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".xml")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	pipeline := newPipeline()
	results := make([]*InspectResult, 0, len(files))

	for _, file := range files {
		result := &InspectResult{File: file}
		results = append(results, result)

		f, err := os.Open(file)
		if err != nil {
			result.Error = fmt.Sprintf("failed to open file: %v", err)
			continue
		}
		inv, err := pipeline.ParseXML(f)
		f.Close()
		if err != nil {
			result.Error = err.Error()
			continue
		}

		summary := xmlparser.Summarize(inv)
		result.Summary = &summary
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNUMBER\tDATE\tSUPPLIER\tCUSTOMER\tLINES\tTAX\tCATEGORIES\tPAYABLE")
	fmt.Fprintln(tw, "----\t------\t----\t--------\t--------\t-----\t---\t----------\t-------")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\t\t\n", r.File, r.Error)
			continue
		}
		s := r.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s (%s)\t%s (%s)\t%d\t%s\t%s\t%s\n",
			r.File,
			s.ID,
			s.IssueDate,
			s.Supplier, s.SupplierID,
			s.Customer, s.CustomerID,
			s.Lines,
			s.TaxAmount,
			strings.Join(s.TaxCategories, ", "),
			s.PayableAmount,
		)
	}

	return tw.Flush()
}
