package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/transmit"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show routing information for invoice records",
	Long: `Display the PEPPOL routing of each invoice record: the sender and
receiver participant identifiers, the document type and the process.

Examples:
  ehf-generator info invoice.json
  ehf-generator info records/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// RoutingInfo is the routing of one record
type RoutingInfo struct {
	File           string               `json:"file"`
	Invoice        string               `json:"invoice"`
	DeliveryMethod model.DeliveryMethod `json:"delivery_method"`
	Routing        transmit.Routing     `json:"routing"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	pipeline := newPipeline()
	var infos []RoutingInfo

	for _, file := range files {
		inputs, err := readRecords(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		for _, in := range inputs {
			res, err := pipeline.Generate(in)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			method := in.Invoice.DeliveryMethod
			if method == "" {
				method = model.DeliveryEHF
			}
			infos = append(infos, RoutingInfo{
				File:           file,
				Invoice:        in.Invoice.Number,
				DeliveryMethod: method,
				Routing:        res.Routing,
			})
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	}

	for _, info := range infos {
		fmt.Printf("File: %s\n", info.File)
		fmt.Printf("  Invoice: %s\n", info.Invoice)
		fmt.Printf("  Delivery: %s\n", info.DeliveryMethod)
		fmt.Printf("  Sender: %s\n", info.Routing.Sender)
		fmt.Printf("  Receiver: %s\n", info.Routing.Receiver)
		fmt.Printf("  Document type: %s\n", info.Routing.DocumentType)
		fmt.Printf("  Process: %s\n", info.Routing.Process)
		fmt.Println()
	}

	return nil
}
