package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/ehf-generator/internal/transmit"
)

var sendTimeout time.Duration

var sendCmd = &cobra.Command{
	Use:   "send [files...]",
	Short: "Generate invoices and hand them to the outbox",
	Long: `Generate an invoice for every record and transmit it by the record's
delivery method (EHF when unset). EHF documents are queued in the
configured archive under outbox/<receiver>/<message id>.xml.

Records whose buyer has no endpoint are refused.

Examples:
  ehf-generator send invoice.json
  ehf-generator send records/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "Transmission timeout per document")
}

// SendResult holds the outcome of sending one record
type SendResult struct {
	File     string            `json:"file"`
	Invoice  string            `json:"invoice"`
	Receiver string            `json:"receiver,omitempty"`
	Receipt  *transmit.Receipt `json:"receipt,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func runSend(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to send")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := newRegistry(ctx)
	if err != nil {
		return err
	}
	pipeline := newPipeline()

	var results []*SendResult
	failed := 0

	for _, file := range files {
		inputs, err := readRecords(file)
		if err != nil {
			failed++
			results = append(results, &SendResult{File: file, Error: err.Error()})
			continue
		}

		for _, in := range inputs {
			result := &SendResult{File: file, Invoice: in.Invoice.Number}
			results = append(results, result)

			res, err := pipeline.Generate(in)
			if err != nil {
				failed++
				result.Error = err.Error()
				continue
			}
			result.Receiver = res.Routing.Receiver.String()

			req, err := transmit.NewRequest(res.XML, res.Invoice)
			if err != nil {
				failed++
				result.Error = err.Error()
				continue
			}

			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			receipt, err := registry.Transmit(sendCtx, in.Invoice.DeliveryMethod, req)
			cancel()
			if err != nil {
				failed++
				result.Error = err.Error()
				continue
			}
			result.Receipt = receipt
			printVerbose("Queued %s as %s\n", in.Invoice.Number, receipt.MessageID)
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tINVOICE\tRECEIVER\tMESSAGE ID\tTRANSMITTER")
		fmt.Fprintln(tw, "----\t-------\t--------\t----------\t-----------")
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(tw, "%s\t%s\tERROR: %s\t\t\n", r.File, r.Invoice, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.File, r.Invoice, r.Receiver, r.Receipt.MessageID, r.Receipt.Transmitter)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("sending failed for %d records", failed)
	}
	return nil
}
