package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	httpDelivery "github.com/JoudMawad/Ignite-sub000/internal/delivery/http"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

// newRootCmd builds the command tree; each call has its own flag state
func newRootCmd() *cobra.Command {
	var outputFormat string

	root := &cobra.Command{
		Use:   "labelscan",
		Short: "Read calories and macros from nutrition label OCR text",
		Long: `labelscan runs the Ignite label parser over OCR text from a photographed
nutrition facts table and prints calories, protein, carbohydrates and fat.`,
		Version:       httpDelivery.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != outputYAML && outputFormat != outputJSON {
				return fmt.Errorf("unknown output format: %s", outputFormat)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", outputYAML, "output format: yaml or json",
	)

	root.AddCommand(newParseCmd(&outputFormat))
	root.AddCommand(newVersionCmd())

	return root
}

// writeOutput encodes data to w in the given format
func writeOutput(w io.Writer, format string, data any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
