package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoudMawad/Ignite-sub000/config"
	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/JoudMawad/Ignite-sub000/internal/usecase"
)

type parseOutput struct {
	Facts domain.LabelFacts  `json:"facts" yaml:"facts"`
	Trace *domain.LabelTrace `json:"trace,omitempty" yaml:"trace,omitempty"`
}

func newParseCmd(outputFormat *string) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse label text from a file, or stdin when no file is given",
		Long: `Parse label text from a file, or stdin when no file is given.

Input is capped at parser.max_text_bytes, read from config.yaml or
IGNITE_PARSER_MAX_TEXT_BYTES like the server.`,
		Example: `  labelscan parse label.txt
  tesseract photo.jpg - | labelscan parse -o json
  labelscan parse --debug label.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			maxInputBytes := cfg.Parser.MaxTextBytes

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			text, err := io.ReadAll(io.LimitReader(in, int64(maxInputBytes)+1))
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if len(text) > maxInputBytes {
				return fmt.Errorf("%w: limit is %d bytes", domain.ErrTextTooLarge, maxInputBytes)
			}

			facts, trace := usecase.NewLabelParser(false).ParseWithTrace(string(text))

			out := parseOutput{Facts: facts}
			if debug {
				out.Trace = trace
			}
			return writeOutput(cmd.OutOrStdout(), *outputFormat, out)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "include detected rows, value lines and assignments")

	return cmd
}
