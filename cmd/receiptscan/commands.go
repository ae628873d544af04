package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRootCmd(newExtractor extractorFactory, in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "receiptscan",
		Short:         "Extract donation details from PhonePe, Google Pay and Paytm receipts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(
		newTextCmd(newExtractor),
		newDetailsCmd(newExtractor),
		newDonationCmd(newExtractor),
	)
	return root
}

func newTextCmd(newExtractor extractorFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "text <file...>",
		Short: "Print the OCR text of receipt images or PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}
			return withExtractor(cmd.Context(), newExtractor, func(ctx context.Context, e extractor) error {
				rawText, err := e.ExtractRawText(ctx, docs)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]string{"rawText": rawText})
			})
		},
	}
}

func newDetailsCmd(newExtractor extractorFactory) *cobra.Command {
	var (
		text string
		file string
	)
	cmd := &cobra.Command{
		Use:   "details",
		Short: "Extract donation fields from receipt text (flag, file or stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rawText, err := detailsInput(cmd.InOrStdin(), text, file)
			if err != nil {
				return err
			}
			return withExtractor(cmd.Context(), newExtractor, func(ctx context.Context, e extractor) error {
				details, err := e.ExtractDetails(ctx, rawText)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), details)
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "receipt text")
	cmd.Flags().StringVar(&file, "file", "", "path to a file holding receipt text")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func newDonationCmd(newExtractor extractorFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "donation <file...>",
		Short: "Run OCR and field extraction and print the donation record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}
			return withExtractor(cmd.Context(), newExtractor, func(ctx context.Context, e extractor) error {
				result, err := e.ExtractDonation(ctx, docs)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}

func withExtractor(ctx context.Context, newExtractor extractorFactory, fn func(context.Context, extractor) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, closer, err := newExtractor(ctx)
	if err != nil {
		return fmt.Errorf("configure pipeline: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	return fn(ctx, e)
}

func detailsInput(stdin io.Reader, text, file string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", errors.New("receipt text is required via --text, --file or stdin")
		}
		return string(data), nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
