package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/codes"
	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/workbook"
)

// defaultStart is the first code of a fresh sequence when none is given.
const defaultStart = 253310001

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // output workbook path
	start   int64  // first code in the sequence
	count   int    // number of codes to generate
	qr      bool   // render QR codes instead of Code128
	noCache bool   // bypass the render cache
}

// generateCommand creates the generate command for writing a new workbook.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		output: "barcodes.xlsx",
		start:  defaultStart,
		count:  10,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new Excel workbook with sequential barcodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output workbook path (.xlsx)")
	cmd.Flags().Int64Var(&opts.start, "start", opts.start, "first code in the sequence")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, fmt.Sprintf("number of codes (1-%d)", codes.MaxCount))
	cmd.Flags().BoolVar(&opts.qr, "qr", false, "render QR codes instead of Code128")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the barcode render cache")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()

	if err := errors.ValidateWorkbookFilename(filepath.Base(opts.output)); err != nil {
		return err
	}
	rng := codes.Range{Start: opts.start, Count: opts.count}
	if err := rng.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(opts.output); err == nil {
		return errors.New(errors.ErrCodeAlreadyExists, "file %q already exists (use 'append' to extend it)", opts.output)
	}

	p := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d barcodes", opts.count))
	spin.Start()

	result, err := workbook.Write(ctx, opts.output, rng.Expand(), newRenderer(opts.qr, opts.noCache))
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Generation failed: %s", errors.UserMessage(err)))
		return err
	}
	spin.Stop()
	p.done(fmt.Sprintf("Rendered %d barcodes", result.Added))

	printSuccess("Generated %s", StyleHighlight.Render(rng.String()))
	printBatchStats(result.Added, result.Failed, !opts.noCache)
	printFile(opts.output)
	if result.Failed > 0 {
		printWarning("%d codes could not be rendered, see the workbook for details", result.Failed)
	}
	printNewline()
	printNextStep("Compose a printable sheet", fmt.Sprintf("labelforge pdf %s", opts.output))
	return nil
}
