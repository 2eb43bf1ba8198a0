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

// appendOpts holds the command-line flags for the append command.
type appendOpts struct {
	start   int64 // first new code; 0 continues after the workbook's last code
	count   int   // number of codes to append
	qr      bool  // render QR codes instead of Code128
	noCache bool  // bypass the render cache
}

// appendCommand creates the append command for extending an existing workbook.
// Without a file argument it opens the interactive workbook picker for the
// current directory.
func (c *CLI) appendCommand() *cobra.Command {
	opts := appendOpts{count: 10}

	cmd := &cobra.Command{
		Use:   "append [file]",
		Short: "Append a code range to an existing workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveWorkbookArg(args)
			if err != nil {
				return err
			}
			return c.runAppend(cmd, path, &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.start, "start", 0, "first new code (default: continue after the last code)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, fmt.Sprintf("number of codes (1-%d)", codes.MaxCount))
	cmd.Flags().BoolVar(&opts.qr, "qr", false, "render QR codes instead of Code128")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the barcode render cache")

	return cmd
}

// resolveWorkbookArg returns the workbook path from args, falling back to
// the interactive picker.
func resolveWorkbookArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return pickWorkbook(".")
}

func (c *CLI) runAppend(cmd *cobra.Command, path string, opts *appendOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := errors.ValidateWorkbookFilename(filepath.Base(path)); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return errors.New(errors.ErrCodeFileNotFound, "file %q not found", path)
	}

	start := opts.start
	if start == 0 {
		analysis, err := workbook.Analyze(path)
		if err != nil {
			return err
		}
		start = analysis.Max + 1
		logger.Debugf("Continuing after %d (%d existing codes)", analysis.Max, analysis.Count)
	}

	rng := codes.Range{Start: start, Count: opts.count}
	if err := rng.Validate(); err != nil {
		return err
	}

	p := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d barcodes", opts.count))
	spin.Start()

	result, err := workbook.Append(ctx, path, rng.Expand(), newRenderer(opts.qr, opts.noCache))
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Append failed: %s", errors.UserMessage(err)))
		return err
	}
	spin.Stop()
	p.done(fmt.Sprintf("Rendered %d barcodes", result.Added))

	printSuccess("Appended %s", StyleHighlight.Render(rng.String()))
	printBatchStats(result.Added, result.Failed, !opts.noCache)
	printFile(path)
	if result.Failed > 0 {
		printWarning("%d codes could not be rendered, see the workbook for details", result.Failed)
	}
	return nil
}
