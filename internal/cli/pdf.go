package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/layout"
	"github.com/labelforge/labelforge/pkg/sheet"
	"github.com/labelforge/labelforge/pkg/workbook"
)

// pdfOpts holds the command-line flags for the pdf command.
type pdfOpts struct {
	output  string  // output PDF path; empty derives from the input name
	cols    int     // labels per row
	rows    int     // label rows per page
	marginX float64 // horizontal page margin in millimeters
	marginY float64 // vertical page margin in millimeters
	qr      bool    // render QR codes instead of Code128
	noCache bool    // bypass the render cache
}

// pdfCommand creates the pdf command for composing a printable A4 sheet
// from a workbook. Without a file argument it opens the interactive
// workbook picker for the current directory.
func (c *CLI) pdfCommand() *cobra.Command {
	opts := pdfOpts{
		cols:    layout.DefaultColumns,
		rows:    layout.DefaultRows,
		marginX: layout.DefaultMarginXMM,
		marginY: layout.DefaultMarginYMM,
	}

	cmd := &cobra.Command{
		Use:   "pdf [file]",
		Short: "Compose a printable A4 label sheet from a workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveWorkbookArg(args)
			if err != nil {
				return err
			}
			return c.runPDF(cmd, path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF path (default: input name with .pdf)")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "labels per row")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "label rows per page")
	cmd.Flags().Float64Var(&opts.marginX, "margin-x", opts.marginX, "horizontal page margin in mm")
	cmd.Flags().Float64Var(&opts.marginY, "margin-y", opts.marginY, "vertical page margin in mm")
	cmd.Flags().BoolVar(&opts.qr, "qr", false, "render QR codes instead of Code128")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the barcode render cache")

	return cmd
}

func (c *CLI) runPDF(cmd *cobra.Command, path string, opts *pdfOpts) error {
	ctx := cmd.Context()

	if _, err := os.Stat(path); err != nil {
		return errors.New(errors.ErrCodeFileNotFound, "file %q not found", path)
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	}
	if err := errors.ValidatePDFFilename(filepath.Base(output)); err != nil {
		return err
	}

	g := layout.A4()
	g.Columns = opts.cols
	g.Rows = opts.rows
	g.MarginX = layout.MM(opts.marginX)
	g.MarginY = layout.MM(opts.marginY)
	if err := g.Validate(); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)

	numbers, err := workbook.Read(path)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d codes from %s", len(numbers), path)

	texts := make([]string, len(numbers))
	for i, n := range numbers {
		texts[i] = strconv.FormatInt(n, 10)
	}

	p := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d labels", len(texts)))
	spin.Start()

	composer := sheet.NewComposer(newRenderer(opts.qr, opts.noCache), sheet.WithLogger(logger))
	data, result, err := composer.Compose(ctx, layout.Labels(texts), g)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Composition failed: %s", errors.UserMessage(err)))
		return err
	}
	spin.Stop()
	p.done(fmt.Sprintf("Composed %d labels on %d pages", result.Labels, result.Pages))

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	printSuccess("Composed %s sheet", StyleHighlight.Render(fmt.Sprintf("%dx%d", g.Columns, g.Rows)))
	printKeyValue("Labels", strconv.Itoa(result.Labels))
	printKeyValue("Pages", strconv.Itoa(result.Pages))
	if result.Failed > 0 {
		printWarning("%d labels rendered as placeholders", result.Failed)
	}
	printFile(output)
	return nil
}
