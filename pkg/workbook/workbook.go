// Package workbook reads and writes the Excel files labelforge produces.
//
// A workbook has a single "Barcodes" sheet: a styled header row, then one
// row per code with the number in column A, the embedded barcode image in
// column B, and the textual code in column C. Reading goes the other way:
// column A from row 2 down is the code sequence for PDF generation.
package workbook

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/labelforge/labelforge/pkg/barcode"
	"github.com/labelforge/labelforge/pkg/errors"
)

// SheetName is the one sheet every labelforge workbook carries.
const SheetName = "Barcodes"

// Header and cell styling, matching the printed sheets users already have.
const (
	headerFillColor = "4472C4"
	headerFontColor = "FFFFFF"
	headerFontSize  = 12.0
	headerRowHeight = 25.0

	colWidthNumber  = 18.0
	colWidthBarcode = 35.0
	colWidthCode    = 25.0

	barcodeRowHeight = 90.0

	// Embedded images render at 250x80 display points from a 250x100 png.
	imageScaleX = 1.0
	imageScaleY = 0.8
)

// maxErrorNote bounds the failure reason written into a cell.
const maxErrorNote = 30

// WriteResult reports how many rows a write or append produced.
type WriteResult struct {
	Added  int // rows written with a barcode image
	Failed int // rows written with an error note instead of an image
}

// Write creates a new workbook at path with one row per number.
//
// Individual barcode render failures are non-fatal: the row is written with
// an "Error" note so the numbering stays contiguous, mirroring how the PDF
// composer keeps failed slots.
func Write(ctx context.Context, path string, numbers []int64, r barcode.Renderer) (*WriteResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create sheet")
	}
	if err := writeHeader(f); err != nil {
		return nil, err
	}

	res, err := writeRows(ctx, f, 2, numbers, r)
	if err != nil {
		return nil, err
	}

	if err := f.SaveAs(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "save workbook %s", path)
	}
	return res, nil
}

// Append opens the workbook at path and adds rows for numbers after the
// existing data, saving in place.
func Append(ctx context.Context, path string, numbers []int64, r barcode.Renderer) (*WriteResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open workbook %s", path)
	}
	defer f.Close()

	sheet := activeSheet(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read workbook %s", path)
	}

	res, err := writeRowsOn(ctx, f, sheet, len(rows)+1, numbers, r)
	if err != nil {
		return nil, err
	}

	if err := f.Save(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "save workbook %s", path)
	}
	return res, nil
}

// Read returns the codes in column A from row 2 down, in sheet order.
// Non-numeric cells are skipped. An empty result is an error: a workbook
// with no codes cannot drive PDF generation.
func Read(path string) ([]int64, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open workbook %s", path)
	}
	defer f.Close()

	rows, err := f.GetRows(activeSheet(f))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read workbook %s", path)
	}

	var numbers []int64
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // header row or blank
		}
		n, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			continue // non-numeric cell
		}
		numbers = append(numbers, n)
	}

	if len(numbers) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyWorkbook, "no numbers found in %s", path)
	}
	return numbers, nil
}

// Analysis summarizes the codes found in an uploaded workbook.
type Analysis struct {
	Count   int
	Min     int64
	Max     int64
	Numbers []int64 // ascending
}

// Range formats the analyzed span, e.g. "253310001 - 253310010".
func (a *Analysis) Range() string {
	return fmt.Sprintf("%d - %d", a.Min, a.Max)
}

// Analyze reads a workbook and summarizes its code sequence: count, bounds,
// and the sorted numbers, so a caller can offer the next free code.
func Analyze(path string) (*Analysis, error) {
	numbers, err := Read(path)
	if err != nil {
		return nil, err
	}

	sorted := make([]int64, len(numbers))
	copy(sorted, numbers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &Analysis{
		Count:   len(sorted),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Numbers: sorted,
	}, nil
}

// activeSheet returns the workbook's active sheet name, falling back to the
// first sheet. Uploaded files don't always use our sheet name.
func activeSheet(f *excelize.File) string {
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name
	}
	list := f.GetSheetList()
	if len(list) > 0 {
		return list[0]
	}
	return SheetName
}

func writeHeader(f *excelize.File) error {
	headers := map[string]string{"A1": "Number", "B1": "Barcode", "C1": "Barcode Code"}
	for cell, v := range headers {
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write header %s", cell)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: headerFontColor, Size: headerFontSize},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create header style")
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", style); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply header style")
	}

	for col, width := range map[string]float64{"A": colWidthNumber, "B": colWidthBarcode, "C": colWidthCode} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "set column width %s", col)
		}
	}
	if err := f.SetRowHeight(SheetName, 1, headerRowHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "set header row height")
	}
	return nil
}

func writeRows(ctx context.Context, f *excelize.File, startRow int, numbers []int64, r barcode.Renderer) (*WriteResult, error) {
	return writeRowsOn(ctx, f, SheetName, startRow, numbers, r)
}

func writeRowsOn(ctx context.Context, f *excelize.File, sheet string, startRow int, numbers []int64, r barcode.Renderer) (*WriteResult, error) {
	res := &WriteResult{}
	for i, n := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := startRow + i
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write row %d", row)
		}

		text := fmt.Sprintf("%d", n)
		data, err := renderPNG(ctx, r, text)
		if err != nil {
			// Keep the row so numbering stays contiguous.
			res.Failed++
			note := errors.UserMessage(err)
			if len(note) > maxErrorNote {
				note = note[:maxErrorNote]
			}
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Error")
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Error: "+note)
			continue
		}

		pic := &excelize.Picture{
			Extension: ".png",
			File:      data,
			Format:    &excelize.GraphicOptions{ScaleX: imageScaleX, ScaleY: imageScaleY},
		}
		if err := f.AddPictureFromBytes(sheet, fmt.Sprintf("B%d", row), pic); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "embed barcode for %d", n)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", row), codePrefix(r.Symbology())+": "+text); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write code cell for %d", n)
		}
		if err := f.SetRowHeight(sheet, row, barcodeRowHeight); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "set row height %d", row)
		}
		res.Added++
	}
	return res, nil
}

// codePrefix maps a symbology to the display name written in column C.
func codePrefix(symbology string) string {
	switch symbology {
	case "code128":
		return "Code128"
	case "qr":
		return "QR"
	default:
		return symbology
	}
}

// renderPNG renders a symbol and PNG-encodes it for embedding.
func renderPNG(ctx context.Context, r barcode.Renderer, text string) ([]byte, error) {
	img, err := r.Render(ctx, text, barcode.DefaultWidth, barcode.DefaultHeight)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %q", text)
	}
	return buf.Bytes(), nil
}
