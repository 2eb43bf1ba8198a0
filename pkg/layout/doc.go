// Package layout computes where each barcode label lands on a paginated
// sheet.
//
// Given an ordered slice of labels and a page geometry (page size, margins,
// column and row counts), [Layout] yields one [Placement] per label: the
// 0-based page index, the rectangle for the label's image, and the caption
// baseline. Placements are produced lazily in strict input order; a page
// break is signalled on the placement that opens a new page rather than as
// a side effect inside rendering.
//
// All coordinates use a bottom-left origin, the convention of PDF user
// space. Consumers drawing on a top-left-origin canvas convert with
// y' = pageHeight - (y + height).
//
// The engine is a pure function of its inputs: no I/O, no shared state,
// identical inputs produce identical placement sequences.
package layout
