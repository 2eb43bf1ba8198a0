// Package pkg provides the core libraries for labelforge barcode generation.
//
// # Overview
//
// Labelforge turns sequential numeric codes into barcode artifacts: Excel
// workbooks with one rendered symbol per row, and printable A4 PDF sheets
// laid out on a fixed grid. The pkg directory is organized into four main
// areas:
//
//  1. Rendering - barcode (symbol encoders), sheet (PDF composition),
//     workbook (Excel output), layout (grid placement engine)
//  2. Domain - codes (sequence ranges), errors (structured error codes,
//     filename validation)
//  3. Infrastructure - cache (render cache), workspace (temp staging),
//     observability (instrumentation hooks)
//  4. Accounts - auth (users, passwords), session (login sessions),
//     store (batch metadata)
//
// # Architecture
//
// The typical data flow through labelforge:
//
//	Code range (start, count)
//	         ↓
//	barcode.Renderer (Code128 or QR, cached)
//	         ↓
//	workbook.Write ──→ .xlsx        layout.Layout ──→ placements
//	                                        ↓
//	                                sheet.Compose ──→ .pdf
//
// The HTTP API and CLI in internal/ compose these packages; nothing in
// pkg depends on either of them.
package pkg
