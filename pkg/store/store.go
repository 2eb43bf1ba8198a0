// Package store records the batches labelforge has generated.
//
// A batch is one generated artifact: an Excel workbook or a PDF sheet,
// with the code range it covers and the user who requested it. The API
// uses the store to report history alongside the raw output directory
// listing; the CLI runs without one.
package store

import (
	"context"
	"time"
)

// Batch kinds.
const (
	KindExcel = "excel"
	KindPDF   = "pdf"
)

// Batch describes one generated artifact.
type Batch struct {
	ID        string    `json:"id" bson:"_id"`
	FileName  string    `json:"file_name" bson:"file_name"`
	Kind      string    `json:"kind" bson:"kind"`
	Start     int64     `json:"start" bson:"start"`
	Count     int       `json:"count" bson:"count"`
	Owner     string    `json:"owner" bson:"owner"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for batch metadata backends.
type Store interface {
	// Insert records a batch.
	Insert(ctx context.Context, batch *Batch) error

	// Get retrieves a batch by ID. Returns nil, nil when absent.
	Get(ctx context.Context, id string) (*Batch, error)

	// ListByOwner returns an owner's batches, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*Batch, error)

	// Delete removes a batch record. Deleting a missing batch is not an
	// error.
	Delete(ctx context.Context, id string) error
}
