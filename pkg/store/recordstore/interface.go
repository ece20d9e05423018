package recordstore

import (
	"context"

	"github.com/imganalysis/imganalysis/pkg/analysis"
)

// RecordStore persists analysis records keyed by image ID.
type RecordStore interface {
	// Put writes the record, replacing any existing record with the same image
	// ID.
	Put(ctx context.Context, record analysis.Record) error
	// List returns every stored record, in no particular order.
	List(ctx context.Context) ([]analysis.Record, error)
}
