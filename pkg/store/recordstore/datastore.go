package recordstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/ipfs/go-datastore/query"

	"github.com/imganalysis/imganalysis/pkg/analysis"
)

const recordsPrefix = "records/"

// DsRecordStore stores JSON encoded records in a datastore.
type DsRecordStore struct {
	data datastore.Datastore
}

// NewDsRecordStore creates a record store backed by the passed datastore.
// Records are written under the "records/" namespace.
func NewDsRecordStore(ds datastore.Datastore) *DsRecordStore {
	return &DsRecordStore{namespace.Wrap(ds, datastore.NewKey(recordsPrefix))}
}

// image IDs are arbitrary object keys and may contain path separators
func recordKey(imageID string) datastore.Key {
	return datastore.NewKey(base64.RawURLEncoding.EncodeToString([]byte(imageID)))
}

// Put implements RecordStore.
func (d *DsRecordStore) Put(ctx context.Context, record analysis.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	err = d.data.Put(ctx, recordKey(record.ImageID), data)
	if err != nil {
		return fmt.Errorf("storing record: %w", err)
	}
	return nil
}

// List implements RecordStore.
func (d *DsRecordStore) List(ctx context.Context) ([]analysis.Record, error) {
	results, err := d.data.Query(ctx, query.Query{})
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer results.Close()

	records := []analysis.Record{}
	for entry := range results.Next() {
		if entry.Error != nil {
			return nil, fmt.Errorf("iterating records: %w", entry.Error)
		}
		var record analysis.Record
		err := json.Unmarshal(entry.Value, &record)
		if err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", entry.Key, err)
		}
		records = append(records, record)
	}
	return records, nil
}

var _ RecordStore = (*DsRecordStore)(nil)
