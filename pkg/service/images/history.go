package images

import (
	"fmt"
	"net/http"

	"github.com/imganalysis/imganalysis/internal/telemetry"
	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

// NewHistoryHandler lists every stored analysis record, newest first.
func NewHistoryHandler(records recordstore.RecordStore) telemetry.ErrorReturningHTTPHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		results, err := records.List(r.Context())
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
		if results == nil {
			results = []analysis.Record{}
		}
		analysis.SortNewestFirst(results)
		return writeJSON(w, http.StatusOK, results)
	}
}
