package images

import (
	"fmt"
	"net/http"

	"github.com/imganalysis/imganalysis/internal/telemetry"
	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/detector"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

type analyzeResponse struct {
	Description string   `json:"description"`
	Moderation  []string `json:"moderation"`
	ImageURL    string   `json:"imageUrl"`
}

// NewAnalyzeHandler runs label and moderation detection on an image that was
// already uploaded, stores the resulting record and returns a summary.
//
// The record is only written once both detections succeed. An existing record
// for the same image is overwritten.
func NewAnalyzeHandler(d detector.Detector, records recordstore.RecordStore, publicURL string, opts ...Option) telemetry.ErrorReturningHTTPHandler {
	o := newOptions(opts)
	return func(w http.ResponseWriter, r *http.Request) error {
		key, err := filename(r)
		if err != nil {
			return err
		}

		labels, err := d.DetectLabels(r.Context(), key)
		if err != nil {
			return fmt.Errorf("detecting labels for %s: %w", key, err)
		}

		moderation, err := d.DetectModerationLabels(r.Context(), key)
		if err != nil {
			return fmt.Errorf("detecting moderation labels for %s: %w", key, err)
		}
		if moderation == nil {
			moderation = []string{}
		}

		record := analysis.Record{
			ImageID:          key,
			Timestamp:        analysis.FormatTimestamp(o.clock()),
			Labels:           analysis.LabelNames(labels),
			ModerationLabels: moderation,
			Description:      analysis.Describe(labels),
			S3URL:            analysis.ObjectURL(publicURL, key),
		}

		if err := records.Put(r.Context(), record); err != nil {
			return fmt.Errorf("storing analysis of %s: %w", key, err)
		}

		log.Infof("analysed %s: %d labels, %d moderation labels", key, len(labels), len(moderation))
		return writeJSON(w, http.StatusOK, analyzeResponse{
			Description: record.Description,
			Moderation:  record.ModerationLabels,
			ImageURL:    record.S3URL,
		})
	}
}
