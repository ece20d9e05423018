package detector

import (
	"context"

	"github.com/imganalysis/imganalysis/pkg/analysis"
)

// MaxLabels caps the number of labels requested per image.
const MaxLabels = 10

// MinConfidence is the lowest label confidence, in percent, that is reported.
const MinConfidence = 70

// Detector analyses images that are already present in object storage.
type Detector interface {
	// DetectLabels returns the objects and scenes detected in the image stored
	// under key, in the order reported by the vision service.
	DetectLabels(ctx context.Context, key string) ([]analysis.Label, error)
	// DetectModerationLabels returns the names of unsafe content flags for the
	// image stored under key. The result is empty for safe images.
	DetectModerationLabels(ctx context.Context, key string) ([]string, error)
}
