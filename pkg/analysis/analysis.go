package analysis

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DescriptionPrefix starts every generated description.
const DescriptionPrefix = "На изображении обнаружены: "

// DescriptionLabels is the number of labels mentioned in a description.
const DescriptionLabels = 3

// TimestampFormat is fixed width and zero padded so that lexicographic order of
// formatted timestamps matches chronological order.
const TimestampFormat = "2006-01-02T15:04:05.000000"

// Label is an object or scene detected in an image, with a confidence score
// between 0 and 100.
type Label struct {
	Name       string
	Confidence float64
}

// Record is the persisted result of analysing a single image. The image ID is
// the storage key of the image and identifies the record.
type Record struct {
	ImageID          string   `json:"imageId" dynamodbav:"imageId"`
	Timestamp        string   `json:"timestamp" dynamodbav:"timestamp"`
	Labels           []string `json:"labels" dynamodbav:"labels"`
	ModerationLabels []string `json:"moderationLabels" dynamodbav:"moderationLabels"`
	Description      string   `json:"description" dynamodbav:"description"`
	S3URL            string   `json:"s3Url" dynamodbav:"s3Url"`
}

// Describe builds a human readable description from the most confident labels.
// The passed slice is not modified.
func Describe(labels []Label) string {
	sorted := slices.Clone(labels)
	slices.SortStableFunc(sorted, func(a, b Label) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	if len(sorted) > DescriptionLabels {
		sorted = sorted[:DescriptionLabels]
	}

	parts := make([]string, 0, len(sorted))
	for _, l := range sorted {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", l.Name, l.Confidence))
	}
	return DescriptionPrefix + strings.Join(parts, ", ")
}

// LabelNames returns the names of the labels in the order given.
func LabelNames(labels []Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

// FormatTimestamp formats t in UTC using [TimestampFormat].
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// SortNewestFirst orders records by timestamp, most recent first.
func SortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(b.Timestamp, a.Timestamp)
	})
}

// DefaultPublicURL is the virtual hosted style URL of an S3 bucket.
func DefaultPublicURL(bucket string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
}

// ObjectURL joins a bucket public URL and an object key.
func ObjectURL(publicURL string, key string) string {
	return strings.TrimSuffix(publicURL, "/") + "/" + key
}
