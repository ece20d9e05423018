package testutil

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/imganalysis/imganalysis/pkg/analysis"
)

func RandomBytes(size int) []byte {
	bytes := make([]byte, size)
	_, _ = crand.Read(bytes)
	return bytes
}

// RandomName returns a lowercase hex string usable in bucket and table names.
func RandomName(t testing.TB) string {
	t.Helper()
	return hex.EncodeToString(RandomBytes(8))
}

// RandomImageName returns a random image file name with a .jpg extension.
func RandomImageName(t testing.TB) string {
	t.Helper()
	return fmt.Sprintf("%s.jpg", RandomName(t))
}

// RandomRecord returns an analysis record for a random image taken at ts.
func RandomRecord(t testing.TB, ts time.Time) analysis.Record {
	t.Helper()
	name := RandomImageName(t)
	labels := []analysis.Label{
		{Name: "Cat", Confidence: 95.2},
		{Name: "Animal", Confidence: 88.0},
	}
	return analysis.Record{
		ImageID:          name,
		Timestamp:        analysis.FormatTimestamp(ts),
		Labels:           analysis.LabelNames(labels),
		ModerationLabels: []string{},
		Description:      analysis.Describe(labels),
		S3URL:            analysis.ObjectURL(analysis.DefaultPublicURL("photos"), name),
	}
}
