package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/detector"
)

// RekognitionAPI is the subset of the Rekognition client used by
// RekognitionDetector.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	DetectModerationLabels(ctx context.Context, params *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error)
}

// RekognitionDetector detects labels in images stored in an S3 bucket using
// Amazon Rekognition.
type RekognitionDetector struct {
	bucketName string
	client     RekognitionAPI
}

func NewRekognitionDetector(cfg aws.Config, bucketName string, opts ...func(*rekognition.Options)) *RekognitionDetector {
	return NewRekognitionDetectorFromClient(rekognition.NewFromConfig(cfg, opts...), bucketName)
}

func NewRekognitionDetectorFromClient(client RekognitionAPI, bucketName string) *RekognitionDetector {
	return &RekognitionDetector{bucketName: bucketName, client: client}
}

func (rd *RekognitionDetector) image(key string) *types.Image {
	return &types.Image{
		S3Object: &types.S3Object{
			Bucket: aws.String(rd.bucketName),
			Name:   aws.String(key),
		},
	}
}

// DetectLabels implements detector.Detector.
func (rd *RekognitionDetector) DetectLabels(ctx context.Context, key string) ([]analysis.Label, error) {
	out, err := rd.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         rd.image(key),
		MaxLabels:     aws.Int32(detector.MaxLabels),
		MinConfidence: aws.Float32(detector.MinConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectLabels: %w", err)
	}

	labels := make([]analysis.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, analysis.Label{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels, nil
}

// DetectModerationLabels implements detector.Detector.
func (rd *RekognitionDetector) DetectModerationLabels(ctx context.Context, key string) ([]string, error) {
	out, err := rd.client.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image: rd.image(key),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectModerationLabels: %w", err)
	}

	names := make([]string, 0, len(out.ModerationLabels))
	for _, l := range out.ModerationLabels {
		names = append(names, aws.ToString(l.Name))
	}
	return names, nil
}

var _ detector.Detector = (*RekognitionDetector)(nil)
