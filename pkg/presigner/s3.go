package presigner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// UploadURLTTL is how long issued upload URLs remain valid.
const UploadURLTTL = time.Hour

// UploadContentType accepts any image subtype.
const UploadContentType = "image/*"

var ErrMissingKey = errors.New("missing object key")

// signedContentType sets the Content-Type header right before signing so that
// it becomes one of the signed headers. PresignPutObject strips the header in
// the build step otherwise, leaving a URL that accepts any content type.
type signedContentType string

func (signedContentType) ID() string {
	return "SignedContentType"
}

func (ct signedContentType) HandleFinalize(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
	req, ok := in.Request.(*smithyhttp.Request)
	if !ok {
		return middleware.FinalizeOutput{}, middleware.Metadata{}, fmt.Errorf("unexpected request type %T", in.Request)
	}
	req.Header.Set("Content-Type", string(ct))
	return next.HandleFinalize(ctx, in)
}

func withSignedContentType(contentType string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Finalize.Add(signedContentType(contentType), middleware.Before)
		})
	}
}

type S3UploadPresigner struct {
	bucketName    string
	presignClient *s3.PresignClient
}

func (ss *S3UploadPresigner) SignUploadURL(ctx context.Context, key string, ttl time.Duration) (url.URL, http.Header, error) {
	if key == "" {
		return url.URL{}, nil, ErrMissingKey
	}

	signedReq, err := ss.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(UploadContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
		opts.ClientOptions = append(opts.ClientOptions, withSignedContentType(UploadContentType))
	})
	if err != nil {
		return url.URL{}, nil, fmt.Errorf("signing request: %w", err)
	}

	reqURL, err := url.Parse(signedReq.URL)
	if err != nil {
		return url.URL{}, nil, fmt.Errorf("parsing signed URL: %w", err)
	}

	return *reqURL, signedReq.SignedHeader, nil
}

var _ UploadPresigner = (*S3UploadPresigner)(nil)

// NewS3UploadPresigner creates a presigner that uses the S3 SDK to sign upload
// requests for objects in the given bucket.
func NewS3UploadPresigner(client *s3.Client, bucketName string) *S3UploadPresigner {
	return &S3UploadPresigner{bucketName, s3.NewPresignClient(client)}
}
