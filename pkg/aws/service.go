package aws

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	logging "github.com/ipfs/go-log/v2"

	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/detector"
	"github.com/imganalysis/imganalysis/pkg/presigner"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

var log = logging.Logger("aws")

// ErrMissingSecret means that the value returned from Secrets was empty
var ErrMissingSecret = errors.New("missing value for secret")

// Requirement names an environment variable a lambda cannot run without.
type Requirement string

const (
	// Bucket is the bucket images are uploaded to and analysed from.
	Bucket Requirement = "BUCKET_NAME"
	// Table is the DynamoDB table analysis records are stored in.
	Table Requirement = "TABLE_NAME"
)

func mustGetEnv(envVar string) string {
	value := os.Getenv(envVar)
	if len(value) == 0 {
		panic(fmt.Errorf("missing env var: %s", envVar))
	}
	return value
}

type Config struct {
	Config             aws.Config
	S3Options          []func(*s3.Options)
	DynamoOptions      []func(*dynamodb.Options)
	RekognitionOptions []func(*rekognition.Options)
	SentryDSN          string
	SentryEnvironment  string
	BucketName         string
	BucketPublicURL    string
	TableName          string
}

func mustGetSSMParams(ctx context.Context, client *ssm.Client, names ...string) map[string]string {
	response, err := client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		panic(fmt.Errorf("retrieving SSM parameters: %w", err))
	}
	params := map[string]string{}
	for _, name := range names {
		value := ""
		for _, p := range response.Parameters {
			if *p.Name == name {
				value = *p.Value
				break
			}
		}
		if value == "" {
			panic(ErrMissingSecret)
		}
		params[name] = value
	}
	return params
}

// FromEnv constructs the AWS Configuration from the environment. It panics
// when a required variable is not set. BUCKET_NAME and TABLE_NAME are read
// either way.
func FromEnv(ctx context.Context, required ...Requirement) Config {
	for _, r := range required {
		mustGetEnv(string(r))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		panic(fmt.Errorf("loading aws default config: %w", err))
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	if name := os.Getenv("SENTRY_DSN_PARAMETER"); name != "" {
		secrets := mustGetSSMParams(ctx, ssm.NewFromConfig(awsConfig), name)
		sentryDSN = secrets[name]
	}

	bucketName := os.Getenv(string(Bucket))
	publicURL := os.Getenv("BUCKET_PUBLIC_URL")
	if publicURL == "" && bucketName != "" {
		publicURL = analysis.DefaultPublicURL(bucketName)
	}

	var rekognitionOpts []func(*rekognition.Options)
	if region := os.Getenv("REKOGNITION_REGION"); region != "" {
		rekognitionOpts = append(rekognitionOpts, func(o *rekognition.Options) {
			o.Region = region
		})
	}

	return Config{
		Config:             awsConfig,
		RekognitionOptions: rekognitionOpts,
		SentryDSN:          sentryDSN,
		SentryEnvironment:  os.Getenv("SENTRY_ENVIRONMENT"),
		BucketName:         bucketName,
		BucketPublicURL:    publicURL,
		TableName:          os.Getenv(string(Table)),
	}
}

// Service holds the AWS backed collaborators of the image handlers. The
// presigner and detector exist only when a bucket is configured, the record
// store only when a table is.
type Service struct {
	presigner presigner.UploadPresigner
	detector  detector.Detector
	records   recordstore.RecordStore
	publicURL string
}

func (s *Service) Presigner() presigner.UploadPresigner {
	return s.presigner
}

func (s *Service) Detector() detector.Detector {
	return s.detector
}

func (s *Service) Records() recordstore.RecordStore {
	return s.records
}

// PublicURL is the base URL of stored images.
func (s *Service) PublicURL() string {
	return s.publicURL
}

// Construct builds the collaborators the configuration allows for. It fails
// when a required resource is not configured.
func Construct(cfg Config, required ...Requirement) (*Service, error) {
	for _, r := range required {
		switch r {
		case Bucket:
			if cfg.BucketName == "" {
				return nil, errors.New("missing bucket name")
			}
		case Table:
			if cfg.TableName == "" {
				return nil, errors.New("missing table name")
			}
		default:
			return nil, fmt.Errorf("unknown requirement: %s", r)
		}
	}

	log.Debugw("constructing service", "bucket", cfg.BucketName, "table", cfg.TableName)
	s := &Service{}
	if cfg.BucketName != "" {
		s.presigner = presigner.NewS3UploadPresigner(s3.NewFromConfig(cfg.Config, cfg.S3Options...), cfg.BucketName)
		s.detector = NewRekognitionDetector(cfg.Config, cfg.BucketName, cfg.RekognitionOptions...)
		s.publicURL = cfg.BucketPublicURL
		if s.publicURL == "" {
			s.publicURL = analysis.DefaultPublicURL(cfg.BucketName)
		}
	}
	if cfg.TableName != "" {
		s.records = NewDynamoRecordStore(cfg.Config, cfg.TableName, cfg.DynamoOptions...)
	}
	return s, nil
}
