package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/imganalysis/imganalysis/internal/telemetry"
	"github.com/imganalysis/imganalysis/pkg/aws"
)

// HTTPHandlerBuilder is a function that creates a http.Handler from a config.
type HTTPHandlerBuilder func(aws.Config) (http.Handler, error)

// StartHTTPHandler starts a lambda handler that processes API Gateway HTTP
// requests. It panics when an environment variable for a required resource is
// not set.
func StartHTTPHandler(makeHandler HTTPHandlerBuilder, required ...aws.Requirement) {
	ctx := context.Background()
	cfg := aws.FromEnv(ctx, required...)
	telemetry.SetupErrorReporting(cfg.SentryDSN, cfg.SentryEnvironment)

	handler, err := makeHandler(cfg)
	if err != nil {
		telemetry.ReportError(err)
		panic(err)
	}

	lambda.StartWithOptions(httpadapter.NewV2(handler).ProxyWithContext, lambda.WithContext(ctx))
}
