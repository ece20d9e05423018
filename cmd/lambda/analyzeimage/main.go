package main

import (
	"net/http"

	"github.com/imganalysis/imganalysis/cmd/lambda"
	"github.com/imganalysis/imganalysis/pkg/aws"
	"github.com/imganalysis/imganalysis/pkg/service/images"
)

var requires = []aws.Requirement{aws.Bucket, aws.Table}

func main() {
	lambda.StartHTTPHandler(makeHandler, requires...)
}

func makeHandler(cfg aws.Config) (http.Handler, error) {
	service, err := aws.Construct(cfg, requires...)
	if err != nil {
		return nil, err
	}
	handler := images.NewAnalyzeHandler(service.Detector(), service.Records(), service.PublicURL())
	return images.NewHandler(handler), nil
}
