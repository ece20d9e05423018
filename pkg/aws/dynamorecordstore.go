package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

// DynamoRecordsAPI is the subset of the DynamoDB client used by
// DynamoRecordStore.
type DynamoRecordsAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoRecordStore implements the RecordStore interface on dynamodb
type DynamoRecordStore struct {
	tableName      string
	dynamoDbClient DynamoRecordsAPI
}

// NewDynamoRecordStore returns a RecordStore connected to a AWS DynamoDB table
func NewDynamoRecordStore(cfg aws.Config, tableName string, opts ...func(*dynamodb.Options)) *DynamoRecordStore {
	return NewDynamoRecordStoreFromClient(dynamodb.NewFromConfig(cfg, opts...), tableName)
}

func NewDynamoRecordStoreFromClient(client DynamoRecordsAPI, tableName string) *DynamoRecordStore {
	return &DynamoRecordStore{
		tableName:      tableName,
		dynamoDbClient: client,
	}
}

// Put implements recordstore.RecordStore.
func (d *DynamoRecordStore) Put(ctx context.Context, record analysis.Record) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("serializing item: %w", err)
	}
	_, err = d.dynamoDbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName), Item: item,
	})
	if err != nil {
		return fmt.Errorf("storing item: %w", err)
	}
	return nil
}

// List implements recordstore.RecordStore. Every page of the scan is read.
func (d *DynamoRecordStore) List(ctx context.Context) ([]analysis.Record, error) {
	// "timestamp" is a reserved word, the builder substitutes placeholders
	proj := expression.NamesList(
		expression.Name("imageId"),
		expression.Name("timestamp"),
		expression.Name("labels"),
		expression.Name("moderationLabels"),
		expression.Name("description"),
		expression.Name("s3Url"),
	)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("building scan: %w", err)
	}

	records := []analysis.Record{}
	scanPaginator := dynamodb.NewScanPaginator(d.dynamoDbClient, &dynamodb.ScanInput{
		TableName:                aws.String(d.tableName),
		ExpressionAttributeNames: expr.Names(),
		ProjectionExpression:     expr.Projection(),
	})
	for scanPaginator.HasMorePages() {
		response, err := scanPaginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning records: %w", err)
		}
		var page []analysis.Record
		err = attributevalue.UnmarshalListOfMaps(response.Items, &page)
		if err != nil {
			return nil, fmt.Errorf("parsing scan responses: %w", err)
		}
		for _, r := range page {
			records = append(records, withEmptyLists(r))
		}
	}
	return records, nil
}

// empty lists may be stored as NULL, callers expect JSON arrays
func withEmptyLists(r analysis.Record) analysis.Record {
	if r.Labels == nil {
		r.Labels = []string{}
	}
	if r.ModerationLabels == nil {
		r.ModerationLabels = []string{}
	}
	return r
}

var _ recordstore.RecordStore = (*DynamoRecordStore)(nil)
