package aws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcdynamodb "github.com/testcontainers/testcontainers-go/modules/dynamodb"

	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/internal/testutil"
)

// mockDynamo serves scans from fixed pages and records puts.
type mockDynamo struct {
	pages   [][]map[string]types.AttributeValue
	scans   []*dynamodb.ScanInput
	puts    []*dynamodb.PutItemInput
	scanErr error
	putErr  error
}

func (m *mockDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.scans = append(m.scans, params)
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	i := len(m.scans) - 1
	out := &dynamodb.ScanOutput{}
	if i < len(m.pages) {
		out.Items = m.pages[i]
	}
	if i < len(m.pages)-1 {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"imageId": &types.AttributeValueMemberS{Value: fmt.Sprintf("page-%d", i)},
		}
	}
	return out, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.puts = append(m.puts, params)
	return &dynamodb.PutItemOutput{}, m.putErr
}

func mustMarshal(t *testing.T, record analysis.Record) map[string]types.AttributeValue {
	return testutil.Must(attributevalue.MarshalMap(record))(t)
}

func TestDynamoRecordStore(t *testing.T) {
	ctx := context.Background()
	cat := analysis.Record{
		ImageID:          "cat.jpg",
		Timestamp:        "2024-01-01T00:00:00.000000",
		Labels:           []string{"Cat", "Animal"},
		ModerationLabels: []string{"Explicit Nudity"},
		Description:      "На изображении обнаружены: Cat (95%), Animal (88%)",
		S3URL:            "https://photos.s3.amazonaws.com/cat.jpg",
	}
	dog := analysis.Record{
		ImageID:          "dog.jpg",
		Timestamp:        "2024-06-01T00:00:00.000000",
		Labels:           []string{"Dog"},
		ModerationLabels: []string{"Violence"},
		Description:      "На изображении обнаружены: Dog (99%)",
		S3URL:            "https://photos.s3.amazonaws.com/dog.jpg",
	}

	t.Run("put", func(t *testing.T) {
		client := &mockDynamo{}
		store := NewDynamoRecordStoreFromClient(client, "results")

		require.NoError(t, store.Put(ctx, cat))
		require.Len(t, client.puts, 1)
		require.Equal(t, "results", aws.ToString(client.puts[0].TableName))
		require.Nil(t, client.puts[0].ConditionExpression)

		var stored analysis.Record
		require.NoError(t, attributevalue.UnmarshalMap(client.puts[0].Item, &stored))
		require.Equal(t, cat, stored)
		require.Equal(t, &types.AttributeValueMemberS{Value: "cat.jpg"}, client.puts[0].Item["imageId"])
	})

	t.Run("put failure", func(t *testing.T) {
		cause := errors.New("ProvisionedThroughputExceededException")
		store := NewDynamoRecordStoreFromClient(&mockDynamo{putErr: cause}, "results")

		require.ErrorIs(t, store.Put(ctx, cat), cause)
	})

	t.Run("list reads every page", func(t *testing.T) {
		client := &mockDynamo{
			pages: [][]map[string]types.AttributeValue{
				{mustMarshal(t, cat)},
				{mustMarshal(t, dog)},
			},
		}
		store := NewDynamoRecordStoreFromClient(client, "results")

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []analysis.Record{cat, dog}, records)

		require.Len(t, client.scans, 2)
		require.Nil(t, client.scans[0].ExclusiveStartKey)
		require.Equal(t, &types.AttributeValueMemberS{Value: "page-0"}, client.scans[1].ExclusiveStartKey["imageId"])
		require.NotNil(t, client.scans[0].ProjectionExpression)
		require.Contains(t, client.scans[0].ExpressionAttributeNames, "#1")
	})

	t.Run("list empty table", func(t *testing.T) {
		store := NewDynamoRecordStoreFromClient(&mockDynamo{}, "results")

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, records)
		require.Empty(t, records)
	})

	t.Run("list failure", func(t *testing.T) {
		cause := errors.New("ResourceNotFoundException")
		store := NewDynamoRecordStoreFromClient(&mockDynamo{scanErr: cause}, "results")

		_, err := store.List(ctx)
		require.ErrorIs(t, err, cause)
	})
}

func TestDynamoRecordStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dynamodb-local container test in short mode")
	}
	ctx := context.Background()
	endpoint := createDynamo(t)
	tableName := fmt.Sprintf("results-%s", testutil.RandomName(t))

	client := dynamodb.NewFromConfig(aws.Config{}, func(o *dynamodb.Options) {
		o.Credentials = credentials.NewStaticCredentialsProvider("DUMMYIDEXAMPLE", "DUMMYEXAMPLEKEY", "")
		o.Region = "us-east-1"
		o.BaseEndpoint = aws.String(endpoint.String())
	})
	createRecordsTable(t, client, tableName)

	store := NewDynamoRecordStoreFromClient(client, tableName)

	first := analysis.Record{
		ImageID:          "cat.jpg",
		Timestamp:        "2024-01-01T00:00:00.000000",
		Labels:           []string{"Cat"},
		ModerationLabels: []string{},
		Description:      "first",
		S3URL:            "https://photos.s3.amazonaws.com/cat.jpg",
	}
	second := first
	second.Timestamp = "2024-06-01T00:00:00.000000"
	second.ModerationLabels = []string{"Explicit Nudity"}
	second.Description = "second"

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "second", records[0].Description)
	require.Equal(t, []string{"Explicit Nudity"}, records[0].ModerationLabels)
}

func createDynamo(t *testing.T) *url.URL {
	ctx := context.Background()
	container, err := tcdynamodb.Run(ctx, "amazon/dynamodb-local:latest")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	return testutil.Must(url.Parse("http://" + endpoint))(t)
}

func createRecordsTable(t *testing.T, client *dynamodb.Client, tableName string) {
	ctx := context.Background()
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("imageId"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("imageId"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	require.NoError(t, err)

	waiter := dynamodb.NewTableExistsWaiter(client)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, time.Minute)
	require.NoError(t, err)
}
