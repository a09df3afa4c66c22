// Package dynamo provides a DynamoDB-backed Gateway. All scopes share one
// table with a (scope, key) composite primary key and a single blob attribute.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/swapdeck/swapdeck/pkg/storage"
)

// DynamoDBAPI defines the subset of the DynamoDB client the gateway uses.
// It exists so tests can substitute a mock client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// record is the persisted item shape.
type record struct {
	Scope string `dynamodbav:"scope"`
	Key   string `dynamodbav:"key"`
	Blob  []byte `dynamodbav:"blob"`
}

// Gateway stores blobs in a single DynamoDB table.
type Gateway struct {
	Client    DynamoDBAPI
	TableName string
}

// New creates a new DynamoDB gateway.
func New(client DynamoDBAPI, tableName string) *Gateway {
	return &Gateway{Client: client, TableName: tableName}
}

// Make sure we conform to the interface
var _ storage.Gateway = (*Gateway)(nil)

// Load retrieves the blob stored under (scope, key).
func (g *Gateway) Load(ctx context.Context, scope, key string) ([]byte, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(g.TableName),
		Key: map[string]types.AttributeValue{
			"scope": &types.AttributeValueMemberS{Value: scope},
			"key":   &types.AttributeValueMemberS{Value: key},
		},
	}

	result, err := g.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s from DynamoDB: %v: %w", scope, key, err, storage.ErrUnavailable)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%s/%s: %w", scope, key, storage.ErrNotFound)
	}

	var rec record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s/%s: %w", scope, key, err)
	}

	return rec.Blob, nil
}

// Save stores blob under (scope, key), replacing any previous value.
func (g *Gateway) Save(ctx context.Context, scope, key string, blob []byte) error {
	item, err := attributevalue.MarshalMap(record{Scope: scope, Key: key, Blob: blob})
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", scope, key, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(g.TableName),
		Item:      item,
	}

	if _, err := g.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to put %s/%s to DynamoDB: %v: %w", scope, key, err, storage.ErrUnavailable)
	}

	return nil
}
