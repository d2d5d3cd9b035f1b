package dynamodb

import (
	"context"
	"fmt"
	"time"

	"destek-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// KVStore implements ports.KeyValueStore on a single DynamoDB table.
// Expiry is delegated to DynamoDB's native TTL on the TTL attribute;
// expired items that have not been reaped yet are filtered on read.
type KVStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// kvItem is the single-table record shape
type kvItem struct {
	PK    string `dynamodbav:"PK"`
	Value []byte `dynamodbav:"Value"`
	TTL   int64  `dynamodbav:"TTL,omitempty"`
}

// NewKVStore creates a DynamoDB-backed key value store
func NewKVStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *KVStore {
	return &KVStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Get retrieves a value by key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if result.Item == nil {
		return nil, ports.ErrKeyNotFound
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(result.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	// DynamoDB reaps TTL-expired items lazily
	if it.TTL > 0 && time.Now().Unix() >= it.TTL {
		return nil, ports.ErrKeyNotFound
	}

	return it.Value, nil
}

// Put stores a value; a positive ttl sets the TTL attribute
func (s *KVStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	it := kvItem{PK: key, Value: value}
	if ttl > 0 {
		it.TTL = time.Now().Add(ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; missing keys are not an error
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ListKeys scans for keys with the given prefix. The key families here
// (cache entries, rate limit windows, metrics) stay small enough that a
// filtered scan is acceptable.
func (s *KVStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: prefix},
			},
			ProjectionExpression: aws.String("PK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan prefix %s: %w", prefix, err)
		}

		for _, item := range result.Items {
			if pk, ok := item["PK"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, pk.Value)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return keys, nil
}
