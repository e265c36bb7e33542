package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/streetnoshery/orders-backend/internal/aws"
)

// ErrOrderNotFound is returned by lookups against an unknown track id.
var ErrOrderNotFound = errors.New("order not found")

// ErrTrackIDConflict is returned when a Create collides with an existing
// track id. With 62^16 ids this means a caller retried with a stale id.
var ErrTrackIDConflict = errors.New("order track id already exists")

// GSI names. Both indexes use order_placed_at as range key so queries come
// back in placement order.
const (
	customerIndex = "customer_id-index"
	shopIndex     = "shop_id-index"
)

// Store encapsulates operations on the orders table.
//
// Writes are last-write-wins: there is no version token, and concurrent
// upserts for the same track id are resolved by the storage layer.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a freshly placed order. The conditional put makes the track
// id the creation dedup key: a collision fails with ErrTrackIDConflict instead
// of silently merging into an existing order.
func (s *Store) Create(ctx context.Context, order Order) (*Order, error) {
	now := s.nowFunc().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_track_id)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return nil, ErrTrackIDConflict
		}
		return nil, fmt.Errorf("put order: %w", err)
	}

	return &order, nil
}

// Upsert merges fields into the record matching trackID, creating it when
// absent, and returns the post-update record. This mirrors a document-store
// findOneAndUpdate with upsert semantics.
func (s *Store) Upsert(ctx context.Context, trackID string, fields Fields) (*Order, error) {
	if len(fields) == 0 {
		return nil, errors.New("empty field set")
	}

	// Deterministic expression ordering keeps behavior reproducible in tests.
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	updateExpr := "SET"
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}
	for i, name := range names {
		av, err := attributevalue.Marshal(fields[name])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", name, err)
		}
		alias := fmt.Sprintf("#f%d", i)
		placeholder := fmt.Sprintf(":v%d", i)
		if i > 0 {
			updateExpr += ","
		}
		updateExpr += fmt.Sprintf(" %s = %s", alias, placeholder)
		exprNames[alias] = name
		exprValues[placeholder] = av
	}

	// updated_at always moves with the write.
	now := s.nowFunc().UTC()
	ua, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("marshal updated_at: %w", err)
	}
	updateExpr += ", #ua = :ua"
	exprNames["#ua"] = "updated_at"
	exprValues[":ua"] = ua

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_track_id": &types.AttributeValueMemberS{Value: trackID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// GetByTrackID fetches an order by track id. Returns (nil, nil) if not found.
func (s *Store) GetByTrackID(ctx context.Context, trackID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_track_id": &types.AttributeValueMemberS{Value: trackID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ListByCustomer returns a customer's orders, placement time descending.
func (s *Store) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.queryIndex(ctx, customerIndex, "customer_id", customerID)
}

// ListByShop returns a shop's orders, placement time descending.
func (s *Store) ListByShop(ctx context.Context, shopID string) ([]Order, error) {
	return s.queryIndex(ctx, shopIndex, "shop_id", shopID)
}

func (s *Store) queryIndex(ctx context.Context, index, keyAttr, keyValue string) ([]Order, error) {
	input := &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              &index,
		KeyConditionExpression: awsString("#k = :k"),
		ExpressionAttributeNames: map[string]string{
			"#k": keyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: keyValue},
		},
		// range key is order_placed_at; descending gives newest first
		ScanIndexForward: awsBool(false),
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", index, err)
	}

	list := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		list = append(list, o)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
