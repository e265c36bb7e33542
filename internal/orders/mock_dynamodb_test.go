package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a small in-memory mock for PutItem/GetItem/UpdateItem/Query
// used in unit tests. Not production-grade.
type simpleMock struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue

	putCalls    int
	getCalls    int
	updateCalls int
	queryCalls  int

	// updateFailures fails that many upcoming UpdateItem calls.
	updateFailures int
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++

	keyAttr := params.Item["order_track_id"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_track_id)" {
		if _, ok := m.table[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++

	keyAttr := params.Key["order_track_id"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++

	if m.updateFailures > 0 {
		m.updateFailures--
		return nil, errors.New("simulated dynamo failure")
	}

	keyAttr := params.Key["order_track_id"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value

	item, ok := m.table[k]
	if !ok {
		// UpdateItem upserts: start from the key alone
		item = map[string]types.AttributeValue{
			"order_track_id": &types.AttributeValueMemberS{Value: k},
		}
	}
	if err := applySetExpression(item, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	m.table[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *simpleMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++

	keyAttr := params.ExpressionAttributeNames["#k"]
	keyVal, ok := params.ExpressionAttributeValues[":k"].(*types.AttributeValueMemberS)
	if keyAttr == "" || !ok {
		return nil, errors.New("unsupported query shape")
	}

	var items []map[string]types.AttributeValue
	for _, item := range m.table {
		av, ok := item[keyAttr].(*types.AttributeValueMemberS)
		if ok && av.Value == keyVal.Value {
			items = append(items, item)
		}
	}

	// range key is order_placed_at (RFC3339 strings sort chronologically)
	asc := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		a := stringAttr(items[i], "order_placed_at")
		b := stringAttr(items[j], "order_placed_at")
		if asc {
			return a < b
		}
		return a > b
	})

	return &dyn.QueryOutput{Items: items}, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberS); ok {
		return av.Value
	}
	return ""
}

// applySetExpression evaluates a "SET #a = :x, #b = :y" expression against an
// item, which is the only update shape the store emits.
func applySetExpression(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "SET") {
		return fmt.Errorf("unsupported update expression: %s", expr)
	}
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET"), ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad clause: %s", clause)
		}
		alias := strings.TrimSpace(parts[0])
		placeholder := strings.TrimSpace(parts[1])
		name, ok := names[alias]
		if !ok {
			name = alias
		}
		value, ok := values[placeholder]
		if !ok {
			return fmt.Errorf("missing value for %s", placeholder)
		}
		item[name] = value
	}
	return nil
}
