package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	sqssdk "github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockDynamo is a minimal in-memory orders table for service tests.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// updateFailures fails that many upcoming UpdateItem calls.
	updateFailures int
	updateCalls    int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := in.Item["order_track_id"].(*types.AttributeValueMemberS).Value
	if in.ConditionExpression != nil && *in.ConditionExpression == "attribute_not_exists(order_track_id)" {
		if _, ok := m.items[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := in.Key["order_track_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateFailures > 0 {
		m.updateFailures--
		return nil, errors.New("simulated dynamo failure")
	}
	k := in.Key["order_track_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.items[k]
	if !ok {
		item = map[string]types.AttributeValue{
			"order_track_id": &types.AttributeValueMemberS{Value: k},
		}
	}
	if err := applySet(item, *in.UpdateExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	m.items[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, in *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := in.ExpressionAttributeNames["#k"]
	keyVal := in.ExpressionAttributeValues[":k"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if av, ok := item[keyAttr].(*types.AttributeValueMemberS); ok && av.Value == keyVal {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, _ := items[i]["order_placed_at"].(*types.AttributeValueMemberS)
		b, _ := items[j]["order_placed_at"].(*types.AttributeValueMemberS)
		av, bv := "", ""
		if a != nil {
			av = a.Value
		}
		if b != nil {
			bv = b.Value
		}
		return av > bv
	})
	return &dyn.QueryOutput{Items: items}, nil
}

func applySet(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "SET") {
		return fmt.Errorf("unsupported update expression: %s", expr)
	}
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET"), ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad clause: %s", clause)
		}
		name, ok := names[strings.TrimSpace(parts[0])]
		if !ok {
			name = strings.TrimSpace(parts[0])
		}
		value, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return fmt.Errorf("missing value for %s", parts[1])
		}
		item[name] = value
	}
	return nil
}

// mockSQS records sent messages; err makes every send fail.
type mockSQS struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqssdk.SendMessageInput, optFns ...func(*sqssdk.Options)) (*sqssdk.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.bodies = append(m.bodies, *in.MessageBody)
	return &sqssdk.SendMessageOutput{}, nil
}

func (m *mockSQS) sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bodies)
}
