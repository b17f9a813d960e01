package dynamo

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB client, keyed by each table's hash key.
type fakeDynamo struct {
	mu       sync.Mutex
	pageSize int
	tables   map[string]map[string]map[string]types.AttributeValue
	scans    int
}

var hashKeys = map[string]string{
	TableRecords:   "id",
	TableOverrides: "record_id",
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{pageSize: pageSize, tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func keyValue(table string, item map[string]types.AttributeValue) string {
	if s, ok := item[hashKeys[table]].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.table(*in.TableName)[keyValue(*in.TableName, in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(*in.TableName)[keyValue(*in.TableName, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.table(*in.TableName)
	k := keyValue(*in.TableName, in.Key)
	if _, ok := t[k]; !ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(t, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	t := f.table(*in.TableName)
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyValue(*in.TableName, in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}
	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, t[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = t[keys[end-1]]
	}
	return out, nil
}
