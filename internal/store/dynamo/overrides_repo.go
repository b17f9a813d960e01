package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/go-renewals/internal/core"
)

type OverrideStore struct {
	client API
}

func NewOverrideStore(client API) *OverrideStore {
	return &OverrideStore{client: client}
}

func overrideKey(recordID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"record_id": &types.AttributeValueMemberS{Value: recordID},
	}
}

func (s *OverrideStore) Get(ctx context.Context, recordID string) (core.ManualOverride, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableOverrides),
		Key:       overrideKey(recordID),
	})
	if err != nil {
		return core.ManualOverride{}, fmt.Errorf("overrides.getItem: %w", err)
	}
	if out.Item == nil {
		return core.ManualOverride{}, core.ErrOverrideNotFound
	}

	var item OverrideItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.ManualOverride{}, fmt.Errorf("overrides.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (s *OverrideStore) Set(ctx context.Context, o core.ManualOverride) error {
	av, err := attributevalue.MarshalMap(overrideItemFromCore(o))
	if err != nil {
		return fmt.Errorf("overrides.marshal: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableOverrides),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("overrides.putItem: %w", err)
	}
	return nil
}

func (s *OverrideStore) Delete(ctx context.Context, recordID string) error {
	cond := expression.AttributeExists(expression.Name("record_id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("overrides.buildExpr: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(TableOverrides),
		Key:                       overrideKey(recordID),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrOverrideNotFound
		}
		return fmt.Errorf("overrides.deleteItem: %w", err)
	}
	return nil
}

func (s *OverrideStore) Snapshot(ctx context.Context) (map[string]core.ManualOverride, error) {
	out := make(map[string]core.ManualOverride)
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(TableOverrides),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("overrides.scan: %w", err)
		}
		var items []OverrideItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("overrides.unmarshal: %w", err)
		}
		for _, item := range items {
			out[item.RecordID] = item.ToCore()
		}
	}
	return out, nil
}
