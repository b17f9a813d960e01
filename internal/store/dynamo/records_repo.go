package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/go-renewals/internal/core"
)

type RecordRepo struct {
	client API
}

func NewRecordRepo(client API) *RecordRepo {
	return &RecordRepo{client: client}
}

// List scans the whole table. Premium normalization needs every record, so a
// full scan is the access pattern rather than a fallback.
func (r *RecordRepo) List(ctx context.Context) ([]core.Record, error) {
	var items []RecordItem
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(TableRecords),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("records.scan: %w", err)
		}
		var page []RecordItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("records.unmarshal: %w", err)
		}
		items = append(items, page...)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	records := make([]core.Record, len(items))
	for i, item := range items {
		records[i] = item.ToCore()
	}
	return records, nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (core.Record, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableRecords),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Record{}, fmt.Errorf("records.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Record{}, core.ErrRecordNotFound
	}

	var item RecordItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Record{}, fmt.Errorf("records.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *RecordRepo) Upsert(ctx context.Context, rec core.Record) error {
	av, err := attributevalue.MarshalMap(recordItemFromCore(rec))
	if err != nil {
		return fmt.Errorf("records.marshal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableRecords),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("records.putItem: %w", err)
	}
	return nil
}
