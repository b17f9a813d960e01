package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	TableRecords   = "renewal_records"
	TableOverrides = "renewal_overrides"
)

// TableAdmin is the slice of the DynamoDB API that table provisioning needs.
type TableAdmin interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// tableSpec describes a single-key, on-demand table.
type tableSpec struct {
	name    string
	hashKey string
}

var renewalTables = []tableSpec{
	{name: TableRecords, hashKey: "id"},
	{name: TableOverrides, hashKey: "record_id"},
}

// EnsureTables creates any missing renewal table. Existing tables are left as they are.
func EnsureTables(ctx context.Context, client TableAdmin, log *slog.Logger) error {
	for _, t := range renewalTables {
		exists, err := tableExists(ctx, client, t.name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", t.name, err)
		}
		if exists {
			log.Debug("table exists", "table", t.name)
			continue
		}

		if _, err := client.CreateTable(ctx, t.createInput()); err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				// another instance created it first
				continue
			}
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Info("table created", "table", t.name, "hash_key", t.hashKey)
	}
	return nil
}

func (t tableSpec) createInput() *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(t.name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(t.hashKey), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(t.hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}

func tableExists(ctx context.Context, client TableAdmin, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err == nil {
		return true, nil
	}
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}
