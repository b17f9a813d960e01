package dynamo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdmin struct {
	existing  map[string]bool
	created   []*dynamodb.CreateTableInput
	createErr error
}

func (f *fakeAdmin) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.existing[aws.ToString(in.TableName)] {
		return &dynamodb.DescribeTableOutput{}, nil
	}
	return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
}

func (f *fakeAdmin) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &dynamodb.CreateTableOutput{}, nil
}

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestEnsureTables_CreatesOnlyMissing(t *testing.T) {
	admin := &fakeAdmin{existing: map[string]bool{TableRecords: true}}

	require.NoError(t, EnsureTables(context.Background(), admin, quietLog))

	require.Len(t, admin.created, 1)
	in := admin.created[0]
	assert.Equal(t, TableOverrides, aws.ToString(in.TableName))
	assert.Equal(t, "record_id", aws.ToString(in.KeySchema[0].AttributeName))
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
}

func TestEnsureTables_ToleratesConcurrentCreate(t *testing.T) {
	admin := &fakeAdmin{createErr: &types.ResourceInUseException{Message: aws.String("in use")}}
	assert.NoError(t, EnsureTables(context.Background(), admin, quietLog))
}

func TestEnsureTables_PropagatesErrors(t *testing.T) {
	admin := &fakeAdmin{createErr: errors.New("throttled")}
	err := EnsureTables(context.Background(), admin, quietLog)
	assert.ErrorContains(t, err, "create table "+TableRecords)
}

func TestWithBackoff_StopsOnSuccess(t *testing.T) {
	calls := 0
	err := withBackoff(context.Background(), quietLog, 3, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithBackoff_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := withBackoff(ctx, quietLog, 5, func(context.Context) error {
		calls++
		return errors.New("unreachable")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
