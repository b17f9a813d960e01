package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// renewalIndexes lists the secondary indexes per collection. Names are fixed so
// CreateMany is idempotent across restarts.
var renewalIndexes = map[string][]mongo.IndexModel{
	ColRecords: {
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("records_status"),
		},
		{
			// expiry is start_time + duration, so the pair serves window scans
			Keys:    bson.D{{Key: "start_time", Value: 1}, {Key: "duration", Value: 1}},
			Options: options.Index().SetName("records_term"),
		},
		{
			Keys:    bson.D{{Key: "crm_id", Value: 1}},
			Options: options.Index().SetName("records_crm_id").SetSparse(true),
		},
	},
	ColOverrides: {
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("overrides_created_at"),
		},
	},
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{ColRecords, ColOverrides} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, renewalIndexes[coll]); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", coll, err)
		}
	}
	return nil
}
