package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewRecordRepo(db *mongodrv.Database, opTimeout time.Duration) *RecordRepoMongo {
	return &RecordRepoMongo{
		coll:      db.Collection(ColRecords),
		opTimeout: opTimeout,
	}
}

// List returns every record ordered by ID. The pipeline needs the full population
// to normalize premiums, so there is no pagination here.
func (repo *RecordRepoMongo) List(ctx context.Context) ([]core.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("records.find: %w", err)
	}
	defer cursor.Close(ctx)

	var records []core.Record
	for cursor.Next(ctx) {
		var doc RecordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("records.decode: %w", err)
		}
		records = append(records, fromRecordDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("records.cursor: %w", err)
	}
	return records, nil
}

func (repo *RecordRepoMongo) Get(ctx context.Context, id string) (core.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc RecordDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Record{}, core.ErrRecordNotFound
		}
		return core.Record{}, fmt.Errorf("records.findOne: %w", err)
	}
	return fromRecordDoc(doc), nil
}

func (repo *RecordRepoMongo) Upsert(ctx context.Context, rec core.Record) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := toRecordDoc(rec)
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("records.upsert: %w", err)
	}
	return nil
}
