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

type OverrideStoreMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewOverrideStore(db *mongodrv.Database, opTimeout time.Duration) *OverrideStoreMongo {
	return &OverrideStoreMongo{
		coll:      db.Collection(ColOverrides),
		opTimeout: opTimeout,
	}
}

func (s *OverrideStoreMongo) Get(ctx context.Context, recordID string) (core.ManualOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var doc OverrideDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": recordID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.ManualOverride{}, core.ErrOverrideNotFound
		}
		return core.ManualOverride{}, fmt.Errorf("overrides.findOne: %w", err)
	}
	return fromOverrideDoc(doc), nil
}

// Set replaces any earlier override for the same record.
func (s *OverrideStoreMongo) Set(ctx context.Context, o core.ManualOverride) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	doc := toOverrideDoc(o)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.RecordID}, doc, opts); err != nil {
		return fmt.Errorf("overrides.upsert: %w", err)
	}
	return nil
}

func (s *OverrideStoreMongo) Delete(ctx context.Context, recordID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": recordID})
	if err != nil {
		return fmt.Errorf("overrides.delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return core.ErrOverrideNotFound
	}
	return nil
}

func (s *OverrideStoreMongo) Snapshot(ctx context.Context) (map[string]core.ManualOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("overrides.find: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]core.ManualOverride)
	for cursor.Next(ctx) {
		var doc OverrideDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("overrides.decode: %w", err)
		}
		out[doc.RecordID] = fromOverrideDoc(doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("overrides.cursor: %w", err)
	}
	return out, nil
}
