package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Sequences allocates surrogate ids by atomically incrementing one counter
// document per entity type. Uniqueness under concurrency rides on the
// atomicity of findOneAndUpdate.
type Sequences struct {
	col *mongo.Collection
}

func NewSequences(db *mongo.Database) *Sequences {
	return &Sequences{col: db.Collection(colCounters)}
}

// Ensure seeds a zeroed counter for every entity type. Existing counters
// are left untouched, so calling this on every startup is safe.
func (s *Sequences) Ensure(ctx context.Context, entities ...string) error {
	for _, entity := range entities {
		_, err := s.col.UpdateOne(ctx,
			bson.M{"_id": entity},
			bson.M{"$setOnInsert": bson.M{"value": int64(0)}},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed %s counter: %w", entity, err)
		}
	}
	return nil
}

func (s *Sequences) Next(ctx context.Context, entity string) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": entity},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", entity, err)
	}
	return counter.Value, nil
}
