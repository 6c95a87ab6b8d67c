package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

type KeyStore struct {
	col *mongo.Collection
}

func NewKeyStore(db *mongo.Database) *KeyStore {
	return &KeyStore{col: db.Collection(colAPIKeys)}
}

// Add stores a key at the given level. An empty key argument mints a fresh
// random key.
func (k *KeyStore) Add(ctx context.Context, key string, level int) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}

	count, err := k.col.CountDocuments(ctx, bson.M{"key": key})
	if err != nil {
		return "", fmt.Errorf("check key: %w", err)
	}
	if count > 0 {
		return "", domain.Invalid("key already exists")
	}

	if _, err := k.col.InsertOne(ctx, domain.APIKey{Key: key, Level: level}); err != nil {
		return "", fmt.Errorf("insert key: %w", err)
	}

	log.Printf("Added API key at level %d", level)
	return key, nil
}

func (k *KeyStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := k.col.CountDocuments(ctx, bson.M{"key": key})
	if err != nil {
		return false, fmt.Errorf("check key: %w", err)
	}
	return count > 0, nil
}

// Level resolves a key to its access level, LevelInvalid for unknown keys.
func (k *KeyStore) Level(ctx context.Context, key string) (int, error) {
	var apikey domain.APIKey
	err := k.col.FindOne(ctx, bson.M{"key": key}).Decode(&apikey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.LevelInvalid, nil
	}
	if err != nil {
		return domain.LevelInvalid, fmt.Errorf("find key: %w", err)
	}
	return apikey.Level, nil
}

func (k *KeyStore) SetLevel(ctx context.Context, key string, level int) error {
	result, err := k.col.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": bson.M{"level": level}})
	if err != nil {
		return fmt.Errorf("set key level: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Changed API key level to %d", level)
	return nil
}

func (k *KeyStore) Delete(ctx context.Context, key string) error {
	result, err := k.col.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Deleted API key")
	return nil
}
