package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

const (
	colSensors  = "sensors"
	colUsers    = "users"
	colAlerts   = "alerts"
	colAPIKeys  = "apikeys"
	colCounters = "counters"
)

func NewMongoConnection(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// Stores bundles the mongo-backed entity stores sharing one database handle.
type Stores struct {
	client  *mongo.Client
	Sensors *SensorStore
	Users   *UserStore
	Alerts  *AlertStore
	Keys    *KeyStore
	Seq     *Sequences
}

// NewStores creates the stores, ensures indexes, and seeds every id counter
// so the sequence allocator never sees a missing counter document.
func NewStores(client *mongo.Client, database string) (*Stores, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	seq := NewSequences(db)
	if err := seq.Ensure(ctx, domain.SeqEntities...); err != nil {
		return nil, err
	}

	return &Stores{
		client:  client,
		Sensors: NewSensorStore(db, seq),
		Users:   NewUserStore(db, seq),
		Alerts:  NewAlertStore(db, seq),
		Keys:    NewKeyStore(db),
		Seq:     seq,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	sensorIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sensor_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "geolocation", Value: "2dsphere"}}},
	}
	if _, err := db.Collection(colSensors).Indexes().CreateMany(ctx, sensorIndexes); err != nil {
		return fmt.Errorf("create sensor indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(colUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	alertIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "alert_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "time", Value: -1}}},
	}
	if _, err := db.Collection(colAlerts).Indexes().CreateMany(ctx, alertIndexes); err != nil {
		return fmt.Errorf("create alert indexes: %w", err)
	}

	keyIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(colAPIKeys).Indexes().CreateMany(ctx, keyIndexes); err != nil {
		return fmt.Errorf("create apikey indexes: %w", err)
	}

	return nil
}

func (s *Stores) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
