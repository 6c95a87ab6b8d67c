package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

type AlertStore struct {
	col *mongo.Collection
	seq domain.Sequencer
}

func NewAlertStore(db *mongo.Database, seq domain.Sequencer) *AlertStore {
	return &AlertStore{col: db.Collection(colAlerts), seq: seq}
}

func (a *AlertStore) Create(ctx context.Context, title, body string, sensorID int64) (int64, error) {
	id, err := a.seq.Next(ctx, domain.SeqAlert)
	if err != nil {
		return 0, err
	}

	alert := domain.Alert{
		ID:       id,
		Title:    title,
		Alert:    body,
		Time:     time.Now().UnixMilli(),
		SensorID: sensorID,
	}
	if _, err := a.col.InsertOne(ctx, alert); err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}

	log.Printf("Created alert %d: %s", id, title)
	return id, nil
}

func (a *AlertStore) Delete(ctx context.Context, id int64) error {
	result, err := a.col.DeleteOne(ctx, bson.M{"alert_id": id})
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Deleted alert %d", id)
	return nil
}

func (a *AlertStore) Get(ctx context.Context, id int64) (*domain.Alert, error) {
	var alert domain.Alert
	err := a.col.FindOne(ctx, bson.M{"alert_id": id}).Decode(&alert)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &alert, nil
}

func (a *AlertStore) SensorID(ctx context.Context, id int64) (int64, error) {
	alert, err := a.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return alert.SensorID, nil
}

func (a *AlertStore) List(ctx context.Context, from, to, amount int64) ([]domain.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if amount > 0 {
		opts = opts.SetLimit(amount)
	}

	cursor, err := a.col.Find(ctx, bson.M{"time": bson.M{"$gte": from, "$lte": to}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := []domain.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return alerts, nil
}
