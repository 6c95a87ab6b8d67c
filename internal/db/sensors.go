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

type SensorStore struct {
	col *mongo.Collection
	seq domain.Sequencer
}

func NewSensorStore(db *mongo.Database, seq domain.Sequencer) *SensorStore {
	return &SensorStore{col: db.Collection(colSensors), seq: seq}
}

func (s *SensorStore) Create(ctx context.Context, name string, longitude, latitude float64) (int64, error) {
	if !domain.ValidCoordinates(longitude, latitude) {
		return 0, domain.Invalid("coordinates %v,%v are outside WGS84 bounds", longitude, latitude)
	}

	count, err := s.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return 0, fmt.Errorf("check sensor name: %w", err)
	}
	if count > 0 {
		return 0, domain.Invalid("sensor with name %q already exists", name)
	}

	id, err := s.seq.Next(ctx, domain.SeqSensor)
	if err != nil {
		return 0, err
	}

	sensor := domain.Sensor{
		ID:          id,
		Name:        name,
		Geolocation: domain.NewGeoPoint(longitude, latitude),
		Status:      domain.StatusOnline,
		LastUpdate:  time.Now().UnixMilli(),
		Battery:     []domain.Reading{},
		Temperature: []domain.Reading{},
		Humidity:    []domain.Reading{},
		CO2:         []domain.Reading{},
		Pressure:    []domain.Reading{},
	}
	if _, err := s.col.InsertOne(ctx, sensor); err != nil {
		return 0, fmt.Errorf("insert sensor: %w", err)
	}

	log.Printf("Created sensor %s (id %d) at %v,%v", name, id, longitude, latitude)
	return id, nil
}

func (s *SensorStore) DeleteByName(ctx context.Context, name string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete sensor: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Deleted sensor %s", name)
	return nil
}

func (s *SensorStore) GetByName(ctx context.Context, name string) (*domain.Sensor, error) {
	return s.findOne(ctx, bson.M{"name": name}, nil)
}

func (s *SensorStore) GetByID(ctx context.Context, id int64) (*domain.Sensor, error) {
	return s.findOne(ctx, bson.M{"sensor_id": id}, nil)
}

func (s *SensorStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptionsBuilder) (*domain.Sensor, error) {
	var sensor domain.Sensor
	var err error
	if opts != nil {
		err = s.col.FindOne(ctx, filter, opts).Decode(&sensor)
	} else {
		err = s.col.FindOne(ctx, filter).Decode(&sensor)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find sensor: %w", err)
	}
	return &sensor, nil
}

// AddReading appends a timestamped value to one of the sensor's series and
// refreshes last_update. The append is a single atomic $push.
func (s *SensorStore) AddReading(ctx context.Context, name, kind string, value float64) error {
	if !domain.ValidReadingKind(kind) {
		return domain.Invalid("invalid reading type %q", kind)
	}

	now := time.Now().UnixMilli()
	result, err := s.col.UpdateOne(ctx, bson.M{"name": name}, bson.M{
		"$push": bson.M{kind: domain.Reading{Time: now, Value: value}},
		"$set":  bson.M{"last_update": now},
	})
	if err != nil {
		return fmt.Errorf("append %s reading: %w", kind, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ByLocation returns sensors within meters of the given point, nearest first.
func (s *SensorStore) ByLocation(ctx context.Context, longitude, latitude float64, meters int64) ([]domain.Sensor, error) {
	if !domain.ValidCoordinates(longitude, latitude) {
		return nil, domain.Invalid("coordinates %v,%v are outside WGS84 bounds", longitude, latitude)
	}

	filter := bson.M{"geolocation": bson.M{
		"$near": bson.M{
			"$geometry":    domain.NewGeoPoint(longitude, latitude),
			"$maxDistance": meters,
		},
	}}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("geo query: %w", err)
	}
	defer cursor.Close(ctx)

	var sensors []domain.Sensor
	if err := cursor.All(ctx, &sensors); err != nil {
		return nil, fmt.Errorf("decode geo query: %w", err)
	}
	return sensors, nil
}

func (s *SensorStore) Status(ctx context.Context, name string) (string, error) {
	sensor, err := s.findOne(ctx, bson.M{"name": name},
		options.FindOne().SetProjection(bson.M{"status": 1}))
	if err != nil {
		return "", err
	}
	return sensor.Status, nil
}

func (s *SensorStore) SetStatus(ctx context.Context, name, status string) error {
	if !domain.ValidStatus(status) {
		return domain.Invalid("invalid status %q", status)
	}
	result, err := s.col.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Set sensor %s status to %s", name, status)
	return nil
}

func (s *SensorStore) LastReading(ctx context.Context, name, kind string) (*domain.Reading, error) {
	if !domain.ValidReadingKind(kind) {
		return nil, domain.Invalid("invalid reading type %q", kind)
	}

	sensor, err := s.findOne(ctx, bson.M{"name": name},
		options.FindOne().SetProjection(bson.M{kind: bson.M{"$slice": -1}}))
	if err != nil {
		return nil, err
	}

	series := sensor.Series(kind)
	if len(series) == 0 {
		return nil, domain.ErrNotFound
	}
	reading := series[len(series)-1]
	return &reading, nil
}

// ReadingsRange returns readings with from <= time <= to, filtered inside
// the database via an aggregation-expression projection.
func (s *SensorStore) ReadingsRange(ctx context.Context, name, kind string, from, to int64) ([]domain.Reading, error) {
	if !domain.ValidReadingKind(kind) {
		return nil, domain.Invalid("invalid reading type %q", kind)
	}

	projection := bson.M{kind: bson.M{
		"$filter": bson.M{
			"input": "$" + kind,
			"as":    "r",
			"cond": bson.M{"$and": bson.A{
				bson.M{"$gte": bson.A{"$$r.time", from}},
				bson.M{"$lte": bson.A{"$$r.time", to}},
			}},
		},
	}}

	sensor, err := s.findOne(ctx, bson.M{"name": name},
		options.FindOne().SetProjection(projection))
	if err != nil {
		return nil, err
	}

	series := sensor.Series(kind)
	if series == nil {
		series = []domain.Reading{}
	}
	return series, nil
}

func (s *SensorStore) CountByStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if !domain.ValidStatus(status) {
		return 0, domain.Invalid("invalid status %q", status)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	count, err := s.col.CountDocuments(ctx, bson.M{
		"sensor_id": bson.M{"$in": ids},
		"status":    status,
	})
	if err != nil {
		return 0, fmt.Errorf("count sensors: %w", err)
	}
	return count, nil
}
