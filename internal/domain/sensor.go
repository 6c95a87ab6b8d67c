package domain

import "context"

const (
	StatusOnline  = "Online"
	StatusOffline = "Offline"
)

const (
	ReadingBattery     = "battery"
	ReadingTemperature = "temperature"
	ReadingHumidity    = "humidity"
	ReadingCO2         = "co2"
	ReadingPressure    = "pressure"
)

// ReadingKinds lists every series a sensor document carries.
var ReadingKinds = []string{
	ReadingBattery,
	ReadingTemperature,
	ReadingHumidity,
	ReadingCO2,
	ReadingPressure,
}

func ValidReadingKind(kind string) bool {
	switch kind {
	case ReadingBattery, ReadingTemperature, ReadingHumidity, ReadingCO2, ReadingPressure:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	return status == StatusOnline || status == StatusOffline
}

// ValidCoordinates checks WGS84 bounds.
func ValidCoordinates(longitude, latitude float64) bool {
	return longitude >= -180 && longitude <= 180 && latitude >= -90 && latitude <= 90
}

// GeoPoint is a GeoJSON point, coordinates ordered longitude then latitude.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

// Reading is one timestamped sample; Time is epoch milliseconds.
type Reading struct {
	Time  int64   `json:"time" bson:"time"`
	Value float64 `json:"value" bson:"value"`
}

type Sensor struct {
	ID          int64     `json:"sensor_id" bson:"sensor_id"`
	Name        string    `json:"name" bson:"name"`
	Geolocation GeoPoint  `json:"geolocation" bson:"geolocation"`
	Status      string    `json:"status" bson:"status"`
	LastUpdate  int64     `json:"last_update" bson:"last_update"`
	Battery     []Reading `json:"battery" bson:"battery"`
	Temperature []Reading `json:"temperature" bson:"temperature"`
	Humidity    []Reading `json:"humidity" bson:"humidity"`
	CO2         []Reading `json:"co2" bson:"co2"`
	Pressure    []Reading `json:"pressure" bson:"pressure"`
}

// Series returns the reading sequence for a kind, nil for unknown kinds.
func (s *Sensor) Series(kind string) []Reading {
	switch kind {
	case ReadingBattery:
		return s.Battery
	case ReadingTemperature:
		return s.Temperature
	case ReadingHumidity:
		return s.Humidity
	case ReadingCO2:
		return s.CO2
	case ReadingPressure:
		return s.Pressure
	}
	return nil
}

type SensorStore interface {
	Create(ctx context.Context, name string, longitude, latitude float64) (int64, error)
	DeleteByName(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*Sensor, error)
	GetByID(ctx context.Context, id int64) (*Sensor, error)
	AddReading(ctx context.Context, name, kind string, value float64) error
	ByLocation(ctx context.Context, longitude, latitude float64, meters int64) ([]Sensor, error)
	Status(ctx context.Context, name string) (string, error)
	SetStatus(ctx context.Context, name, status string) error
	LastReading(ctx context.Context, name, kind string) (*Reading, error)
	ReadingsRange(ctx context.Context, name, kind string, from, to int64) ([]Reading, error)
	CountByStatus(ctx context.Context, ids []int64, status string) (int64, error)
}
