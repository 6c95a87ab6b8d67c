package server

import (
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/db"
	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/ratelimit"
)

type ServerConfig struct {
	Sensors domain.SensorStore
	Users   domain.UserStore
	Alerts  domain.AlertStore
	Keys    domain.KeyStore
	Limiter *ratelimit.Registry
	Port    string

	stores *db.Stores
}

type ConfigOption func(*ServerConfig) error

// WithMongo wires every store to a MongoDB database, ensuring indexes and
// seeding the id counters on the way.
func WithMongo(client *mongo.Client, database string) ConfigOption {
	return func(config *ServerConfig) error {
		stores, err := db.NewStores(client, database)
		if err != nil {
			return err
		}
		config.stores = stores
		config.Sensors = stores.Sensors
		config.Users = stores.Users
		config.Alerts = stores.Alerts
		config.Keys = stores.Keys
		return nil
	}
}

// WithStores injects store implementations directly; tests use this to
// substitute stubs.
func WithStores(sensors domain.SensorStore, users domain.UserStore, alerts domain.AlertStore, keys domain.KeyStore) ConfigOption {
	return func(config *ServerConfig) error {
		config.Sensors = sensors
		config.Users = users
		config.Alerts = alerts
		config.Keys = keys
		return nil
	}
}

func WithPort(port string) ConfigOption {
	return func(config *ServerConfig) error {
		config.Port = port
		return nil
	}
}

func WithLimiter(limiter *ratelimit.Registry) ConfigOption {
	return func(config *ServerConfig) error {
		config.Limiter = limiter
		return nil
	}
}
