package domain

import "context"

const millisPerDay = 24 * 60 * 60 * 1000

// Alert times are epoch milliseconds. SensorID is 0 when the alert is not
// tied to a sensor.
type Alert struct {
	ID       int64  `json:"alert_id" bson:"alert_id"`
	Title    string `json:"title" bson:"title"`
	Alert    string `json:"alert" bson:"alert"`
	Time     int64  `json:"time" bson:"time"`
	SensorID int64  `json:"sensor_id,omitempty" bson:"sensor_id,omitempty"`
}

// AlertWindow carries the raw filter parameters of a listing request.
// Fields are nil when the parameter was absent.
type AlertWindow struct {
	From *int64
	To   *int64
	Days *int64
}

// Resolve turns the window into inclusive epoch-millisecond bounds.
// Precedence: from+to, from-only, to-only, days, else everything up to now.
func (w AlertWindow) Resolve(now int64) (from, to int64) {
	switch {
	case w.From != nil && w.To != nil:
		return *w.From, *w.To
	case w.From != nil:
		return *w.From, now
	case w.To != nil:
		return 0, *w.To
	case w.Days != nil:
		return now - *w.Days*millisPerDay, now
	default:
		return 0, now
	}
}

type AlertStore interface {
	Create(ctx context.Context, title, body string, sensorID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Alert, error)
	SensorID(ctx context.Context, id int64) (int64, error)
	// List returns alerts with from <= time <= to, newest first,
	// capped at amount when amount > 0.
	List(ctx context.Context, from, to, amount int64) ([]Alert, error)
}
