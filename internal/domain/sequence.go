package domain

import "context"

// Entity types with a pre-seeded counter document.
const (
	SeqAlert          = "alert"
	SeqSensor         = "sensor"
	SeqUser           = "user"
	SeqBill           = "bill"
	SeqCard           = "card"
	SeqAlarmRecipient = "alarm_recipient"
)

// SeqEntities lists every counter the bootstrap seeds.
var SeqEntities = []string{SeqAlert, SeqSensor, SeqUser, SeqBill, SeqCard, SeqAlarmRecipient}

// Sequencer issues monotonically increasing ids per entity type. Two calls
// never return the same value, even under concurrent invocation.
type Sequencer interface {
	Next(ctx context.Context, entity string) (int64, error)
}
