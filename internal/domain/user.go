package domain

import "context"

const (
	BillUnpaid = "Unpaid"
	BillPaid   = "Paid"
)

func ValidBillStatus(status string) bool {
	return status == BillUnpaid || status == BillPaid
}

type Card struct {
	ID             int64  `json:"card_id" bson:"card_id"`
	CardNumber     string `json:"card_number" bson:"card_number"`
	NameOnCard     string `json:"name_on_card" bson:"name_on_card"`
	CardExpiration string `json:"card_expiration" bson:"card_expiration"`
	CVC            string `json:"cvc" bson:"cvc"`
	Address1       string `json:"address1" bson:"address1"`
	Address2       string `json:"address2" bson:"address2"`
	City           string `json:"city" bson:"city"`
	State          string `json:"state" bson:"state"`
	Country        string `json:"country" bson:"country"`
	Zip            string `json:"zip" bson:"zip"`
}

// Bill dates are epoch milliseconds, status is Unpaid or Paid.
type Bill struct {
	ID          int64   `json:"bill_id" bson:"bill_id"`
	BillingDate int64   `json:"billing_date" bson:"billing_date"`
	Amount      float64 `json:"amount" bson:"amount"`
	Status      string  `json:"status" bson:"status"`
}

type AlarmRecipient struct {
	ID      int64  `json:"alarm_recipient_id" bson:"alarm_recipient_id"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Enabled bool   `json:"enabled" bson:"enabled"`
}

// User owns cards, bills, alarm recipients, and sets of associated sensor
// and alert ids. ActiveCard is -1 until a card is added. The password field
// holds a hash supplied by callers; the store never hashes.
type User struct {
	ID              int64            `json:"user_id" bson:"user_id"`
	Name            string           `json:"name" bson:"name"`
	Email           string           `json:"email" bson:"email"`
	Password        string           `json:"-" bson:"password"`
	PhoneNumber     string           `json:"phone_number" bson:"phone_number"`
	CompanyName     string           `json:"company_name" bson:"company_name"`
	Timezone        string           `json:"timezone" bson:"timezone"`
	Cards           []Card           `json:"cards" bson:"cards"`
	ActiveCard      int64            `json:"active_card" bson:"active_card"`
	Bills           []Bill           `json:"bills" bson:"bills"`
	AlarmRecipients []AlarmRecipient `json:"alarm_recipients" bson:"alarm_recipients"`
	Sensors         []int64          `json:"sensors" bson:"sensors"`
	Alerts          []int64          `json:"alerts" bson:"alerts"`
}

type UserStore interface {
	Create(ctx context.Context, name, email, hashedPassword, phone, company, timezone string) (int64, error)
	Update(ctx context.Context, id int64, name, email, phone, company string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	VerifyPassword(ctx context.Context, id int64, hashedPassword string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, oldHashed, newHashed string) error
	Timezone(ctx context.Context, id int64) (string, error)
	SetTimezone(ctx context.Context, id int64, timezone string) error

	SensorIDs(ctx context.Context, id int64) ([]int64, error)
	AddSensor(ctx context.Context, id, sensorID int64) error
	RemoveSensor(ctx context.Context, id, sensorID int64) error
	AlertIDs(ctx context.Context, id int64) ([]int64, error)
	AddAlert(ctx context.Context, id, alertID int64) error
	RemoveAlert(ctx context.Context, id, alertID int64) error
	RemoveAlertByEmail(ctx context.Context, email string, alertID int64) error

	Cards(ctx context.Context, id int64) ([]Card, error)
	AddCard(ctx context.Context, id int64, card Card) (int64, error)
	UpdateCard(ctx context.Context, id int64, card Card) error
	DeleteCard(ctx context.Context, id, cardID int64) error
	ActiveCard(ctx context.Context, id int64) (int64, error)
	SetActiveCard(ctx context.Context, id, cardID int64) error

	Bills(ctx context.Context, id int64) ([]Bill, error)
	AddBill(ctx context.Context, id, billingDate int64, amount float64) (int64, error)
	UpdateBill(ctx context.Context, id, billID int64, status string) error
	DeleteBill(ctx context.Context, id, billID int64) error

	AlarmRecipients(ctx context.Context, id int64) ([]AlarmRecipient, error)
	AddAlarmRecipient(ctx context.Context, id int64, name, email string) (int64, error)
	DeleteAlarmRecipient(ctx context.Context, id, recipientID int64) error
	AlarmRecipientStatus(ctx context.Context, id, recipientID int64) (bool, error)
	SetAlarmRecipientStatus(ctx context.Context, id, recipientID int64, enabled bool) error
}
