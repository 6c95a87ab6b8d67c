package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

type UserStore struct {
	col *mongo.Collection
	seq domain.Sequencer
}

func NewUserStore(db *mongo.Database, seq domain.Sequencer) *UserStore {
	return &UserStore{col: db.Collection(colUsers), seq: seq}
}

func (u *UserStore) Create(ctx context.Context, name, email, hashedPassword, phone, company, timezone string) (int64, error) {
	count, err := u.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return 0, fmt.Errorf("check user name: %w", err)
	}
	if count > 0 {
		return 0, domain.Invalid("user with name %q already exists", name)
	}

	count, err = u.col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("check user email: %w", err)
	}
	if count > 0 {
		return 0, domain.Invalid("user with email %q already exists", email)
	}

	id, err := u.seq.Next(ctx, domain.SeqUser)
	if err != nil {
		return 0, err
	}

	user := domain.User{
		ID:              id,
		Name:            name,
		Email:           email,
		Password:        hashedPassword,
		PhoneNumber:     phone,
		CompanyName:     company,
		Timezone:        timezone,
		Cards:           []domain.Card{},
		ActiveCard:      -1,
		Bills:           []domain.Bill{},
		AlarmRecipients: []domain.AlarmRecipient{},
		Sensors:         []int64{},
		Alerts:          []int64{},
	}
	if _, err := u.col.InsertOne(ctx, user); err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	log.Printf("Created user %s (id %d)", name, id)
	return id, nil
}

func (u *UserStore) Update(ctx context.Context, id int64, name, email, phone, company string) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$set": bson.M{
		"name":         name,
		"email":        email,
		"phone_number": phone,
		"company_name": company,
	}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) Delete(ctx context.Context, id int64) error {
	result, err := u.col.DeleteOne(ctx, bson.M{"user_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Deleted user %d", id)
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.findOne(ctx, bson.M{"user_id": id})
}

func (u *UserStore) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return u.findOne(ctx, bson.M{"name": name})
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

func (u *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := u.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// VerifyPassword compares an already-hashed credential against the stored
// hash. Hashing is the caller's responsibility.
func (u *UserStore) VerifyPassword(ctx context.Context, id int64, hashedPassword string) (bool, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Password == hashedPassword, nil
}

func (u *UserStore) UpdatePassword(ctx context.Context, id int64, oldHashed, newHashed string) error {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Password != oldHashed {
		return domain.Invalid("old password does not match")
	}
	_, err = u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$set": bson.M{"password": newHashed}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (u *UserStore) Timezone(ctx context.Context, id int64) (string, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Timezone, nil
}

func (u *UserStore) SetTimezone(ctx context.Context, id int64, timezone string) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$set": bson.M{"timezone": timezone}})
	if err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) SensorIDs(ctx context.Context, id int64) ([]int64, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sensors, nil
}

// AddSensor is idempotent: $addToSet leaves the set unchanged when the
// sensor id is already present.
func (u *UserStore) AddSensor(ctx context.Context, id, sensorID int64) error {
	return u.setOp(ctx, id, bson.M{"$addToSet": bson.M{"sensors": sensorID}})
}

// RemoveSensor is a no-op when the sensor id is absent.
func (u *UserStore) RemoveSensor(ctx context.Context, id, sensorID int64) error {
	return u.setOp(ctx, id, bson.M{"$pull": bson.M{"sensors": sensorID}})
}

func (u *UserStore) AlertIDs(ctx context.Context, id int64) ([]int64, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Alerts, nil
}

func (u *UserStore) AddAlert(ctx context.Context, id, alertID int64) error {
	return u.setOp(ctx, id, bson.M{"$addToSet": bson.M{"alerts": alertID}})
}

func (u *UserStore) RemoveAlert(ctx context.Context, id, alertID int64) error {
	return u.setOp(ctx, id, bson.M{"$pull": bson.M{"alerts": alertID}})
}

func (u *UserStore) RemoveAlertByEmail(ctx context.Context, email string, alertID int64) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$pull": bson.M{"alerts": alertID}})
	if err != nil {
		return fmt.Errorf("remove alert by email: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) setOp(ctx context.Context, id int64, update bson.M) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) Cards(ctx context.Context, id int64) ([]domain.Card, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Cards, nil
}

// AddCard allocates the card id from the shared sequence and makes the new
// card the active one.
func (u *UserStore) AddCard(ctx context.Context, id int64, card domain.Card) (int64, error) {
	if _, err := u.GetByID(ctx, id); err != nil {
		return 0, err
	}

	cardID, err := u.seq.Next(ctx, domain.SeqCard)
	if err != nil {
		return 0, err
	}
	card.ID = cardID

	_, err = u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{
		"$push": bson.M{"cards": card},
		"$set":  bson.M{"active_card": cardID},
	})
	if err != nil {
		return 0, fmt.Errorf("add card: %w", err)
	}

	log.Printf("Added card %d to user %d", cardID, id)
	return cardID, nil
}

func (u *UserStore) UpdateCard(ctx context.Context, id int64, card domain.Card) error {
	result, err := u.col.UpdateOne(ctx,
		bson.M{"user_id": id, "cards.card_id": card.ID},
		bson.M{"$set": bson.M{"cards.$": card}},
	)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) DeleteCard(ctx context.Context, id, cardID int64) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{
		"$pull": bson.M{"cards": bson.M{"card_id": cardID}},
	})
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if result.MatchedCount == 0 || result.ModifiedCount == 0 {
		return domain.ErrNotFound
	}
	log.Printf("Deleted card %d from user %d", cardID, id)
	return nil
}

func (u *UserStore) ActiveCard(ctx context.Context, id int64) (int64, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	for _, card := range user.Cards {
		if card.ID == user.ActiveCard {
			return user.ActiveCard, nil
		}
	}
	return 0, domain.ErrNotFound
}

// SetActiveCard requires the card to exist on the same user.
func (u *UserStore) SetActiveCard(ctx context.Context, id, cardID int64) error {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}

	found := false
	for _, card := range user.Cards {
		if card.ID == cardID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotFound
	}

	_, err = u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$set": bson.M{"active_card": cardID}})
	if err != nil {
		return fmt.Errorf("set active card: %w", err)
	}
	return nil
}

func (u *UserStore) Bills(ctx context.Context, id int64) ([]domain.Bill, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Bills, nil
}

func (u *UserStore) AddBill(ctx context.Context, id, billingDate int64, amount float64) (int64, error) {
	if _, err := u.GetByID(ctx, id); err != nil {
		return 0, err
	}

	billID, err := u.seq.Next(ctx, domain.SeqBill)
	if err != nil {
		return 0, err
	}

	bill := domain.Bill{
		ID:          billID,
		BillingDate: billingDate,
		Amount:      amount,
		Status:      domain.BillUnpaid,
	}
	_, err = u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$push": bson.M{"bills": bill}})
	if err != nil {
		return 0, fmt.Errorf("add bill: %w", err)
	}

	log.Printf("Created bill %d for user %d", billID, id)
	return billID, nil
}

func (u *UserStore) UpdateBill(ctx context.Context, id, billID int64, status string) error {
	if !domain.ValidBillStatus(status) {
		return domain.Invalid("invalid bill status %q", status)
	}
	result, err := u.col.UpdateOne(ctx,
		bson.M{"user_id": id, "bills.bill_id": billID},
		bson.M{"$set": bson.M{"bills.$.status": status}},
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) DeleteBill(ctx context.Context, id, billID int64) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{
		"$pull": bson.M{"bills": bson.M{"bill_id": billID}},
	})
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if result.MatchedCount == 0 || result.ModifiedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) AlarmRecipients(ctx context.Context, id int64) ([]domain.AlarmRecipient, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.AlarmRecipients, nil
}

func (u *UserStore) AddAlarmRecipient(ctx context.Context, id int64, name, email string) (int64, error) {
	if _, err := u.GetByID(ctx, id); err != nil {
		return 0, err
	}

	recipientID, err := u.seq.Next(ctx, domain.SeqAlarmRecipient)
	if err != nil {
		return 0, err
	}

	recipient := domain.AlarmRecipient{
		ID:      recipientID,
		Name:    name,
		Email:   email,
		Enabled: true,
	}
	_, err = u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{
		"$push": bson.M{"alarm_recipients": recipient},
	})
	if err != nil {
		return 0, fmt.Errorf("add alarm recipient: %w", err)
	}

	log.Printf("Added alarm recipient %d to user %d", recipientID, id)
	return recipientID, nil
}

func (u *UserStore) DeleteAlarmRecipient(ctx context.Context, id, recipientID int64) error {
	result, err := u.col.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{
		"$pull": bson.M{"alarm_recipients": bson.M{"alarm_recipient_id": recipientID}},
	})
	if err != nil {
		return fmt.Errorf("delete alarm recipient: %w", err)
	}
	if result.MatchedCount == 0 || result.ModifiedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) AlarmRecipientStatus(ctx context.Context, id, recipientID int64) (bool, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	for _, recipient := range user.AlarmRecipients {
		if recipient.ID == recipientID {
			return recipient.Enabled, nil
		}
	}
	return false, domain.ErrNotFound
}

func (u *UserStore) SetAlarmRecipientStatus(ctx context.Context, id, recipientID int64, enabled bool) error {
	result, err := u.col.UpdateOne(ctx,
		bson.M{"user_id": id, "alarm_recipients.alarm_recipient_id": recipientID},
		bson.M{"$set": bson.M{"alarm_recipients.$.enabled": enabled}},
	)
	if err != nil {
		return fmt.Errorf("set alarm recipient status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
