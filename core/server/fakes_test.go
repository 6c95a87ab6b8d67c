package server

import (
	"context"
	"sync"
	"time"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

// In-memory store fakes mirroring the mongo stores' semantics closely
// enough for handler tests: same validation, same tagged errors.

type fakeSeq struct {
	mu   sync.Mutex
	last map[string]int64
}

func newFakeSeq() *fakeSeq {
	return &fakeSeq{last: make(map[string]int64)}
}

func (f *fakeSeq) Next(_ context.Context, entity string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[entity]++
	return f.last[entity], nil
}

type fakeSensorStore struct {
	mu      sync.Mutex
	seq     *fakeSeq
	sensors map[string]*domain.Sensor
}

func newFakeSensorStore(seq *fakeSeq) *fakeSensorStore {
	return &fakeSensorStore{seq: seq, sensors: make(map[string]*domain.Sensor)}
}

func (f *fakeSensorStore) Create(ctx context.Context, name string, longitude, latitude float64) (int64, error) {
	if !domain.ValidCoordinates(longitude, latitude) {
		return 0, domain.Invalid("coordinates out of bounds")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sensors[name]; ok {
		return 0, domain.Invalid("sensor already exists")
	}
	id, _ := f.seq.Next(ctx, domain.SeqSensor)
	f.sensors[name] = &domain.Sensor{
		ID:          id,
		Name:        name,
		Geolocation: domain.NewGeoPoint(longitude, latitude),
		Status:      domain.StatusOnline,
		LastUpdate:  time.Now().UnixMilli(),
	}
	return id, nil
}

func (f *fakeSensorStore) DeleteByName(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sensors[name]; !ok {
		return domain.ErrNotFound
	}
	delete(f.sensors, name)
	return nil
}

func (f *fakeSensorStore) GetByName(_ context.Context, name string) (*domain.Sensor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sensor, ok := f.sensors[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sensor, nil
}

func (f *fakeSensorStore) GetByID(_ context.Context, id int64) (*domain.Sensor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sensor := range f.sensors {
		if sensor.ID == id {
			return sensor, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSensorStore) AddReading(_ context.Context, name, kind string, value float64) error {
	if !domain.ValidReadingKind(kind) {
		return domain.Invalid("invalid reading type")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sensor, ok := f.sensors[name]
	if !ok {
		return domain.ErrNotFound
	}
	reading := domain.Reading{Time: time.Now().UnixMilli(), Value: value}
	switch kind {
	case domain.ReadingBattery:
		sensor.Battery = append(sensor.Battery, reading)
	case domain.ReadingTemperature:
		sensor.Temperature = append(sensor.Temperature, reading)
	case domain.ReadingHumidity:
		sensor.Humidity = append(sensor.Humidity, reading)
	case domain.ReadingCO2:
		sensor.CO2 = append(sensor.CO2, reading)
	case domain.ReadingPressure:
		sensor.Pressure = append(sensor.Pressure, reading)
	}
	sensor.LastUpdate = reading.Time
	return nil
}

func (f *fakeSensorStore) ByLocation(context.Context, float64, float64, int64) ([]domain.Sensor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sensors := []domain.Sensor{}
	for _, sensor := range f.sensors {
		sensors = append(sensors, *sensor)
	}
	return sensors, nil
}

func (f *fakeSensorStore) Status(_ context.Context, name string) (string, error) {
	sensor, err := f.GetByName(nil, name)
	if err != nil {
		return "", err
	}
	return sensor.Status, nil
}

func (f *fakeSensorStore) SetStatus(_ context.Context, name, status string) error {
	if !domain.ValidStatus(status) {
		return domain.Invalid("invalid status")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sensor, ok := f.sensors[name]
	if !ok {
		return domain.ErrNotFound
	}
	sensor.Status = status
	return nil
}

func (f *fakeSensorStore) LastReading(_ context.Context, name, kind string) (*domain.Reading, error) {
	if !domain.ValidReadingKind(kind) {
		return nil, domain.Invalid("invalid reading type")
	}
	sensor, err := f.GetByName(nil, name)
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

func (f *fakeSensorStore) ReadingsRange(_ context.Context, name, kind string, from, to int64) ([]domain.Reading, error) {
	if !domain.ValidReadingKind(kind) {
		return nil, domain.Invalid("invalid reading type")
	}
	sensor, err := f.GetByName(nil, name)
	if err != nil {
		return nil, err
	}
	readings := []domain.Reading{}
	for _, reading := range sensor.Series(kind) {
		if reading.Time >= from && reading.Time <= to {
			readings = append(readings, reading)
		}
	}
	return readings, nil
}

func (f *fakeSensorStore) CountByStatus(_ context.Context, ids []int64, status string) (int64, error) {
	if !domain.ValidStatus(status) {
		return 0, domain.Invalid("invalid status")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, sensor := range f.sensors {
		for _, id := range ids {
			if sensor.ID == id && sensor.Status == status {
				count++
			}
		}
	}
	return count, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	seq   *fakeSeq
	users map[int64]*domain.User
}

func newFakeUserStore(seq *fakeSeq) *fakeUserStore {
	return &fakeUserStore{seq: seq, users: make(map[int64]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, hashedPassword, phone, company, timezone string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Name == name {
			return 0, domain.Invalid("user name already exists")
		}
		if user.Email == email {
			return 0, domain.Invalid("user email already exists")
		}
	}
	id, _ := f.seq.Next(ctx, domain.SeqUser)
	f.users[id] = &domain.User{
		ID: id, Name: name, Email: email, Password: hashedPassword,
		PhoneNumber: phone, CompanyName: company, Timezone: timezone,
		ActiveCard: -1,
	}
	return id, nil
}

func (f *fakeUserStore) get(id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Update(_ context.Context, id int64, name, email, phone, company string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Name, user.Email, user.PhoneNumber, user.CompanyName = name, email, phone, company
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeUserStore) GetByName(_ context.Context, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) VerifyPassword(_ context.Context, id int64, hashedPassword string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return false, err
	}
	return user.Password == hashedPassword, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, oldHashed, newHashed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	if user.Password != oldHashed {
		return domain.Invalid("old password does not match")
	}
	user.Password = newHashed
	return nil
}

func (f *fakeUserStore) Timezone(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return "", err
	}
	return user.Timezone, nil
}

func (f *fakeUserStore) SetTimezone(_ context.Context, id int64, timezone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Timezone = timezone
	return nil
}

func (f *fakeUserStore) SensorIDs(_ context.Context, id int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return user.Sensors, nil
}

func addToSet(set []int64, value int64) []int64 {
	for _, existing := range set {
		if existing == value {
			return set
		}
	}
	return append(set, value)
}

func pull(set []int64, value int64) []int64 {
	out := set[:0]
	for _, existing := range set {
		if existing != value {
			out = append(out, existing)
		}
	}
	return out
}

func (f *fakeUserStore) AddSensor(_ context.Context, id, sensorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Sensors = addToSet(user.Sensors, sensorID)
	return nil
}

func (f *fakeUserStore) RemoveSensor(_ context.Context, id, sensorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Sensors = pull(user.Sensors, sensorID)
	return nil
}

func (f *fakeUserStore) AlertIDs(_ context.Context, id int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return user.Alerts, nil
}

func (f *fakeUserStore) AddAlert(_ context.Context, id, alertID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Alerts = addToSet(user.Alerts, alertID)
	return nil
}

func (f *fakeUserStore) RemoveAlert(_ context.Context, id, alertID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	user.Alerts = pull(user.Alerts, alertID)
	return nil
}

func (f *fakeUserStore) RemoveAlertByEmail(_ context.Context, email string, alertID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			user.Alerts = pull(user.Alerts, alertID)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) Cards(_ context.Context, id int64) ([]domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return user.Cards, nil
}

func (f *fakeUserStore) AddCard(ctx context.Context, id int64, card domain.Card) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return 0, err
	}
	cardID, _ := f.seq.Next(ctx, domain.SeqCard)
	card.ID = cardID
	user.Cards = append(user.Cards, card)
	user.ActiveCard = cardID
	return cardID, nil
}

func (f *fakeUserStore) UpdateCard(_ context.Context, id int64, card domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.Cards {
		if user.Cards[i].ID == card.ID {
			user.Cards[i] = card
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) DeleteCard(_ context.Context, id, cardID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.Cards {
		if user.Cards[i].ID == cardID {
			user.Cards = append(user.Cards[:i], user.Cards[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) ActiveCard(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
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

func (f *fakeUserStore) SetActiveCard(_ context.Context, id, cardID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for _, card := range user.Cards {
		if card.ID == cardID {
			user.ActiveCard = cardID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) Bills(_ context.Context, id int64) ([]domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return user.Bills, nil
}

func (f *fakeUserStore) AddBill(ctx context.Context, id, billingDate int64, amount float64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return 0, err
	}
	billID, _ := f.seq.Next(ctx, domain.SeqBill)
	user.Bills = append(user.Bills, domain.Bill{
		ID: billID, BillingDate: billingDate, Amount: amount, Status: domain.BillUnpaid,
	})
	return billID, nil
}

func (f *fakeUserStore) UpdateBill(_ context.Context, id, billID int64, status string) error {
	if !domain.ValidBillStatus(status) {
		return domain.Invalid("invalid bill status")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.Bills {
		if user.Bills[i].ID == billID {
			user.Bills[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) DeleteBill(_ context.Context, id, billID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.Bills {
		if user.Bills[i].ID == billID {
			user.Bills = append(user.Bills[:i], user.Bills[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) AlarmRecipients(_ context.Context, id int64) ([]domain.AlarmRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return user.AlarmRecipients, nil
}

func (f *fakeUserStore) AddAlarmRecipient(ctx context.Context, id int64, name, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return 0, err
	}
	recipientID, _ := f.seq.Next(ctx, domain.SeqAlarmRecipient)
	user.AlarmRecipients = append(user.AlarmRecipients, domain.AlarmRecipient{
		ID: recipientID, Name: name, Email: email, Enabled: true,
	})
	return recipientID, nil
}

func (f *fakeUserStore) DeleteAlarmRecipient(_ context.Context, id, recipientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.AlarmRecipients {
		if user.AlarmRecipients[i].ID == recipientID {
			user.AlarmRecipients = append(user.AlarmRecipients[:i], user.AlarmRecipients[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) AlarmRecipientStatus(_ context.Context, id, recipientID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
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

func (f *fakeUserStore) SetAlarmRecipientStatus(_ context.Context, id, recipientID int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range user.AlarmRecipients {
		if user.AlarmRecipients[i].ID == recipientID {
			user.AlarmRecipients[i].Enabled = enabled
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeAlertStore struct {
	mu     sync.Mutex
	seq    *fakeSeq
	alerts []domain.Alert
}

func newFakeAlertStore(seq *fakeSeq) *fakeAlertStore {
	return &fakeAlertStore{seq: seq}
}

func (f *fakeAlertStore) Create(ctx context.Context, title, body string, sensorID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := f.seq.Next(ctx, domain.SeqAlert)
	f.alerts = append(f.alerts, domain.Alert{
		ID: id, Title: title, Alert: body, Time: time.Now().UnixMilli(), SensorID: sensorID,
	})
	return id, nil
}

// seed inserts an alert with an explicit timestamp, bypassing Create.
func (f *fakeAlertStore) seed(alert domain.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
}

func (f *fakeAlertStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAlertStore) Get(_ context.Context, id int64) (*domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			return &f.alerts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlertStore) SensorID(ctx context.Context, id int64) (int64, error) {
	alert, err := f.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return alert.SensorID, nil
}

func (f *fakeAlertStore) List(_ context.Context, from, to, amount int64) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []domain.Alert{}
	for _, alert := range f.alerts {
		if alert.Time >= from && alert.Time <= to {
			matched = append(matched, alert)
		}
	}
	// newest first
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].Time > matched[i].Time {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	if amount > 0 && int64(len(matched)) > amount {
		matched = matched[:amount]
	}
	return matched, nil
}

type fakeKeyStore struct {
	mu   sync.Mutex
	keys map[string]int
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{keys: make(map[string]int)}
}

func (f *fakeKeyStore) Add(_ context.Context, key string, level int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == "" {
		key = "generated-key"
	}
	if _, ok := f.keys[key]; ok {
		return "", domain.Invalid("key already exists")
	}
	f.keys[key] = level
	return key, nil
}

func (f *fakeKeyStore) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok, nil
}

func (f *fakeKeyStore) Level(_ context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	level, ok := f.keys[key]
	if !ok {
		return domain.LevelInvalid, nil
	}
	return level, nil
}

func (f *fakeKeyStore) SetLevel(_ context.Context, key string, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; !ok {
		return domain.ErrNotFound
	}
	f.keys[key] = level
	return nil
}

func (f *fakeKeyStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.keys, key)
	return nil
}
