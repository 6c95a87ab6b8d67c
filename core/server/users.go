package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

func (s *Server) handleGetUser(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("name"); name != "" {
		user, err := s.config.Users.GetByName(ctx, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	if email := c.Query("email"); email != "" {
		user, err := s.config.Users.GetByEmail(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	if c.Query("id") == "" {
		badRequest(c, "supply id, name, or email")
		return
	}
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	user, err := s.config.Users.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleCreateUser(c *gin.Context) {
	name, ok := requireString(c, "name")
	if !ok {
		return
	}
	email, ok := requireString(c, "email")
	if !ok {
		return
	}
	hashed, ok := requireString(c, "hashed_password")
	if !ok {
		return
	}

	id, err := s.config.Users.Create(c.Request.Context(), name, email, hashed,
		c.Query("phone_number"), c.Query("company_name"), c.Query("timezone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": id})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	name, ok := requireString(c, "name")
	if !ok {
		return
	}
	email, ok := requireString(c, "email")
	if !ok {
		return
	}

	err := s.config.Users.Update(c.Request.Context(), id, name, email,
		c.Query("phone_number"), c.Query("company_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	if err := s.config.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (s *Server) handleVerifyPassword(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	hashed, ok := requireString(c, "hashed_password")
	if !ok {
		return
	}

	valid, err := s.config.Users.VerifyPassword(c.Request.Context(), id, hashed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (s *Server) handleUpdatePassword(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	oldHashed, ok := requireString(c, "old_password")
	if !ok {
		return
	}
	newHashed, ok := requireString(c, "new_password")
	if !ok {
		return
	}

	if err := s.config.Users.UpdatePassword(c.Request.Context(), id, oldHashed, newHashed); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (s *Server) handleGetTimezone(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	timezone, err := s.config.Users.Timezone(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timezone": timezone})
}

func (s *Server) handleSetTimezone(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	timezone, ok := requireString(c, "timezone")
	if !ok {
		return
	}

	if err := s.config.Users.SetTimezone(c.Request.Context(), id, timezone); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "timezone updated"})
}

func (s *Server) handleUserSensors(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	sensors, err := s.config.Users.SensorIDs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sensors": sensors})
}

func (s *Server) handleAddUserSensor(c *gin.Context) {
	s.userAssociation(c, s.config.Users.AddSensor, "sensor_id", "sensor added")
}

func (s *Server) handleRemoveUserSensor(c *gin.Context) {
	s.userAssociation(c, s.config.Users.RemoveSensor, "sensor_id", "sensor removed")
}

func (s *Server) handleUserAlerts(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	alerts, err := s.config.Users.AlertIDs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (s *Server) handleAddUserAlert(c *gin.Context) {
	s.userAssociation(c, s.config.Users.AddAlert, "alert_id", "alert added")
}

func (s *Server) handleRemoveUserAlert(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		alertID, ok := requireInt(c, "alert_id")
		if !ok {
			return
		}
		if err := s.config.Users.RemoveAlertByEmail(c.Request.Context(), email, alertID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "alert removed"})
		return
	}
	s.userAssociation(c, s.config.Users.RemoveAlert, "alert_id", "alert removed")
}

// userAssociation factors the add/remove shape shared by the sensor and
// alert set operations.
func (s *Server) userAssociation(c *gin.Context, op func(ctx context.Context, id, target int64) error, param, message string) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	target, ok := requireInt(c, param)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), id, target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (s *Server) handleUserSensorCount(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	status, ok := requireString(c, "status")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sensorIDs, err := s.config.Users.SensorIDs(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := s.config.Sensors.CountByStatus(ctx, sensorIDs, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (s *Server) handleGetCards(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	cards, err := s.config.Users.Cards(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func cardFromQuery(c *gin.Context) domain.Card {
	return domain.Card{
		CardNumber:     c.Query("card_number"),
		NameOnCard:     c.Query("name_on_card"),
		CardExpiration: c.Query("card_expiration"),
		CVC:            c.Query("cvc"),
		Address1:       c.Query("address1"),
		Address2:       c.Query("address2"),
		City:           c.Query("city"),
		State:          c.Query("state"),
		Country:        c.Query("country"),
		Zip:            c.Query("zip"),
	}
}

func (s *Server) handleAddCard(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	if _, ok := requireString(c, "card_number"); !ok {
		return
	}

	cardID, err := s.config.Users.AddCard(c.Request.Context(), id, cardFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card_id": cardID})
}

func (s *Server) handleUpdateCard(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	cardID, ok := requireInt(c, "card_id")
	if !ok {
		return
	}

	card := cardFromQuery(c)
	card.ID = cardID
	if err := s.config.Users.UpdateCard(c.Request.Context(), id, card); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card updated"})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	cardID, ok := requireInt(c, "card_id")
	if !ok {
		return
	}

	if err := s.config.Users.DeleteCard(c.Request.Context(), id, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}

func (s *Server) handleGetActiveCard(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	cardID, err := s.config.Users.ActiveCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card_id": cardID})
}

func (s *Server) handleSetActiveCard(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	cardID, ok := requireInt(c, "card_id")
	if !ok {
		return
	}

	if err := s.config.Users.SetActiveCard(c.Request.Context(), id, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "active card updated"})
}

func (s *Server) handleGetBills(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	bills, err := s.config.Users.Bills(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (s *Server) handleAddBill(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	billingDate, ok := requireInt(c, "billing_date")
	if !ok {
		return
	}
	amount, ok := requireFloat(c, "amount")
	if !ok {
		return
	}

	billID, err := s.config.Users.AddBill(c.Request.Context(), id, billingDate, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bill_id": billID})
}

func (s *Server) handleUpdateBill(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	billID, ok := requireInt(c, "bill_id")
	if !ok {
		return
	}
	status, ok := requireString(c, "status")
	if !ok {
		return
	}

	if err := s.config.Users.UpdateBill(c.Request.Context(), id, billID, status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bill updated"})
}

func (s *Server) handleDeleteBill(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	billID, ok := requireInt(c, "bill_id")
	if !ok {
		return
	}

	if err := s.config.Users.DeleteBill(c.Request.Context(), id, billID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bill deleted"})
}

func (s *Server) handleGetAlarmRecipients(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	recipients, err := s.config.Users.AlarmRecipients(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarm_recipients": recipients})
}

func (s *Server) handleAddAlarmRecipient(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	name, ok := requireString(c, "name")
	if !ok {
		return
	}
	email, ok := requireString(c, "email")
	if !ok {
		return
	}

	recipientID, err := s.config.Users.AddAlarmRecipient(c.Request.Context(), id, name, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alarm_recipient_id": recipientID})
}

func (s *Server) handleDeleteAlarmRecipient(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	recipientID, ok := requireInt(c, "alarm_recipient_id")
	if !ok {
		return
	}

	if err := s.config.Users.DeleteAlarmRecipient(c.Request.Context(), id, recipientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alarm recipient deleted"})
}

func (s *Server) handleGetAlarmRecipientStatus(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	recipientID, ok := requireInt(c, "alarm_recipient_id")
	if !ok {
		return
	}

	enabled, err := s.config.Users.AlarmRecipientStatus(c.Request.Context(), id, recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (s *Server) handleSetAlarmRecipientStatus(c *gin.Context) {
	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	recipientID, ok := requireInt(c, "alarm_recipient_id")
	if !ok {
		return
	}
	raw, ok := requireString(c, "enabled")
	if !ok {
		return
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "invalid enabled")
		return
	}

	if err := s.config.Users.SetAlarmRecipientStatus(c.Request.Context(), id, recipientID, enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alarm recipient updated"})
}
