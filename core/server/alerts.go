package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

// handleListAlerts filters by time window. from+to beats from-only, then
// to-only, then days; with no window parameters everything up to now
// matches. amount caps the newest-first result.
func (s *Server) handleListAlerts(c *gin.Context) {
	if id, present, ok := optionalInt(c, "alert_id"); !ok {
		return
	} else if present {
		alert, err := s.config.Alerts.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, alert)
		return
	}

	var window domain.AlertWindow

	if value, present, ok := optionalInt(c, "from"); !ok {
		return
	} else if present {
		window.From = &value
	}
	if value, present, ok := optionalInt(c, "to"); !ok {
		return
	} else if present {
		window.To = &value
	}
	if value, present, ok := optionalInt(c, "days"); !ok {
		return
	} else if present {
		window.Days = &value
	}
	amount, _, ok := optionalInt(c, "amount")
	if !ok {
		return
	}

	from, to := window.Resolve(time.Now().UnixMilli())
	alerts, err := s.config.Alerts.List(c.Request.Context(), from, to, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (s *Server) handleCreateAlert(c *gin.Context) {
	title, ok := requireString(c, "title")
	if !ok {
		return
	}
	body, ok := requireString(c, "alert")
	if !ok {
		return
	}
	sensorID, _, ok := optionalInt(c, "sensor_id")
	if !ok {
		return
	}

	id, err := s.config.Alerts.Create(c.Request.Context(), title, body, sensorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alert_id": id})
}

// handleAlertSensor returns the sensor id tied to an alert, 0 when the
// alert is not associated with one.
func (s *Server) handleAlertSensor(c *gin.Context) {
	id, ok := requireInt(c, "alert_id")
	if !ok {
		return
	}
	sensorID, err := s.config.Alerts.SensorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sensor_id": sensorID})
}

func (s *Server) handleDeleteAlert(c *gin.Context) {
	id, ok := requireInt(c, "alert_id")
	if !ok {
		return
	}
	if err := s.config.Alerts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert deleted"})
}
