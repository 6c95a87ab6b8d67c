package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetData mirrors the /data query shape: a sensor name returns that
// sensor's document, otherwise longitude+latitude+distance run a radius
// query for every sensor within distance meters.
func (s *Server) handleGetData(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("sensor"); name != "" {
		sensor, err := s.config.Sensors.GetByName(ctx, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sensor)
		return
	}

	if c.Query("longitude") == "" && c.Query("latitude") == "" && c.Query("distance") == "" {
		badRequest(c, "supply sensor or longitude, latitude, and distance")
		return
	}

	longitude, ok := requireFloat(c, "longitude")
	if !ok {
		return
	}
	latitude, ok := requireFloat(c, "latitude")
	if !ok {
		return
	}
	distance, ok := requireInt(c, "distance")
	if !ok {
		return
	}

	sensors, err := s.config.Sensors.ByLocation(ctx, longitude, latitude, distance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sensors)
}

func (s *Server) handleGetSensor(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("sensor"); name != "" {
		sensor, err := s.config.Sensors.GetByName(ctx, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sensor)
		return
	}

	id, ok := requireInt(c, "id")
	if !ok {
		return
	}
	sensor, err := s.config.Sensors.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sensor)
}

func (s *Server) handleCreateSensor(c *gin.Context) {
	name, ok := requireString(c, "name")
	if !ok {
		return
	}
	longitude, ok := requireFloat(c, "longitude")
	if !ok {
		return
	}
	latitude, ok := requireFloat(c, "latitude")
	if !ok {
		return
	}

	id, err := s.config.Sensors.Create(c.Request.Context(), name, longitude, latitude)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sensor_id": id})
}

func (s *Server) handleDeleteSensor(c *gin.Context) {
	name, ok := requireString(c, "name")
	if !ok {
		return
	}
	if err := s.config.Sensors.DeleteByName(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sensor deleted"})
}

func (s *Server) handleAddReading(c *gin.Context) {
	name, ok := requireString(c, "sensor")
	if !ok {
		return
	}
	kind, ok := requireString(c, "type")
	if !ok {
		return
	}
	value, ok := requireFloat(c, "value")
	if !ok {
		return
	}

	if err := s.config.Sensors.AddReading(c.Request.Context(), name, kind, value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "reading added"})
}

func (s *Server) handleLastReading(c *gin.Context) {
	name, ok := requireString(c, "sensor")
	if !ok {
		return
	}
	kind, ok := requireString(c, "type")
	if !ok {
		return
	}

	reading, err := s.config.Sensors.LastReading(c.Request.Context(), name, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (s *Server) handleReadingsRange(c *gin.Context) {
	name, ok := requireString(c, "sensor")
	if !ok {
		return
	}
	kind, ok := requireString(c, "type")
	if !ok {
		return
	}
	from, ok := requireInt(c, "from")
	if !ok {
		return
	}
	to, ok := requireInt(c, "to")
	if !ok {
		return
	}

	readings, err := s.config.Sensors.ReadingsRange(c.Request.Context(), name, kind, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (s *Server) handleSensorStatus(c *gin.Context) {
	name, ok := requireString(c, "sensor")
	if !ok {
		return
	}
	status, err := s.config.Sensors.Status(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *Server) handleSetSensorStatus(c *gin.Context) {
	name, ok := requireString(c, "sensor")
	if !ok {
		return
	}
	status, ok := requireString(c, "status")
	if !ok {
		return
	}

	if err := s.config.Sensors.SetStatus(c.Request.Context(), name, status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
