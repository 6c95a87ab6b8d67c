package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Key administration lives behind requireAdmin: only level-0 keys may
// inspect, mint, or change keys. The managed key travels as api_key so it
// never collides with the caller's own ?key=.

func (s *Server) handleGetKeyLevel(c *gin.Context) {
	key, ok := requireString(c, "api_key")
	if !ok {
		return
	}
	level, err := s.config.Keys.Level(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level})
}

func (s *Server) handleAddKey(c *gin.Context) {
	level := int64(1)
	if value, present, ok := optionalInt(c, "level"); !ok {
		return
	} else if present {
		level = value
	}

	key, err := s.config.Keys.Add(c.Request.Context(), c.Query("api_key"), int(level))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "level": level})
}

func (s *Server) handleSetKeyLevel(c *gin.Context) {
	key, ok := requireString(c, "api_key")
	if !ok {
		return
	}
	level, ok := requireInt(c, "level")
	if !ok {
		return
	}

	if err := s.config.Keys.SetLevel(c.Request.Context(), key, int(level)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "level updated"})
}

func (s *Server) handleDeleteKey(c *gin.Context) {
	key, ok := requireString(c, "api_key")
	if !ok {
		return
	}
	if err := s.config.Keys.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "key deleted"})
}
