package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

// respondError maps store errors onto HTTP statuses: validation failures to
// 400, missing records to 404, everything else to 500.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": reason})
}

// requireInt parses a mandatory integer query parameter, writing a 400 and
// returning false when it is missing or malformed.
func requireInt(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		badRequest(c, "missing "+name)
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}

// optionalInt parses an integer query parameter that may be absent.
// present is false when the parameter was not supplied.
func optionalInt(c *gin.Context, name string) (value int64, present, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, true
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false, false
	}
	return parsed, true, true
}

func requireFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		badRequest(c, "missing "+name)
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}

func requireString(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		badRequest(c, "missing "+name)
		return "", false
	}
	return value, true
}
