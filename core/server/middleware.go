package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hopeland_api_requests_total",
		Help: "Handled HTTP requests by route and status code.",
	},
	[]string{"method", "path", "status"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// requireKey rejects requests without a valid ?key= parameter.
func (s *Server) requireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Request an API key"})
			return
		}

		exists, err := s.config.Keys.Exists(c.Request.Context(), key)
		if err != nil {
			log.Printf("key lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// rateLimit enforces the tier quota for the resolved key. Runs after
// requireKey, so the key is known to exist.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")

		level, err := s.config.Keys.Level(c.Request.Context(), key)
		if err != nil {
			log.Printf("key level lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if !s.config.Limiter.Allow(key, level) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// requireAdmin restricts a route to level-0 keys.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")

		level, err := s.config.Keys.Level(c.Request.Context(), key)
		if err != nil {
			log.Printf("key level lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if level != domain.LevelUnlimited {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin key required"})
			return
		}

		c.Next()
	}
}
