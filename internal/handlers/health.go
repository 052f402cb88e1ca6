package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/response"
)

// Pinger checks one dependency for the healthcheck.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthcheck reports each dependency; any failing check turns the response
// into a 503.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	message := "Backend working fine"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = "down"
			status = http.StatusServiceUnavailable
			message = "Backend degraded"
			continue
		}
		results[name] = "up"
	}

	c.JSON(status, response.Envelope{
		StatusCode: status,
		Data:       gin.H{"dependencies": results},
		Message:    message,
		Success:    status == http.StatusOK,
	})
}
