// Health and root handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthPingTimeout bounds the database check so /health stays fast when
// the database hangs.
const healthPingTimeout = 2 * time.Second

// HealthResponse reports liveness plus dependency status.
type HealthResponse struct {
	Status           string `json:"status" example:"healthy"`
	OpenAIConfigured bool   `json:"openai_configured" example:"true"`
	DatabaseStatus   string `json:"database_status" example:"connected"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message" example:"Survey Generator API is running"`
}

// Root godoc
// @ID          root
// @Summary     API banner
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.RootResponse
// @Router      / [get]
func (h *Handlers) Root(c *gin.Context) {
	ok(c, http.StatusOK, RootResponse{Message: "Survey Generator API is running"})
}

// Health godoc
// @ID          health
// @Summary     Health check
// @Description Always 200 while the process serves requests; dependency problems are reported in the body.
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:           "healthy",
		OpenAIConfigured: h.svc != nil && h.svc.BackendAvailable(),
		DatabaseStatus:   "unknown",
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.DatabaseStatus = "disconnected"
		} else {
			resp.DatabaseStatus = "connected"
		}
	}
	ok(c, http.StatusOK, resp)
}
