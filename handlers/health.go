package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
)

const readinessTimeout = 3 * time.Second

// Health is the liveness probe; it never touches the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, models.HealthResponse{
		Success:     true,
		Message:     "SecondLife API is running!",
		Timestamp:   h.Now().UTC(),
		Environment: h.Environment,
		Store:       h.Store.Name(),
		Media:       h.Media.Name(),
	})
}

// Ready reports whether the item store answers a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, err, "Store is not reachable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.Response{Success: true, Message: "ready"})
}
