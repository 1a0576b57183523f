package handlers

import (
	"net/http"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
)

// GetFilterOptions returns the filter values found in the catalog, falling back to defaults.
func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Store.FilterOptions(r.Context())
	if err != nil {
		respondFailure(w, err, "Failed to fetch filter options")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.DataResponse{Success: true, Data: options.WithDefaults()})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		respondFailure(w, err, "Failed to fetch statistics")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.DataResponse{Success: true, Data: stats.Rounded()})
}
