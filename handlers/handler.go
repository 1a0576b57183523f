package handlers

import (
	"net/http"
	"time"

	"github.com/RemoteState/secondlife-server/dbHelpers"
	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
	"github.com/pkg/errors"
)

// Handler serves the catalog endpoints on top of an item store and a media storage.
type Handler struct {
	Store       dbHelpers.ItemStore
	Media       media.Storage
	Environment string

	// Now is overridable in tests
	Now func() time.Time
}

func New(store dbHelpers.ItemStore, storage media.Storage, environment string) *Handler {
	return &Handler{
		Store:       store,
		Media:       storage,
		Environment: environment,
		Now:         time.Now,
	}
}

// respondFailure maps a store, media or validation error onto the error envelope.
func respondFailure(w http.ResponseWriter, err error, messageToUser string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondError(w, http.StatusBadRequest, err, ve.Message)
	case errors.Is(err, models.ErrItemNotFound):
		utils.RespondError(w, http.StatusNotFound, err, "Item not found")
	default:
		utils.RespondError(w, http.StatusInternalServerError, err, messageToUser)
	}
}
