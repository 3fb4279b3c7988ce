package data

import (
	"errors"
	"net/http"

	"datafeed/logging"
	"datafeed/server/util"
	"datafeed/storage"
)

const (
	ErrMsgNotFound   = "Data file not found"
	ErrMsgMalformed  = "Data file is malformed"
	ErrMsgUnreadable = "Unable to read data file"
)

type DataHandler struct {
	Store *storage.Store
}

// GetData godoc
//
//	@Summary		Get the stored dataset
//	@Description	Returns the JSON dataset from the storage root unchanged
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	any
//	@Failure		404	{object}	util.ErrorResponse
//	@Failure		500	{object}	util.ErrorResponse
//	@Router			/getData [get]
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.Store.Load()
	if err != nil {
		log := logging.GetLogger("data")
		switch {
		case errors.Is(err, storage.ErrNotFound):
			util.WriteError(w, http.StatusNotFound, ErrMsgNotFound)
		case errors.Is(err, storage.ErrMalformed):
			log.Error().Err(err).Str("path", h.Store.Path()).Msg("Dataset is malformed")
			util.WriteError(w, http.StatusInternalServerError, ErrMsgMalformed)
		default:
			log.Error().Err(err).Str("path", h.Store.Path()).Msg("Unable to read dataset")
			util.WriteError(w, http.StatusInternalServerError, ErrMsgUnreadable)
		}
		return
	}

	util.WriteJSON(w, http.StatusOK, dataset)
}
