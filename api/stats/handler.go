package stats

import (
	"net/http"
	"time"

	"datafeed/database"
	"datafeed/logging"
	"datafeed/server/util"

	"gorm.io/gorm"
)

type StatsHandler struct {
	DB *gorm.DB
}

type RequestsResponse struct {
	Since    *time.Time              `json:"since,omitempty"`
	Requests []database.RequestCount `json:"requests"`
}

// Requests godoc
//
//	@Summary	Request counts per path and status
//	@Tags		system
//	@Produce	json
//	@Param		since	query		string	false	"RFC3339 lower bound"
//	@Success	200		{object}	RequestsResponse
//	@Failure	400		{object}	util.ErrorResponse
//	@Failure	503		{object}	util.ErrorResponse
//	@Router		/api/v1/stats/requests [get]
func (h *StatsHandler) Requests(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		util.WriteError(w, http.StatusServiceUnavailable, "request log disabled")
		return
	}

	var since time.Time
	resp := RequestsResponse{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid since parameter")
			return
		}
		since = parsed
		resp.Since = &parsed
	}

	counts, err := database.RequestSummary(h.DB, since)
	if err != nil {
		log := logging.GetLogger("stats")
		log.Error().Err(err).Msg("Failed to summarize request log")
		util.WriteError(w, http.StatusInternalServerError, "unable to read request log")
		return
	}
	resp.Requests = counts

	util.WriteJSON(w, http.StatusOK, resp)
}
