package health

import (
	"errors"
	"net/http"
	"time"

	"datafeed/logging"
	"datafeed/server/util"
	"datafeed/storage"
)

const StatusRunning = "running"

type ChangeObserver interface {
	Changes() int64
	LastChange() time.Time
}

type HealthHandler struct {
	Store   *storage.Store
	Watcher ChangeObserver
	Status  func() string
}

type WatcherInfo struct {
	Changes    int64      `json:"changes"`
	LastChange *time.Time `json:"last_change,omitempty"`
}

type HealthResponse struct {
	Status  string              `json:"status"`
	Dataset storage.DatasetInfo `json:"dataset"`
	Watcher *WatcherInfo        `json:"watcher,omitempty"`
}

// Health godoc
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/_health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := StatusRunning
	if h.Status != nil {
		status = h.Status()
	}

	// a missing dataset is reported, but does not make the service unhealthy
	info, err := h.Store.Stat()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log := logging.GetLogger("health")
		log.Error().Err(err).Str("path", info.Path).Msg("Unable to stat dataset")
	}
	resp := HealthResponse{
		Status:  status,
		Dataset: info,
	}

	if h.Watcher != nil {
		wi := &WatcherInfo{Changes: h.Watcher.Changes()}
		if last := h.Watcher.LastChange(); !last.IsZero() {
			wi.LastChange = &last
		}
		resp.Watcher = wi
	}

	code := http.StatusOK
	if status != StatusRunning {
		code = http.StatusServiceUnavailable
	}
	util.WriteJSON(w, code, resp)
}
