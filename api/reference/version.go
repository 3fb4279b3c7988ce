package reference

import (
	"net/http"

	"datafeed/server/util"
)

// VERSION is overwritten by main with the build version.
var VERSION = "unknown"

type VersionResponse struct {
	Version string `json:"version"`
}

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, VersionResponse{
		Version: VERSION,
	})
}
