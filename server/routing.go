package server

import (
	"net/http"

	"datafeed/api/data"
	"datafeed/api/health"
	"datafeed/api/reference"
	"datafeed/api/stats"
	"datafeed/database"
	"datafeed/storage"

	"gorm.io/gorm"
)

type RouterDeps struct {
	Store *storage.Store
	// nil disables request recording and the stats endpoint
	DB      *gorm.DB
	Watcher *storage.Watcher
	Status  func() string
}

func BackendRouting(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	dataHandler := &data.DataHandler{Store: deps.Store}
	healthHandler := &health.HealthHandler{Store: deps.Store, Status: deps.Status}
	if deps.Watcher != nil {
		healthHandler.Watcher = deps.Watcher
	}
	statsHandler := &stats.StatsHandler{DB: deps.DB}

	mux.HandleFunc("GET /getData", dataHandler.GetData)
	mux.HandleFunc("GET /_health", healthHandler.Health)
	mux.HandleFunc("GET /api/v1/stats/requests", statsHandler.Requests)
	mux.HandleFunc("GET /api/v1/version", reference.VersionHandler)
	mux.HandleFunc("GET /docs/openapi.json", reference.OpenAPISpec)
	mux.HandleFunc("GET /reference", reference.ScalarReference)

	middlewares := []Middleware{RequestID, Logging}
	if deps.DB != nil {
		middlewares = append(middlewares, Recording(&database.RequestRecorder{DB: deps.DB}))
	}

	return CreateStack(middlewares...)(mux)
}
