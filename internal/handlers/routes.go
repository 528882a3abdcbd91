package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route on a fresh router.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/batch", h.CreateBatch).Methods(http.MethodPost)
	api.HandleFunc("/options/defaults", h.GetDefaults).Methods(http.MethodGet)

	return r
}
