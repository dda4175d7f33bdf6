package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the API endpoints and the static site.
func NewRouter(h *GateHandler, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Logging, Recover, CORS)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/password-request", h.HandlePasswordRequest).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/approve-request/{requestId}", h.HandleApproveRequest).Methods(http.MethodGet)
	api.HandleFunc("/decline-request/{requestId}", h.HandleDeclineRequest).Methods(http.MethodGet)
	api.HandleFunc("/verify-password", h.HandleVerifyPassword).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/session", h.HandleSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/test-email", h.HandleTestEmail).Methods(http.MethodGet)
	api.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	// Everything else is the static site, including the gated entry page.
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
