// Package proxy implements the optional edge relay: a single-route HTTP
// server that forwards feed requests verbatim to the backend and adds
// the CORS headers the backend itself does not send. Clients point their
// backend URL at the relay instead of the origin; no query rewriting
// happens on the way through.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Handler forwards requests to the backend base URL.
type Handler struct {
	backendBase string
	client      ports.HTTPClient
	logger      log.Logger
}

// NewHandler creates a relay handler. client may be nil, in which case
// http.DefaultClient is used.
func NewHandler(backendBase string, client ports.HTTPClient, logger log.Logger) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Handler{backendBase: backendBase, client: client, logger: logger}
}

// Router builds the chi router for the relay.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}))
	r.Get("/", h.Forward)
	return r
}

// Forward relays the request to the backend, passing the raw query
// string through untouched and mirroring the upstream status and body.
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	if h.backendBase == "" {
		h.writeError(w, http.StatusInternalServerError, "Missing backend URL", "")
		return
	}

	target := h.backendBase
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Bad backend URL", err.Error())
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("upstream request failed", log.Err(err))
		h.writeError(w, http.StatusBadGateway, "Upstream error", err.Error())
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Debug("relay copy interrupted", log.Err(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	body := map[string]string{"error": msg}
	if detail != "" {
		body["detail"] = detail
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("error response write failed", log.Err(err))
	}
}
