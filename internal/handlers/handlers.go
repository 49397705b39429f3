// Package handlers exposes the cache service's public surface over HTTP for
// collaborator services (dashboard backend, analytics, market data).
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dashboard-cache/internal/cache"
	"dashboard-cache/internal/common/errors"
	"dashboard-cache/internal/common/logging"
)

// Handlers holds the HTTP boundary's dependencies
type Handlers struct {
	cache  *cache.Service
	loader cache.Loader // source-of-truth loader used by the warm endpoint
	logger logging.Logger
}

// New creates the HTTP handlers. loader may be nil, in which case the warm
// endpoint is rejected with 503.
func New(cacheService *cache.Service, loader cache.Loader, logger logging.Logger) *Handlers {
	return &Handlers{
		cache:  cacheService,
		loader: loader,
		logger: logger.WithFields(logging.String("component", "handlers")),
	}
}

type setRequest struct {
	Value      interface{} `json:"value"`
	TTLSeconds int         `json:"ttl_seconds,omitempty"`
}

type invalidateRequest struct {
	Pattern string `json:"pattern"`
}

type warmRequest struct {
	Keys []string `json:"keys"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetEntry handles GET /api/cache/{key}
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, ok := h.cache.Get(r.Context(), key)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "key not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": value,
	})
}

// SetEntry handles PUT /api/cache/{key}
func (h *Handlers) SetEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if ok := h.cache.Set(r.Context(), key, req.Value, ttl); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "value could not be stored"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteEntry handles DELETE /api/cache/{key}
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	h.cache.Delete(r.Context(), key)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// InvalidatePattern handles POST /api/invalidate
func (h *Handlers) InvalidatePattern(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	count, err := h.cache.InvalidatePattern(r.Context(), req.Pattern)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("Invalidation failed", err, logging.String("pattern", req.Pattern))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "invalidation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// WarmCache handles POST /api/warm. Warming runs in the background; the
// response only acknowledges scheduling.
func (h *Handlers) WarmCache(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no warm loader configured"})
		return
	}

	var req warmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Keys) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "keys must not be empty"})
		return
	}

	// The request context dies with the response; warming outlives it
	h.cache.WarmCache(context.WithoutCancel(r.Context()), req.Keys, h.loader)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"scheduled": len(req.Keys),
	})
}

// GetMetrics handles GET /api/metrics
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Metrics())
}

// HealthCheck handles GET /health. A degraded service still answers 200:
// it is serving correct results from the remaining tier.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.HealthCheck(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
