package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/bl815v/Tiendo/api"
	"github.com/bl815v/Tiendo/web"
)

func (h *Handler) handleClientPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)
		h.renderPage(w, r, http.StatusOK, page, web.PageData{})
	}
}

// healthTimeout bounds the database ping behind /health.
const healthTimeout = 2 * time.Second

func (h *Handler) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn("health check failed", "err", err)
			api.RespondJSONAndLog(w, h.log, http.StatusServiceUnavailable, api.StatusResponse{
				Status:  "unhealthy",
				Message: "database unreachable",
			})
			return
		}
		api.RespondJSONAndLog(w, h.log, http.StatusOK, api.StatusResponse{
			Status:  "healthy",
			Message: "Tiendo API is running",
		})
	}
}
