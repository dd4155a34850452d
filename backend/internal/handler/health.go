package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/folio-dev/folio/shared/errors"
	"github.com/folio-dev/folio/shared/utils"
)

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready is a readiness probe endpoint.
// Returns 503 Service Unavailable when the submission log directory is unusable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{
			Message:    "storage unavailable",
			StatusCode: http.StatusServiceUnavailable,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
