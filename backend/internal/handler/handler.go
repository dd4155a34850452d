package handler

import (
	"context"

	"github.com/folio-dev/folio/backend/internal/service"
	"github.com/folio-dev/folio/shared/config"
)

// HealthChecker reports whether the submission store can accept writes.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	contact service.ContactService
	health  HealthChecker
	cfg     *config.Config
}

func New(contact service.ContactService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{contact: contact, health: health, cfg: cfg}
}

func (h *Handler) maxBodyBytes() int64 {
	if h.cfg == nil || h.cfg.Public.MaxBodyBytes <= 0 {
		return config.DefaultMaxBodyBytes
	}
	return h.cfg.Public.MaxBodyBytes
}
