package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        pinger
	started   time.Time
}

func newHealthHandler(db pinger, started time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		started:   started,
	}
}

type healthStatus struct {
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// health reports whether the database answers a ping
// @Summary Health check
// @Produce json
// @Success 200 {object} Response "ok"
// @Failure 503 {object} Response "database unreachable"
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{Database: "up", Uptime: time.Since(h.started).Round(time.Second).String()}
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("database ping failed")
			status.Database = "down"
			h.responder.WriteJSON(w, http.StatusServiceUnavailable, Response{
				Status:  statusError,
				Message: "database unreachable",
				Data:    status,
			})
			return
		}

		h.responder.WriteSuccess(w, "ok", status)
	}
}
