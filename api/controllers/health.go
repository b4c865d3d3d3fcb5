package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/avmartell/stockroom-backend/api/responses"
	"github.com/avmartell/stockroom-backend/pkg/config"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is implemented by cache backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockroom-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the cache backend. A nil pinger (memory backend)
// is always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, cacheP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockroom-Env", cfg.App.Env)

		if cacheP != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := cacheP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache backend unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
