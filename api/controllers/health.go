package controllers

import (
	"net/http"

	"github.com/quotelane/quotelane-backend/api/responses"
	"github.com/quotelane/quotelane-backend/pkg/config"
	pkgdb "github.com/quotelane/quotelane-backend/pkg/db"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	pkgredis "github.com/quotelane/quotelane-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QuoteLane-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness once the primary store and session store
// answer pings. The legacy customer directory is deliberately excluded; it
// connects lazily and must not block boot.
func HealthReady(cfg *config.Config, database pkgdb.Pinger, sessions pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QuoteLane-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if sessions != nil {
			if err := sessions.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
