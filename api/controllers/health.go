package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is implemented by the database and Redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Env    string            `json:"env"`
	Checks map[string]string `json:"checks,omitempty"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, healthResponse{Status: "live", Env: cfg.App.Env})
	}
}

// HealthReady pings the database and, when configured, Redis. A nil Redis
// pinger means sessions live in process memory and is reported as skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger Pinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := healthResponse{Status: "ready", Env: cfg.App.Env, Checks: map[string]string{}}
		status := http.StatusOK

		check := func(name string, p Pinger) {
			if p == nil {
				resp.Checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.ready_failed", err)
				}
				return
			}
			resp.Checks[name] = "ok"
		}
		check("database", dbPinger)
		check("redis", redisPinger)

		responses.WriteJSON(w, status, resp)
	}
}
