// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	cohortsfeature "github.com/dalemusser/cohorthub/internal/app/features/cohorts"
	healthfeature "github.com/dalemusser/cohorthub/internal/app/features/health"
	auditstore "github.com/dalemusser/cohorthub/internal/app/store/audit"
	cohortstore "github.com/dalemusser/cohorthub/internal/app/store/cohorts"
	"github.com/dalemusser/cohorthub/internal/app/system/auditlog"
	"github.com/dalemusser/cohorthub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CohortHub wires the Mongo-backed cohort repository and audit store
// into the membership service, then mounts the cohort endpoints and the
// health check.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.CohortHubMongoDatabase

	repo := cohortstore.New(db)
	auditLog := auditlog.New(auditstore.New(db), logger)

	svc := cohort.New(repo, auditLog, logger)
	svc.SetCapacityPolicy(appCfg.MaxTeamsPerCohort, appCfg.MaxMembersPerTeam)

	var limiter *ratelimit.Limiter
	if appCfg.JoinRatePerMinute > 0 {
		limiter = ratelimit.New(appCfg.JoinRatePerMinute, appCfg.JoinRateBurst)
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CohortHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Cohort membership API
	cohortsHandler := cohortsfeature.NewHandler(svc, limiter, logger)
	r.Mount("/cohorts", cohortsfeature.Routes(cohortsHandler))

	return r, nil
}
