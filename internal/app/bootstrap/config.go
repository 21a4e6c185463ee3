// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CohortHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, max_teams_per_cohort, etc.
//   - Environment variables: COHORTHUB_MONGO_URI, COHORTHUB_MAX_TEAMS_PER_COHORT, etc.
//   - Command-line flags: --mongo_uri, --max_teams_per_cohort, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "cohort_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Cohort capacity policy
	{Name: "max_teams_per_cohort", Default: cohort.DefaultMaxTeamsPerCohort, Desc: "Cohort-level team cap (limits createTeam growth; the join seed always uses the default roster)"},
	{Name: "max_members_per_team", Default: cohort.DefaultMaxMembersPerTeam, Desc: "Member slots each team contributes"},

	// Join endpoint rate limiting
	{Name: "join_rate_per_minute", Default: 30, Desc: "Sustained join requests allowed per user per minute (0 disables)"},
	{Name: "join_rate_burst", Default: 10, Desc: "Join request burst allowance per user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COHORTHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COHORTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		MaxTeamsPerCohort: appValues.Int("max_teams_per_cohort"),
		MaxMembersPerTeam: appValues.Int("max_members_per_team"),

		JoinRatePerMinute: appValues.Int("join_rate_per_minute"),
		JoinRateBurst:     appValues.Int("join_rate_burst"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// CohortHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects capacity
// settings that would make cohorts unjoinable.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MaxTeamsPerCohort < 1 {
		return fmt.Errorf("max_teams_per_cohort must be at least 1, got %d", appCfg.MaxTeamsPerCohort)
	}
	if appCfg.MaxMembersPerTeam < 1 {
		return fmt.Errorf("max_members_per_team must be at least 1, got %d", appCfg.MaxMembersPerTeam)
	}
	if appCfg.JoinRatePerMinute < 0 || appCfg.JoinRateBurst < 0 {
		return fmt.Errorf("join rate settings must not be negative")
	}

	return nil
}
