package bootstrap

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "cohort_hub",
		MaxTeamsPerCohort: 6,
		MaxMembersPerTeam: 5,
		JoinRatePerMinute: 30,
		JoinRateBurst:     10,
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for a bad Mongo URI")
	}
	if !strings.Contains(err.Error(), "MongoDB URI") {
		t.Errorf("error = %q, want it to mention the MongoDB URI", err)
	}
}

func TestValidateConfig_CapacityBounds(t *testing.T) {
	cfg := validAppConfig()
	cfg.MaxTeamsPerCohort = 0
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected an error for zero teams per cohort")
	}

	cfg = validAppConfig()
	cfg.MaxMembersPerTeam = 0
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected an error for zero members per team")
	}

	cfg = validAppConfig()
	cfg.JoinRatePerMinute = -1
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected an error for a negative join rate")
	}
}
