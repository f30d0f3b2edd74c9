package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "POSTGRES_CONN_STR", "MONGO_URI", "MONGO_DB_NAME",
		"REDIS_ADDR", "RABBITMQ_URL", "JWT_SECRET", "FIREBASE_CREDENTIALS_PATH",
		"ALLOW_SELF_VOTE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.MongoDBName != "civicconnect" {
		t.Errorf("MongoDBName = %q, want civicconnect", cfg.MongoDBName)
	}
	if !cfg.AllowSelfVote {
		t.Error("AllowSelfVote should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("POSTGRES_CONN_STR", "host=db user=civic dbname=civic")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("ALLOW_SELF_VOTE", "false")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.PostgresConnStr != "host=db user=civic dbname=civic" {
		t.Errorf("PostgresConnStr = %q", cfg.PostgresConnStr)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.AllowSelfVote {
		t.Error("AllowSelfVote should be false when disabled")
	}
}

func TestInitDBRequiresConnectionStrings(t *testing.T) {
	if _, err := InitDB(&Config{MongoURI: "mongodb://db:27017"}); err == nil {
		t.Error("expected error when PostgresConnStr is empty")
	}
	if _, err := InitDB(&Config{PostgresConnStr: "host=db"}); err == nil {
		t.Error("expected error when MongoURI is empty")
	}
}
