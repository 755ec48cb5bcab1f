package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:      "8080",
		Env:       "test",
		JWTSecret: "a-secret-long-enough-for-production-use!",
	}
}

func TestValidateRequiresPortAndSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, validConfig().Validate())
}

func TestValidateProductionRejectsDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.DBPassword = "strong-enough"

	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-secret-long-enough-for-production-use!"
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = "strong-enough"
	assert.NoError(t, cfg.Validate())
}

func TestValidateOAuthPairing(t *testing.T) {
	cfg := validConfig()
	cfg.GoogleClientID = "client-id"
	assert.Error(t, cfg.Validate(), "client id without secret")

	cfg.GoogleClientSecret = "client-secret"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = "db.internal"
	cfg.DBPort = "5432"
	cfg.DBUser = "quill"
	cfg.DBPassword = "pw"
	cfg.DBName = "quill"
	cfg.DBSSLMode = "require"

	assert.Equal(t,
		"host=db.internal port=5432 user=quill password=pw dbname=quill sslmode=require",
		cfg.DSN())
}
