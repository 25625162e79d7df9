package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig(env string) *Config {
	return &Config{
		Env:                  env,
		Port:                 "8480",
		JWTSecret:            "secure-secret-at-least-32-chars-long",
		DBPassword:           "secure-password",
		DBSSLMode:            "require",
		MediaMaxUploadSizeMB: 10,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"development defaults", func(c *Config) {
			c.Env = "development"
			c.JWTSecret = "your-secret-key-change-in-production"
			c.DBPassword = "password"
		}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"production with default jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"production with short jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production with default db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"production hardened", func(c *Config) { c.Env = "production" }, false},
		{"prod alias hardened", func(c *Config) { c.Env = "prod" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConfig("development")
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigEnvHelpers(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())

	assert.True(t, (&Config{Env: ""}).IsDevelopment())
	assert.True(t, (&Config{Env: "development"}).IsDevelopment())
	assert.False(t, (&Config{Env: "test"}).IsDevelopment())
	assert.False(t, (&Config{Env: "production"}).IsDevelopment())
}
