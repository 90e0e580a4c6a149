package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:                 "8560",
			JWTSecret:            "test-secret-key-12345678901234567890123456789012",
			DBPassword:           "strong-enough-for-tests",
			DBSSLMode:            "require",
			SignupBonusCredits:   25,
			ReferralBonusCredits: 50,
			Env:                  "test",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "negative referral bonus",
			mutate:  func(c *Config) { c.ReferralBonusCredits = -1 },
			wantErr: "credit bonus values must not be negative",
		},
		{
			name: "default secret rejected in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "your-secret-key-change-in-production"
			},
			wantErr: "JWT_SECRET must be changed",
		},
		{
			name: "short secret rejected in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "dev bootstrap rejected in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.DevBootstrapRoot = true
			},
			wantErr: "DEV_BOOTSTRAP_ROOT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
