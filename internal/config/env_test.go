package config

import (
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/whatsapp"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	cfg, err := loadAppConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, whatsapp.DriverCloud, cfg.Whatsapp.Driver)
	assert.Equal(t, 24*time.Hour, cfg.WebhookDedupTTL)
	assert.Equal(t, nlp.DefaultConfidenceThreshold, cfg.ConfidenceThreshold)
	assert.Equal(t, "mr", cfg.DefaultLang)
	assert.Equal(t, "embedded", cfg.KnowledgeBaseSource)
	assert.Equal(t, 50.0, cfg.RateLimitRPS)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.Empty(t, cfg.Whatsapp.DeviceDSN)
}

func TestLoadAppConfig_PortFallback(t *testing.T) {
	t.Setenv("PORT", "10000")

	cfg, err := loadAppConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "10000", cfg.Port)

	t.Setenv("APP_PORT", "8080")

	cfg, err = loadAppConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadAppConfig_Environment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("WHATSAPP_DRIVER", "DEVICE")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "wai")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_NAME", "whatsmeow")
	t.Setenv("NLP_CONFIDENCE_THRESHOLD", "0.6")
	t.Setenv("WEBHOOK_DEDUP_TTL", "2h")
	t.Setenv("DEFAULT_LANG", "EN")

	cfg, err := loadAppConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, whatsapp.DriverDevice, cfg.Whatsapp.Driver)
	assert.Equal(t, "postgres://wai:p%40ss@db:5432/whatsmeow?sslmode=disable", cfg.Whatsapp.DeviceDSN)
	assert.Equal(t, 0.6, cfg.ConfidenceThreshold)
	assert.Equal(t, 2*time.Hour, cfg.WebhookDedupTTL)
	assert.Equal(t, "en", cfg.DefaultLang)
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "threshold above one", env: map[string]string{"NLP_CONFIDENCE_THRESHOLD": "1.5"}},
		{name: "unknown driver", env: map[string]string{"WHATSAPP_DRIVER": "sms"}},
		{name: "device without database", env: map[string]string{"WHATSAPP_DRIVER": "device"}},
		{name: "zero dedup ttl", env: map[string]string{"WEBHOOK_DEDUP_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loadAppConfig(viper.New())
			assert.Error(t, err)
		})
	}
}
