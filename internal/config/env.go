package config

import (
	"WaiAutoReply/pkg/knowledge"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/whatsapp"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port string
	Env  string

	WebhookVerifyToken string
	WhatsappAppSecret  string
	WebhookDedupTTL    time.Duration

	Whatsapp whatsapp.Config

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	KnowledgeBaseSource string
	AWSRegion           string

	ConfidenceThreshold float64
	DefaultLang         string

	AdminJWTSecret string
	RateLimitRPS   float64
	RateLimitBurst int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WHATSAPP_DRIVER", whatsapp.DriverCloud)
	v.SetDefault("WHATSAPP_GRAPH_URL", "https://graph.facebook.com/v20.0")
	v.SetDefault("WHATSAPP_TIMEOUT", "10s")
	v.SetDefault("WEBHOOK_DEDUP_TTL", "24h")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KNOWLEDGE_BASE_SOURCE", knowledge.SourceEmbedded)
	v.SetDefault("NLP_CONFIDENCE_THRESHOLD", nlp.DefaultConfidenceThreshold)
	v.SetDefault("DEFAULT_LANG", "mr")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
}

// LoadAppConfig reads the process environment (and any .env already loaded
// into it) on top of the defaults.
func LoadAppConfig() (*AppConfig, error) {
	return loadAppConfig(viper.New())
}

func loadAppConfig(v *viper.Viper) (*AppConfig, error) {
	setDefaults(v)
	v.AutomaticEnv()
	if err := v.BindEnv("APP_PORT", "APP_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind APP_PORT: %w", err)
	}

	cfg := &AppConfig{
		Port:                v.GetString("APP_PORT"),
		Env:                 v.GetString("APP_ENV"),
		WebhookVerifyToken:  v.GetString("WEBHOOK_VERIFY_TOKEN"),
		WhatsappAppSecret:   v.GetString("WHATSAPP_APP_SECRET"),
		WebhookDedupTTL:     v.GetDuration("WEBHOOK_DEDUP_TTL"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		RedisAddress:        v.GetString("REDIS_ADDRESS"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		KnowledgeBaseSource: v.GetString("KNOWLEDGE_BASE_SOURCE"),
		AWSRegion:           v.GetString("AWS_REGION"),
		ConfidenceThreshold: v.GetFloat64("NLP_CONFIDENCE_THRESHOLD"),
		DefaultLang:         strings.ToLower(v.GetString("DEFAULT_LANG")),
		AdminJWTSecret:      v.GetString("ADMIN_JWT_SECRET"),
		RateLimitRPS:        v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:      v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Whatsapp = whatsapp.Config{
		Driver:        strings.ToLower(v.GetString("WHATSAPP_DRIVER")),
		AccessToken:   v.GetString("WHATSAPP_ACCESS_TOKEN"),
		PhoneNumberID: v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
		GraphURL:      v.GetString("WHATSAPP_GRAPH_URL"),
		Timeout:       v.GetDuration("WHATSAPP_TIMEOUT"),
	}
	if cfg.Whatsapp.Driver == whatsapp.DriverDevice {
		cfg.Whatsapp.DeviceDSN = whatsapp.FormatDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("NLP_CONFIDENCE_THRESHOLD must be within [0, 1], got %v", c.ConfidenceThreshold)
	}

	switch c.Whatsapp.Driver {
	case whatsapp.DriverCloud, whatsapp.DriverDevice, whatsapp.DriverLog:
	default:
		return fmt.Errorf("%w: %q", whatsapp.ErrUnknownDriver, c.Whatsapp.Driver)
	}

	if c.Whatsapp.Driver == whatsapp.DriverDevice && c.DBHost == "" {
		return fmt.Errorf("DB_HOST is required for the %s driver", whatsapp.DriverDevice)
	}

	if c.WebhookDedupTTL <= 0 {
		return fmt.Errorf("WEBHOOK_DEDUP_TTL must be positive")
	}

	return nil
}

