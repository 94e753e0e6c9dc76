package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Sentinel SentinelConfig `json:"sentinel"`
	Gemini   GeminiConfig   `json:"gemini"`
	Upstream UpstreamConfig `json:"upstream"`
	Alerts   AlertsConfig   `json:"alerts"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// SentinelConfig holds Sentinel Hub credentials and endpoints. The client id
// and secret were hard-coded in the original service and must now come from
// the environment.
type SentinelConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenURL     string `json:"token_url"`
	ProcessURL   string `json:"process_url"`
}

// GeminiConfig holds generative-language API keys. SecondaryKey is tried when
// the primary key is rejected.
type GeminiConfig struct {
	APIKey       string `json:"api_key"`
	SecondaryKey string `json:"secondary_key"`
	Endpoint     string `json:"endpoint"`
	Model        string `json:"model"`
}

// UpstreamConfig holds the external model inference endpoints.
type UpstreamConfig struct {
	DiseaseURL   string        `json:"disease_url"`
	PestURL      string        `json:"pest_url"`
	InferenceURL string        `json:"inference_url"`
	ForecastURL  string        `json:"forecast_url"`
	Timeout      time.Duration `json:"timeout"`
}

// AlertsConfig configures alert notification delivery and refresh.
type AlertsConfig struct {
	WebhookURL      string        `json:"webhook_url"`
	WebhookTimeout  time.Duration `json:"webhook_timeout"`
	RefreshSchedule string        `json:"refresh_schedule"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// Load builds the configuration from defaults and environment variables.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "agrivision",
			SSLMode: "disable",
		},
		Sentinel: SentinelConfig{
			TokenURL:   "https://services.sentinel-hub.com/auth/realms/main/protocol/openid-connect/token",
			ProcessURL: "https://services.sentinel-hub.com/api/v1/process",
		},
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Model:    "gemini-1.5-flash",
		},
		Upstream: UpstreamConfig{
			Timeout: 60 * time.Second,
		},
		Alerts: AlertsConfig{
			WebhookTimeout:  10 * time.Second,
			RefreshSchedule: "0 */30 * * * *",
		},
		Logging: LoggingConfig{Level: "info"},
	}

	overrideWithEnv(config)

	if config.Sentinel.ClientID == "" || config.Sentinel.ClientSecret == "" {
		return nil, fmt.Errorf("SENTINEL_CLIENT_ID and SENTINEL_CLIENT_SECRET are required")
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	if id := os.Getenv("SENTINEL_CLIENT_ID"); id != "" {
		config.Sentinel.ClientID = id
	}
	if secret := os.Getenv("SENTINEL_CLIENT_SECRET"); secret != "" {
		config.Sentinel.ClientSecret = secret
	}
	if url := os.Getenv("SENTINEL_TOKEN_URL"); url != "" {
		config.Sentinel.TokenURL = url
	}
	if url := os.Getenv("SENTINEL_PROCESS_URL"); url != "" {
		config.Sentinel.ProcessURL = url
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY_2"); key != "" {
		config.Gemini.SecondaryKey = key
	}
	if endpoint := os.Getenv("GEMINI_ENDPOINT"); endpoint != "" {
		config.Gemini.Endpoint = endpoint
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	if url := os.Getenv("DISEASE_MODEL_URL"); url != "" {
		config.Upstream.DiseaseURL = url
	}
	if url := os.Getenv("PEST_MODEL_URL"); url != "" {
		config.Upstream.PestURL = url
	}
	if url := os.Getenv("INFERENCE_MODEL_URL"); url != "" {
		config.Upstream.InferenceURL = url
	}
	if url := os.Getenv("FORECAST_MODEL_URL"); url != "" {
		config.Upstream.ForecastURL = url
	}
	if timeout := os.Getenv("UPSTREAM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Upstream.Timeout = d
		}
	}

	if url := os.Getenv("ALERT_WEBHOOK_URL"); url != "" {
		config.Alerts.WebhookURL = url
	}
	if schedule := os.Getenv("ALERT_REFRESH_SCHEDULE"); schedule != "" {
		config.Alerts.RefreshSchedule = schedule
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
