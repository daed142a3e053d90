package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/paircall/paircall/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	Room        RoomConfig        `koanf:"room"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RoomConfig struct {
	// GracePeriod is how long a single-occupant room survives before expiry.
	GracePeriod time.Duration `koanf:"grace_period"`
	// ClientURL is the frontend base the share link points at.
	ClientURL string `koanf:"client_url"`
}

type RateLimiterConfig struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

// Load reads the optional YAML file, then layers defaults and env overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 4001)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization", "X-Requested-With"})

	setDefault(k, "room.grace_period", 2*time.Minute)
	setDefault(k, "room.client_url", "http://localhost:3000")

	// 200 requests per 15 minutes per IP.
	setDefault(k, "rateLimiter.limit", 200)
	setDefault(k, "rateLimiter.window", 15*time.Minute)
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	if clientURL := env.GetString("CLIENT_URL", ""); clientURL != "" {
		k.Set("room.client_url", clientURL)
	}
	if grace := env.GetInt("ROOM_GRACE_PERIOD_SECONDS", 0); grace > 0 {
		k.Set("room.grace_period", time.Duration(grace)*time.Second)
	}

	if limit := env.GetInt("RATE_LIMIT_MAX_REQUESTS", 0); limit > 0 {
		k.Set("rateLimiter.limit", limit)
	}
	if window := env.GetInt("RATE_LIMIT_WINDOW_MINUTES", 0); window > 0 {
		k.Set("rateLimiter.window", time.Duration(window)*time.Minute)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
