package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the tracker service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	SyncSchedule      string
	FetchTimeout      time.Duration
	FetchLimit        int
	DashboardCacheTTL time.Duration
	ScrapeSource      bool
	OpenAIAPIKey      string
	CodeforcesAPIURL  string
	HackerRankAPIURL  string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CODETRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CodeTrack API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("sync.schedule", "@every 6h")
	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("fetch.limit", 100)
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("scrape.source", false)
	v.SetDefault("codeforces.api_url", "https://codeforces.com/api")
	v.SetDefault("hackerrank.api_url", "https://www.hackerrank.com/rest/hackers")

	fetchTimeout, err := time.ParseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid fetch timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		SyncSchedule:      v.GetString("sync.schedule"),
		FetchTimeout:      fetchTimeout,
		FetchLimit:        v.GetInt("fetch.limit"),
		DashboardCacheTTL: cacheTTL,
		ScrapeSource:      v.GetBool("scrape.source"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		CodeforcesAPIURL:  v.GetString("codeforces.api_url"),
		HackerRankAPIURL:  v.GetString("hackerrank.api_url"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 100
	}

	return cfg, nil
}
