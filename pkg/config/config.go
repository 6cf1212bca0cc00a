package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Catalog   CatalogConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Generator GeneratorConfig
}

// CatalogConfig locates the Banner course dump and its refresh policy.
type CatalogConfig struct {
	Path  string
	TTL   time.Duration
	Watch bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GeneratorConfig tunes the schedule search engine. The score weights are
// product constants, not algorithmic invariants, so they stay configurable.
type GeneratorConfig struct {
	DefaultMaxResults int
	HardCap           int
	WarnThreshold     int
	ResultCacheTTL    time.Duration
	MaxCourses        int
	Weights           ScoreWeights
}

// ScoreWeights encode the ranking stance: fewer days on campus matters most,
// then preferred professors, then lower gap time, then earlier finish.
type ScoreWeights struct {
	LatestEnd    int
	Gap          int
	Days         int
	Preferred    int
	CompactBonus int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Catalog = CatalogConfig{
		Path:  v.GetString("CATALOG_JSON_PATH"),
		TTL:   parseDuration(v.GetString("CATALOG_CACHE_TTL"), time.Hour),
		Watch: v.GetBool("CATALOG_WATCH"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Generator = GeneratorConfig{
		DefaultMaxResults: v.GetInt("GENERATOR_MAX_RESULTS"),
		HardCap:           v.GetInt("GENERATOR_HARD_CAP"),
		WarnThreshold:     v.GetInt("GENERATOR_WARN_THRESHOLD"),
		ResultCacheTTL:    parseDuration(v.GetString("GENERATOR_RESULT_CACHE_TTL"), 10*time.Minute),
		MaxCourses:        v.GetInt("GENERATOR_MAX_COURSES"),
		Weights: ScoreWeights{
			LatestEnd:    v.GetInt("SCORE_WEIGHT_LATEST_END"),
			Gap:          v.GetInt("SCORE_WEIGHT_GAP"),
			Days:         v.GetInt("SCORE_WEIGHT_DAYS"),
			Preferred:    v.GetInt("SCORE_WEIGHT_PREFERRED"),
			CompactBonus: v.GetInt("SCORE_COMPACT_BONUS"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("CATALOG_JSON_PATH", "./courses.json")
	v.SetDefault("CATALOG_CACHE_TTL", "1h")
	v.SetDefault("CATALOG_WATCH", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GENERATOR_MAX_RESULTS", 500)
	v.SetDefault("GENERATOR_HARD_CAP", 2000)
	v.SetDefault("GENERATOR_WARN_THRESHOLD", 100000)
	v.SetDefault("GENERATOR_RESULT_CACHE_TTL", "10m")
	v.SetDefault("GENERATOR_MAX_COURSES", 10)

	v.SetDefault("SCORE_WEIGHT_LATEST_END", 10)
	v.SetDefault("SCORE_WEIGHT_GAP", 1)
	v.SetDefault("SCORE_WEIGHT_DAYS", 50)
	v.SetDefault("SCORE_WEIGHT_PREFERRED", 100)
	v.SetDefault("SCORE_COMPACT_BONUS", 50)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
