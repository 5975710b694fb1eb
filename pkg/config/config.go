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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Policy    PolicyConfig
	Alerts    AlertsConfig
	Events    EventsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	PingTimeout  time.Duration
	// StatementTimeout is applied server-side to every statement; zero disables it.
	StatementTimeout time.Duration
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
	PoolSize    int
}

// JWTConfig describes how access tokens issued by the platform auth service are verified.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig governs context loading and result caching.
type AnalyticsConfig struct {
	Enabled            bool
	CacheTTL           time.Duration
	FetchTimeout       time.Duration
	DefaultRangeMonths int
}

// PolicyConfig carries the tunable constants used by the metric calculators.
type PolicyConfig struct {
	VersesPerPage         float64
	TargetPacePerWeek     float64
	StagnationDays        int
	MinAttendanceRate     float64
	AtRiskThreshold       float64
	AttendanceRiskWeight  float64
	PaceRiskWeight        float64
	StagnationRiskWeight  float64
	DropOffInactivityDays int
}

// AlertsConfig controls the background alert refresher.
type AlertsConfig struct {
	SchedulerEnabled bool
	RefreshInterval  time.Duration
	MadrasahIDs      []string
	Workers          int
	Retries          int
	RetryDelay       time.Duration
	JobTimeout       time.Duration
}

// EventsConfig selects the alert event transport. Kafka is used when brokers are configured.
type EventsConfig struct {
	KafkaBrokers []string
	AlertsTopic  string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		PingTimeout:  parseDuration(v.GetString("DB_PING_TIMEOUT"), 5*time.Second),

		StatementTimeout: parseDuration(v.GetString("DB_STATEMENT_TIMEOUT"), 25*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:     v.GetBool("REDIS_ENABLED"),
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
		OpTimeout:   parseDuration(v.GetString("REDIS_OP_TIMEOUT"), 500*time.Millisecond),
		PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: v.GetString("JWT_AUDIENCE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	months := v.GetInt("ANALYTICS_DEFAULT_RANGE_MONTHS")
	if months <= 0 {
		months = 12
	}
	cfg.Analytics = AnalyticsConfig{
		Enabled:            v.GetBool("ENABLE_ANALYTICS"),
		CacheTTL:           parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 2*time.Minute),
		FetchTimeout:       parseDuration(v.GetString("ANALYTICS_FETCH_TIMEOUT"), 30*time.Second),
		DefaultRangeMonths: months,
	}

	cfg.Policy = PolicyConfig{
		VersesPerPage:         v.GetFloat64("POLICY_VERSES_PER_PAGE"),
		TargetPacePerWeek:     v.GetFloat64("POLICY_TARGET_PACE"),
		StagnationDays:        v.GetInt("POLICY_STAGNATION_DAYS"),
		MinAttendanceRate:     v.GetFloat64("POLICY_MIN_ATTENDANCE_RATE"),
		AtRiskThreshold:       v.GetFloat64("POLICY_AT_RISK_THRESHOLD"),
		AttendanceRiskWeight:  v.GetFloat64("POLICY_WEIGHT_ATTENDANCE"),
		PaceRiskWeight:        v.GetFloat64("POLICY_WEIGHT_PACE"),
		StagnationRiskWeight:  v.GetFloat64("POLICY_WEIGHT_STAGNATION"),
		DropOffInactivityDays: v.GetInt("POLICY_DROP_OFF_INACTIVITY_DAYS"),
	}

	cfg.Alerts = AlertsConfig{
		SchedulerEnabled: v.GetBool("ENABLE_ALERT_SCHEDULER"),
		RefreshInterval:  parseDuration(v.GetString("ALERTS_REFRESH_INTERVAL"), 5*time.Minute),
		MadrasahIDs:      splitAndTrim(v.GetString("ALERTS_MADRASAH_IDS")),
		Workers:          v.GetInt("ALERTS_WORKERS"),
		Retries:          v.GetInt("ALERTS_RETRIES"),
		RetryDelay:       parseDuration(v.GetString("ALERTS_RETRY_DELAY"), 10*time.Second),
		JobTimeout:       parseDuration(v.GetString("ALERTS_JOB_TIMEOUT"), 2*time.Minute),
	}

	cfg.Events = EventsConfig{
		KafkaBrokers: splitAndTrim(v.GetString("KAFKA_BROKERS")),
		AlertsTopic:  v.GetString("ALERTS_TOPIC"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "madrasah")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_PING_TIMEOUT", "5s")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "25s")

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_OP_TIMEOUT", "500ms")
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "authenticated")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_ANALYTICS", true)
	v.SetDefault("ANALYTICS_CACHE_TTL", "2m")
	v.SetDefault("ANALYTICS_FETCH_TIMEOUT", "30s")
	v.SetDefault("ANALYTICS_DEFAULT_RANGE_MONTHS", 12)

	v.SetDefault("POLICY_VERSES_PER_PAGE", 10)
	v.SetDefault("POLICY_TARGET_PACE", 5)
	v.SetDefault("POLICY_STAGNATION_DAYS", 7)
	v.SetDefault("POLICY_MIN_ATTENDANCE_RATE", 80)
	v.SetDefault("POLICY_AT_RISK_THRESHOLD", 50)
	v.SetDefault("POLICY_WEIGHT_ATTENDANCE", 0.4)
	v.SetDefault("POLICY_WEIGHT_PACE", 0.35)
	v.SetDefault("POLICY_WEIGHT_STAGNATION", 0.25)
	v.SetDefault("POLICY_DROP_OFF_INACTIVITY_DAYS", 30)

	v.SetDefault("ENABLE_ALERT_SCHEDULER", false)
	v.SetDefault("ALERTS_REFRESH_INTERVAL", "5m")
	v.SetDefault("ALERTS_MADRASAH_IDS", "")
	v.SetDefault("ALERTS_WORKERS", 2)
	v.SetDefault("ALERTS_RETRIES", 3)
	v.SetDefault("ALERTS_RETRY_DELAY", "10s")
	v.SetDefault("ALERTS_JOB_TIMEOUT", "2m")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ALERTS_TOPIC", "analytics.alerts")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file")
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
