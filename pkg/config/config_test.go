package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Analytics.FetchTimeout)
	assert.Equal(t, 12, cfg.Analytics.DefaultRangeMonths)
	assert.Equal(t, 2*time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, 10.0, cfg.Policy.VersesPerPage)
	assert.Equal(t, 7, cfg.Policy.StagnationDays)
	assert.InDelta(t, 1.0, cfg.Policy.AttendanceRiskWeight+cfg.Policy.PaceRiskWeight+cfg.Policy.StagnationRiskWeight, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.Alerts.RefreshInterval)
	assert.Empty(t, cfg.Events.KafkaBrokers)
	assert.Equal(t, 25*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.OpTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ANALYTICS_FETCH_TIMEOUT", "not-a-duration")
	v.Set("ANALYTICS_DEFAULT_RANGE_MONTHS", 0)
	v.Set("ALERTS_MADRASAH_IDS", " m-1, ,m-2 ")
	v.Set("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := fromViper(v)

	assert.Equal(t, 30*time.Second, cfg.Analytics.FetchTimeout)
	assert.Equal(t, 12, cfg.Analytics.DefaultRangeMonths)
	assert.Equal(t, []string{"m-1", "m-2"}, cfg.Alerts.MadrasahIDs)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.KafkaBrokers)
}
