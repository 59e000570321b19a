package cmd

import (
	"strings"

	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/jobs"
)

const (
	defaultHTTPPort            = "8082"
	defaultStaleThresholdHours = 48
	defaultRetentionDays       = 730
)

type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	RedisAddr              string
	KafkaHost              string
	KafkaOrderChangedTopic string
	StaleThresholdHours    int
	StaleScanSchedule      string
	RetentionDays          int
	RetentionSchedule      string
	AnalyticsBatchSize     int
}

// WithDefaults fills every unset value. Redis and Kafka stay optional: an
// empty address disables the lock and the publisher.
func (c Config) WithDefaults() Config {
	if c.HTTPPort == "" {
		c.HTTPPort = defaultHTTPPort
	}
	if c.DBSslMode == "" {
		c.DBSslMode = "disable"
	}
	if c.KafkaOrderChangedTopic == "" {
		c.KafkaOrderChangedTopic = "servicedesk.order-status-changed"
	}
	if c.StaleThresholdHours <= 0 {
		c.StaleThresholdHours = defaultStaleThresholdHours
	}
	if c.StaleScanSchedule == "" {
		c.StaleScanSchedule = jobs.DefaultStaleScanSchedule
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaultRetentionDays
	}
	if c.RetentionSchedule == "" {
		c.RetentionSchedule = jobs.DefaultRetentionSchedule
	}
	if c.AnalyticsBatchSize <= 0 {
		c.AnalyticsBatchSize = queries.DefaultBatchSize
	}
	return c
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return strings.Join([]string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
		"password=" + c.DBPassword,
		"dbname=" + c.DBName,
		"sslmode=" + c.DBSslMode,
	}, " ")
}

// KafkaBrokers splits KafkaHost on commas.
func (c Config) KafkaBrokers() []string {
	if c.KafkaHost == "" {
		return nil
	}
	brokers := strings.Split(c.KafkaHost, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// JobSettings returns the schedules of the background jobs.
func (c Config) JobSettings() jobs.Settings {
	return jobs.Settings{
		StaleThresholdHours: c.StaleThresholdHours,
		StaleScanSchedule:   c.StaleScanSchedule,
		RetentionDays:       c.RetentionDays,
		RetentionSchedule:   c.RetentionSchedule,
	}
}
