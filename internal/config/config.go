package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EngineConfig controls a MatchingEngine process. The five core fields and
// their defaults match the reference engine; the remaining fields wire in the
// domain stack's Kafka publishers and metrics endpoint.
type EngineConfig struct {
	NumSymbols    int
	OrderPoolSize int
	EnableLogging bool
	CPUAffinity   int
	NUMANode      int

	KafkaBrokers      []string
	KafkaReportsTopic string
	KafkaAuditTopic   string
	MetricsAddr       string
}

func defaults() EngineConfig {
	return EngineConfig{
		NumSymbols:        100,
		OrderPoolSize:     1_000_000,
		EnableLogging:     false,
		CPUAffinity:       -1,
		NUMANode:          -1,
		KafkaBrokers:      nil,
		KafkaReportsTopic: "lob.execution-reports",
		KafkaAuditTopic:   "lob.audit-events",
		MetricsAddr:       ":9090",
	}
}

// Load reads an EngineConfig from an optional config file at path (YAML,
// JSON, or TOML, detected by viper from the extension) and from LOB_*
// environment variables, falling back to the built-in defaults for anything unset.
// An empty path skips the file and reads only env vars and defaults.
func Load(path string) (EngineConfig, error) {
	cfg := defaults()

	v := viper.New()
	v.SetEnvPrefix("LOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("num_symbols", cfg.NumSymbols)
	v.SetDefault("order_pool_size", cfg.OrderPoolSize)
	v.SetDefault("enable_logging", cfg.EnableLogging)
	v.SetDefault("cpu_affinity", cfg.CPUAffinity)
	v.SetDefault("numa_node", cfg.NUMANode)
	v.SetDefault("kafka_brokers", cfg.KafkaBrokers)
	v.SetDefault("kafka_reports_topic", cfg.KafkaReportsTopic)
	v.SetDefault("kafka_audit_topic", cfg.KafkaAuditTopic)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return EngineConfig{}, errors.Wrapf(err, "config: read %s", path)
		}
	}

	cfg.NumSymbols = v.GetInt("num_symbols")
	cfg.OrderPoolSize = v.GetInt("order_pool_size")
	cfg.EnableLogging = v.GetBool("enable_logging")
	cfg.CPUAffinity = v.GetInt("cpu_affinity")
	cfg.NUMANode = v.GetInt("numa_node")
	cfg.KafkaBrokers = v.GetStringSlice("kafka_brokers")
	cfg.KafkaReportsTopic = v.GetString("kafka_reports_topic")
	cfg.KafkaAuditTopic = v.GetString("kafka_audit_topic")
	cfg.MetricsAddr = v.GetString("metrics_addr")

	if cfg.NumSymbols <= 0 {
		return EngineConfig{}, errors.Newf("config: num_symbols must be positive, got %d", cfg.NumSymbols)
	}
	if cfg.OrderPoolSize <= 0 {
		return EngineConfig{}, errors.Newf("config: order_pool_size must be positive, got %d", cfg.OrderPoolSize)
	}

	return cfg, nil
}
