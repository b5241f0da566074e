package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	WebsocketPort int    `mapstructure:"websocket_port"`
	Timeout       string `mapstructure:"timeout"`
	UseRateLimit  bool   `mapstructure:"use_rate_limit"`
}

type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type SimulatorConfig struct {
	IntervalMs int     `mapstructure:"interval_ms"`
	SpeedKmh   float64 `mapstructure:"speed_kmh"`
}

// Read loads config.yaml from configPath, falling back to defaults for
// every key so the navigator runs with an empty config directory.
func Read(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 6060)
	v.SetDefault("server.websocket_port", 6666)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.use_rate_limit", false)
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "gps-samples")
	v.SetDefault("kafka.group_id", "chargepilot-navigator")
	v.SetDefault("simulator.interval_ms", 1000)
	v.SetDefault("simulator.speed_kmh", 40.0)

	v.SetConfigName("config")
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
