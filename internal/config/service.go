package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "batsched"

// ServiceConfig holds the process settings of cmd/api and cmd/scheduler.
// They come from BATSCHED_* environment variables and an optional file
// named by SERVICE_CONFIG_FILE.
type ServiceConfig struct {
	LogLevel    string     `mapstructure:"log_level"`
	Port        uint       `mapstructure:"port"`
	HttpLog     bool       `mapstructure:"http_log"`
	ConfigFile  string     `mapstructure:"config_file"`
	ForecastDir string     `mapstructure:"forecast_dir"`
	WeatherDir  string     `mapstructure:"weather_dir"`
	ResultsDir  string     `mapstructure:"results_dir"`
	BatteryDir  string     `mapstructure:"battery_dir"`
	CORSOrigins []string   `mapstructure:"cors_origins"`
	Cron        string     `mapstructure:"cron"`
	MQTT        MQTTConfig `mapstructure:"mqtt"`
}

type MQTTConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Username  string
	Password  string
	BaseTopic string `mapstructure:"base_topic"`
	ClientID  string `mapstructure:"client_id"`
}

func setServiceDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
	v.SetDefault("config_file", "")
	v.SetDefault("forecast_dir", "forecasts")
	v.SetDefault("weather_dir", "weather")
	v.SetDefault("results_dir", "results")
	v.SetDefault("battery_dir", "batteries")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("cron", "0 5 6 * * *")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.base_topic", "battery_scheduler")
	v.SetDefault("mqtt.client_id", "")
}

// LoadService reads the service settings from the environment.
func LoadService() (*ServiceConfig, error) {
	// alias PORT => BATSCHED_PORT
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BATSCHED_PORT") == "" {
		os.Setenv("BATSCHED_PORT", port)
	}

	v := viper.New()
	setServiceDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// if defined, load settings from a yaml file; env still wins
	if cfgFile := os.Getenv("SERVICE_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", cfgFile, err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, err
	}
	cfg.MQTT.BaseTopic = baseTopic

	if cfg.Port == 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port must be in [1, 65535] (got %d)", cfg.Port)
	}
	if cfg.MQTT.Enabled && cfg.MQTT.Host == "" {
		return nil, errors.New("mqtt.host is required when mqtt is enabled")
	}
	return &cfg, nil
}

var topicRegexp = regexp.MustCompile("^[a-z0-9_]+(/[a-z0-9_]+)*$")

// CheckMQTTTopic lower-cases a base topic and checks its characters.
func CheckMQTTTopic(baseTopic string) (string, error) {
	lower := strings.ToLower(baseTopic)
	if !topicRegexp.MatchString(lower) {
		return "", errors.New("invalid topic. can only contain letters, numbers, underscores and '/' separators")
	}
	return lower, nil
}

// Redacted returns a copy safe to log.
func (s ServiceConfig) Redacted() ServiceConfig {
	if s.MQTT.Username != "" {
		s.MQTT.Username = "*redacted*"
	}
	if s.MQTT.Password != "" {
		s.MQTT.Password = "*redacted*"
	}
	return s
}
