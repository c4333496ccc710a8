package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	BaseURL       string
	EndpointPaths map[Endpoint]string

	FetchTimeout time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration

	UseMockData    bool
	FallbackToMock bool
	MockDelay      time.Duration

	AutoRefresh      bool
	RiskInterval     time.Duration
	RiverInterval    time.Duration
	ForecastInterval time.Duration
	HistoryInterval  time.Duration
	StatusInterval   time.Duration

	ListenAddr  string
	MetricsPort int
	DataPath    string
	Debug       bool
}

type ConfigFile struct {
	API struct {
		BaseURL      string `yaml:"baseURL"`
		FetchTimeout string `yaml:"fetchTimeout"`
	} `yaml:"api"`

	Retry struct {
		MaxAttempts int    `yaml:"maxAttempts"`
		Delay       string `yaml:"delay"`
	} `yaml:"retry"`

	Mock struct {
		Enabled  bool   `yaml:"enabled"`
		Fallback bool   `yaml:"fallback"`
		Delay    string `yaml:"delay"`
	} `yaml:"mock"`

	Refresh struct {
		Auto     bool   `yaml:"auto"`
		Risk     string `yaml:"risk"`
		River    string `yaml:"river"`
		Forecast string `yaml:"forecast"`
		History  string `yaml:"history"`
		Status   string `yaml:"status"`
	} `yaml:"refresh"`

	Server struct {
		ListenAddr  string `yaml:"listenAddr"`
		MetricsPort int    `yaml:"metricsPort"`
		DataPath    string `yaml:"dataPath"`
		Debug       bool   `yaml:"debug"`
	} `yaml:"server"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings := Settings{
		BaseURL:          getEnvOrDefault("FLOOD_API_URL", config.API.BaseURL),
		EndpointPaths:    DefaultEndpointPaths(),
		FetchTimeout:     durationFromConfig("FETCH_TIMEOUT", config.API.FetchTimeout, 10*time.Second),
		MaxAttempts:      getIntFromEnvOrConfig("MAX_ATTEMPTS", config.Retry.MaxAttempts, 3),
		RetryDelay:       durationFromConfig("RETRY_DELAY", config.Retry.Delay, 2*time.Second),
		UseMockData:      getBoolFromEnvOrConfig("USE_MOCK_DATA", config.Mock.Enabled),
		FallbackToMock:   getBoolFromEnvOrConfig("FALLBACK_TO_MOCK", config.Mock.Fallback),
		MockDelay:        durationFromConfig("MOCK_DELAY", config.Mock.Delay, 300*time.Millisecond),
		AutoRefresh:      getBoolFromEnvOrConfig("AUTO_REFRESH", config.Refresh.Auto),
		RiskInterval:     durationFromConfig("RISK_INTERVAL", config.Refresh.Risk, time.Minute),
		RiverInterval:    durationFromConfig("RIVER_INTERVAL", config.Refresh.River, 2*time.Minute),
		ForecastInterval: durationFromConfig("FORECAST_INTERVAL", config.Refresh.Forecast, 10*time.Minute),
		HistoryInterval:  durationFromConfig("HISTORY_INTERVAL", config.Refresh.History, 30*time.Minute),
		StatusInterval:   durationFromConfig("STATUS_INTERVAL", config.Refresh.Status, 30*time.Second),
		ListenAddr:       getEnvOrDefault("LISTEN_ADDR", config.Server.ListenAddr),
		MetricsPort:      getIntFromEnvOrConfig("METRICS_PORT", config.Server.MetricsPort, 9100),
		DataPath:         getEnvOrDefault("DATA_PATH", config.Server.DataPath),
		Debug:            getBoolFromEnvOrConfig("DEBUG", config.Server.Debug),
	}

	if settings.BaseURL == "" {
		settings.BaseURL = defaultBaseURL
	}
	if settings.ListenAddr == "" {
		settings.ListenAddr = defaultListenAddr
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		BaseURL:          getEnvOrDefault("FLOOD_API_URL", defaultBaseURL),
		EndpointPaths:    DefaultEndpointPaths(),
		FetchTimeout:     getDurationOrDefault("FETCH_TIMEOUT", 10*time.Second),
		MaxAttempts:      getIntOrDefault("MAX_ATTEMPTS", 3),
		RetryDelay:       getDurationOrDefault("RETRY_DELAY", 2*time.Second),
		UseMockData:      getBoolOrDefault("USE_MOCK_DATA", false),
		FallbackToMock:   getBoolOrDefault("FALLBACK_TO_MOCK", true),
		MockDelay:        getDurationOrDefault("MOCK_DELAY", 300*time.Millisecond),
		AutoRefresh:      getBoolOrDefault("AUTO_REFRESH", true),
		RiskInterval:     getDurationOrDefault("RISK_INTERVAL", time.Minute),
		RiverInterval:    getDurationOrDefault("RIVER_INTERVAL", 2*time.Minute),
		ForecastInterval: getDurationOrDefault("FORECAST_INTERVAL", 10*time.Minute),
		HistoryInterval:  getDurationOrDefault("HISTORY_INTERVAL", 30*time.Minute),
		StatusInterval:   getDurationOrDefault("STATUS_INTERVAL", 30*time.Second),
		ListenAddr:       getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		MetricsPort:      getIntOrDefault("METRICS_PORT", 9100),
		DataPath:         os.Getenv("DATA_PATH"), // optional
		Debug:            getBoolOrDefault("DEBUG", false),
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// durationFromConfig resolves a duration from env first, then the YAML value,
// then the fallback.
func durationFromConfig(key, configValue string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if configValue != "" {
		if d, err := time.ParseDuration(configValue); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getBoolFromEnvOrConfig(key string, configValue bool) bool {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.BaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}

	if settings.FetchTimeout < time.Second || settings.FetchTimeout > 2*time.Minute {
		return fmt.Errorf("fetch timeout must be between 1s and 2m, got %v", settings.FetchTimeout)
	}
	if settings.MaxAttempts < 1 || settings.MaxAttempts > 10 {
		return fmt.Errorf("max attempts must be between 1 and 10, got %d", settings.MaxAttempts)
	}
	if settings.RetryDelay < 0 || settings.RetryDelay > time.Minute {
		return fmt.Errorf("retry delay must be between 0 and 1m, got %v", settings.RetryDelay)
	}
	if settings.MockDelay < 0 || settings.MockDelay > 10*time.Second {
		return fmt.Errorf("mock delay must be between 0 and 10s, got %v", settings.MockDelay)
	}

	intervals := map[string]time.Duration{
		"risk":     settings.RiskInterval,
		"river":    settings.RiverInterval,
		"forecast": settings.ForecastInterval,
		"history":  settings.HistoryInterval,
		"status":   settings.StatusInterval,
	}
	for name, iv := range intervals {
		if iv < time.Second || iv > 24*time.Hour {
			return fmt.Errorf("%s refresh interval must be between 1s and 24h, got %v", name, iv)
		}
	}

	if settings.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if settings.MetricsPort < 1024 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}

	return nil
}
