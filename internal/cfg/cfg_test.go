package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", s.BaseURL, defaultBaseURL)
	}
	if s.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", s.FetchTimeout)
	}
	if s.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", s.MaxAttempts)
	}
	if s.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", s.RetryDelay)
	}
	if s.UseMockData {
		t.Error("UseMockData should default to false")
	}
	if !s.FallbackToMock {
		t.Error("FallbackToMock should default to true")
	}
	if !s.AutoRefresh {
		t.Error("AutoRefresh should default to true")
	}
	if s.RiskInterval != time.Minute {
		t.Errorf("RiskInterval = %v, want 1m", s.RiskInterval)
	}
	if s.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", s.ListenAddr, defaultListenAddr)
	}
	if s.MetricsPort != 9100 {
		t.Errorf("MetricsPort = %d, want 9100", s.MetricsPort)
	}
	if len(s.EndpointPaths) != len(Endpoints()) {
		t.Errorf("EndpointPaths has %d entries, want %d", len(s.EndpointPaths), len(Endpoints()))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FLOOD_API_URL", "http://backend:9999")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MAX_ATTEMPTS", "7")
	t.Setenv("USE_MOCK_DATA", "true")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("RISK_INTERVAL", "45s")
	t.Setenv("DATA_PATH", "/tmp/flood")
	t.Setenv("DEBUG", "true")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.BaseURL != "http://backend:9999" {
		t.Errorf("BaseURL = %q", s.BaseURL)
	}
	if s.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", s.FetchTimeout)
	}
	if s.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", s.MaxAttempts)
	}
	if !s.UseMockData {
		t.Error("UseMockData should be true")
	}
	if s.AutoRefresh {
		t.Error("AutoRefresh should be false")
	}
	if s.RiskInterval != 45*time.Second {
		t.Errorf("RiskInterval = %v, want 45s", s.RiskInterval)
	}
	if s.DataPath != "/tmp/flood" {
		t.Errorf("DataPath = %q", s.DataPath)
	}
	if !s.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("MAX_ATTEMPTS", "lots")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want default 10s", s.FetchTimeout)
	}
	if s.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default 3", s.MaxAttempts)
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearConfigEnv(t)

	yaml := `
api:
  baseURL: "http://flood-backend:5001"
  fetchTimeout: "15s"
retry:
  maxAttempts: 5
  delay: "1s"
mock:
  enabled: false
  fallback: true
  delay: "100ms"
refresh:
  auto: true
  risk: "30s"
  river: "1m"
  forecast: "5m"
  history: "20m"
  status: "10s"
server:
  listenAddr: ":8090"
  metricsPort: 9200
  debug: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.BaseURL != "http://flood-backend:5001" {
		t.Errorf("BaseURL = %q", s.BaseURL)
	}
	if s.FetchTimeout != 15*time.Second {
		t.Errorf("FetchTimeout = %v, want 15s", s.FetchTimeout)
	}
	if s.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", s.MaxAttempts)
	}
	if s.RiskInterval != 30*time.Second {
		t.Errorf("RiskInterval = %v, want 30s", s.RiskInterval)
	}
	if s.ListenAddr != ":8090" {
		t.Errorf("ListenAddr = %q, want :8090", s.ListenAddr)
	}
	if s.MetricsPort != 9200 {
		t.Errorf("MetricsPort = %d, want 9200", s.MetricsPort)
	}
}

func TestLoadFromYAMLEnvWins(t *testing.T) {
	clearConfigEnv(t)

	yaml := `
api:
  baseURL: "http://from-file:5000"
retry:
  maxAttempts: 5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("FLOOD_API_URL", "http://from-env:5000")
	t.Setenv("MAX_ATTEMPTS", "2")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.BaseURL != "http://from-env:5000" {
		t.Errorf("BaseURL = %q, env should win over file", s.BaseURL)
	}
	if s.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, env should win over file", s.MaxAttempts)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateSettings(t *testing.T) {
	valid := func() Settings {
		return Settings{
			BaseURL:          defaultBaseURL,
			EndpointPaths:    DefaultEndpointPaths(),
			FetchTimeout:     10 * time.Second,
			MaxAttempts:      3,
			RetryDelay:       2 * time.Second,
			MockDelay:        300 * time.Millisecond,
			RiskInterval:     time.Minute,
			RiverInterval:    2 * time.Minute,
			ForecastInterval: 10 * time.Minute,
			HistoryInterval:  30 * time.Minute,
			StatusInterval:   30 * time.Second,
			ListenAddr:       defaultListenAddr,
			MetricsPort:      9100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(*Settings) {}, false},
		{"empty base URL", func(s *Settings) { s.BaseURL = "" }, true},
		{"timeout too short", func(s *Settings) { s.FetchTimeout = 100 * time.Millisecond }, true},
		{"timeout too long", func(s *Settings) { s.FetchTimeout = 5 * time.Minute }, true},
		{"zero attempts", func(s *Settings) { s.MaxAttempts = 0 }, true},
		{"too many attempts", func(s *Settings) { s.MaxAttempts = 11 }, true},
		{"negative retry delay", func(s *Settings) { s.RetryDelay = -time.Second }, true},
		{"excessive mock delay", func(s *Settings) { s.MockDelay = time.Minute }, true},
		{"risk interval too short", func(s *Settings) { s.RiskInterval = 200 * time.Millisecond }, true},
		{"status interval too long", func(s *Settings) { s.StatusInterval = 48 * time.Hour }, true},
		{"empty listen addr", func(s *Settings) { s.ListenAddr = "" }, true},
		{"privileged metrics port", func(s *Settings) { s.MetricsPort = 80 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := validateSettings(&s)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// clearConfigEnv unsets every variable the loader reads so tests start from
// a known state. t.Setenv registers the restore for us.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG_FILE", "FLOOD_API_URL", "FETCH_TIMEOUT", "MAX_ATTEMPTS",
		"RETRY_DELAY", "USE_MOCK_DATA", "FALLBACK_TO_MOCK", "MOCK_DELAY",
		"AUTO_REFRESH", "RISK_INTERVAL", "RIVER_INTERVAL", "FORECAST_INTERVAL",
		"HISTORY_INTERVAL", "STATUS_INTERVAL", "LISTEN_ADDR", "METRICS_PORT",
		"DATA_PATH", "DEBUG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
