package config

import (
	"os"
	"path/filepath"
	"testing"
)

var configKeys = []string{
	"CONFIG_FILE", "SERVER_PORT", "GIN_MODE",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_SQLITE_PATH",
	"MODEL_SCALER_PATH", "MODEL_CLASSIFIER_PATH",
	"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	"MQTT_URL", "MQTT_TOPIC", "MQTT_CLIENT_ID",
}

// isolateEnv blanks every variable LoadConfig reads for the duration of t.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cases := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "defaults",
			db:   Default().Database,
			want: "host=localhost port=5432 user=glassclass password=glassclass_dev_password dbname=glassclass sslmode=disable",
		},
		{
			name: "remote",
			db:   DatabaseConfig{Host: "pg.internal", Port: 6543, User: "lab", Password: "s3cret", Name: "glass", SSLMode: "verify-full"},
			want: "host=pg.internal port=6543 user=lab password=s3cret dbname=glass sslmode=verify-full",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.db.GetDSN(); got != tc.want {
				t.Errorf("GetDSN() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	isolateEnv(t)

	if got := getEnv("GIN_MODE", "release"); got != "release" {
		t.Errorf("getEnv unset = %q, want fallback", got)
	}
	t.Setenv("GIN_MODE", "debug")
	if got := getEnv("GIN_MODE", "release"); got != "debug" {
		t.Errorf("getEnv set = %q, want %q", got, "debug")
	}

	if n, err := getIntEnv("REDIS_DB", 3); err != nil || n != 3 {
		t.Errorf("getIntEnv unset = %d, %v; want 3, nil", n, err)
	}
	t.Setenv("REDIS_DB", "7")
	if n, err := getIntEnv("REDIS_DB", 3); err != nil || n != 7 {
		t.Errorf("getIntEnv set = %d, %v; want 7, nil", n, err)
	}
	t.Setenv("REDIS_DB", "seven")
	if _, err := getIntEnv("REDIS_DB", 3); err == nil {
		t.Error("getIntEnv accepted a non-integer")
	}

	t.Setenv("REDIS_ENABLED", "true")
	if on, err := getBoolEnv("REDIS_ENABLED", false); err != nil || !on {
		t.Errorf("getBoolEnv = %v, %v; want true, nil", on, err)
	}
	t.Setenv("REDIS_ENABLED", "maybe")
	if _, err := getBoolEnv("REDIS_ENABLED", false); err == nil {
		t.Error("getBoolEnv accepted a non-boolean")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("LoadConfig() = %+v, want defaults %+v", *cfg, *want)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be off by default")
	}
	if cfg.MQTT.URL != "" {
		t.Errorf("MQTT.URL = %q, ingestion should be off by default", cfg.MQTT.URL)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/var/lib/glassclass/glass.db")
	t.Setenv("MODEL_SCALER_PATH", "/models/scaler.json")
	t.Setenv("MODEL_CLASSIFIER_PATH", "/models/tree.json")
	t.Setenv("REDIS_ENABLED", "1")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("MQTT_URL", "tcp://broker:1883")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	checks := []struct {
		field string
		got   any
		want  any
	}{
		{"Server.Port", cfg.Server.Port, 3000},
		{"Database.Driver", cfg.Database.Driver, "sqlite"},
		{"Database.SQLitePath", cfg.Database.SQLitePath, "/var/lib/glassclass/glass.db"},
		{"Model.ScalerPath", cfg.Model.ScalerPath, "/models/scaler.json"},
		{"Model.ClassifierPath", cfg.Model.ClassifierPath, "/models/tree.json"},
		{"Redis.Enabled", cfg.Redis.Enabled, true},
		{"Log.Format", cfg.Log.Format, "console"},
		{"MQTT.URL", cfg.MQTT.URL, "tcp://broker:1883"},
		{"MQTT.Topic", cfg.MQTT.Topic, "glassclass/measurements/+"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "glassclass.yaml")
	content := `
server:
  port: 9000
database:
  driver: sqlite
  sqlite_path: data/glass.db
model:
  classifier_path: artifacts/classifier.json
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Database.SQLitePath != "data/glass.db" {
		t.Errorf("Database.SQLitePath = %q, want value from file", cfg.Database.SQLitePath)
	}
	if cfg.Model.ClassifierPath != "artifacts/classifier.json" {
		t.Errorf("Model.ClassifierPath = %q, want value from file", cfg.Model.ClassifierPath)
	}
	if cfg.Model.ScalerPath != "scaler.json" {
		t.Errorf("Model.ScalerPath = %q, want default kept", cfg.Model.ScalerPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := LoadConfig(); err != nil {
		t.Errorf("LoadConfig() with empty file: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "eighty"}},
		{"bad redis flag", map[string]string{"REDIS_ENABLED": "sometimes"}},
		{"unsupported driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"missing file", map[string]string{"CONFIG_FILE": "/nonexistent/glassclass.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig() accepted %v", tc.env)
			}
		})
	}
}
