package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
cloud:
  username: "user@example.com"
  password: "secret"
  pin_code: "1234"
mqtt:
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
bridge:
  poll_interval: 30
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cloud.Username != "user@example.com" {
		t.Errorf("Cloud.Username = %q, want %q", cfg.Cloud.Username, "user@example.com")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.Bridge.PollInterval != 30 {
		t.Errorf("Bridge.PollInterval = %d, want 30", cfg.Bridge.PollInterval)
	}

	// Defaults survive a partial file
	if cfg.Cloud.Timeout != 30 {
		t.Errorf("Cloud.Timeout = %d, want default 30", cfg.Cloud.Timeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
cloud:
  username: "file-user"
  password: "file-pass"
  pin_code: "0000"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("JABLOTRON_CLOUD_PASSWORD", "env-pass")
	t.Setenv("JABLOTRON_CLOUD_PIN_CODE", "4321")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cloud.Username != "file-user" {
		t.Errorf("Cloud.Username = %q, want file value", cfg.Cloud.Username)
	}
	if cfg.Cloud.Password != "env-pass" {
		t.Errorf("Cloud.Password = %q, want env override env-pass", cfg.Cloud.Password)
	}
	if cfg.Cloud.PinCode != "4321" {
		t.Errorf("Cloud.PinCode = %q, want env override 4321", cfg.Cloud.PinCode)
	}
}

func TestConfig_Validate(t *testing.T) {
	validCloud := CloudConfig{
		Username: "user@example.com",
		Password: "secret",
		PinCode:  "1234",
		Timeout:  30,
	}
	validMQTT := MQTTConfig{
		Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
		QoS:    1,
	}
	validBridge := BridgeConfig{PollInterval: 60}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Cloud:  validCloud,
				MQTT:   validMQTT,
				Bridge: validBridge,
			},
			wantErr: false,
		},
		{
			name: "missing username",
			config: &Config{
				Cloud:  CloudConfig{Password: "secret", PinCode: "1234"},
				MQTT:   validMQTT,
				Bridge: validBridge,
			},
			wantErr: true,
		},
		{
			name: "missing password",
			config: &Config{
				Cloud:  CloudConfig{Username: "user@example.com", PinCode: "1234"},
				MQTT:   validMQTT,
				Bridge: validBridge,
			},
			wantErr: true,
		},
		{
			name: "missing pin code",
			config: &Config{
				Cloud:  CloudConfig{Username: "user@example.com", Password: "secret"},
				MQTT:   validMQTT,
				Bridge: validBridge,
			},
			wantErr: true,
		},
		{
			name: "invalid QoS",
			config: &Config{
				Cloud: validCloud,
				MQTT: MQTTConfig{
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
					QoS:    3,
				},
				Bridge: validBridge,
			},
			wantErr: true,
		},
		{
			name: "invalid broker port",
			config: &Config{
				Cloud: validCloud,
				MQTT: MQTTConfig{
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 0},
					QoS:    1,
				},
				Bridge: validBridge,
			},
			wantErr: true,
		},
		{
			name: "influx enabled without token",
			config: &Config{
				Cloud:    validCloud,
				MQTT:     validMQTT,
				Bridge:   validBridge,
				InfluxDB: InfluxDBConfig{Enabled: true, URL: "http://localhost:8086"},
			},
			wantErr: true,
		},
		{
			name: "zero poll interval",
			config: &Config{
				Cloud:  validCloud,
				MQTT:   validMQTT,
				Bridge: BridgeConfig{PollInterval: 0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
