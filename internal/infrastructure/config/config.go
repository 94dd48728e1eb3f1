package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Totem daemon.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Socket   SocketConfig   `yaml:"socket"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Events   EventsConfig   `yaml:"events"`
	Hardware HardwareConfig `yaml:"hardware"`
}

// SocketConfig contains the unix-socket transport settings.
type SocketConfig struct {
	// Path is the filesystem path the daemon listens on.
	// Clients connect here; a stale file from a previous run is removed at startup.
	Path string `yaml:"path"`

	// ReadTimeout is the maximum time to wait for a client to send
	// its request, in seconds.
	ReadTimeout int `yaml:"read_timeout"`

	// MaxRequestBytes bounds a single request body.
	MaxRequestBytes int `yaml:"max_request_bytes"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DatabaseConfig contains SQLite settings for the event history store.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for event fan-out.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings for command telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// EventsConfig contains hardware-event settings.
type EventsConfig struct {
	// HistorySize is the capacity of the in-memory event ring.
	HistorySize int `yaml:"history_size"`

	// Notify configures dispatch of events to an external agent binary.
	Notify NotifyConfig `yaml:"notify"`
}

// NotifyConfig configures the external agent notifier.
// When a sensor event fires, the daemon execs the configured binary so the
// controlling agent can react (e.g. "openclaw system event --text ...").
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Binary  string `yaml:"binary"`

	// CooldownSeconds is the minimum interval between notifications.
	CooldownSeconds int `yaml:"cooldown_seconds"`
}

// HardwareConfig contains per-module hardware settings.
type HardwareConfig struct {
	Face  FaceConfig  `yaml:"face"`
	LCD   LCDConfig   `yaml:"lcd"`
	Sound SoundConfig `yaml:"sound"`
	Touch TouchConfig `yaml:"touch"`
}

// FaceConfig contains settings for the LED-matrix face module.
type FaceConfig struct {
	Enabled    bool `yaml:"enabled"`
	Brightness int  `yaml:"brightness"`
}

// LCDConfig contains settings for the character LCD module.
type LCDConfig struct {
	Enabled bool `yaml:"enabled"`
	Cols    int  `yaml:"cols"`
	Rows    int  `yaml:"rows"`
}

// SoundConfig contains settings for the audio playback module.
type SoundConfig struct {
	Enabled bool `yaml:"enabled"`

	// Player is the external playback binary (e.g. "aplay", "mpg123").
	Player string `yaml:"player"`

	// Volume is the initial master volume percentage (0-100).
	Volume int `yaml:"volume"`
}

// TouchConfig contains settings for the touch sensor module.
type TouchConfig struct {
	Enabled    bool `yaml:"enabled"`
	Pin        int  `yaml:"pin"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TOTEM_SECTION_KEY
// For example: TOTEM_SOCKET_PATH, TOTEM_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
// The daemon can run with no config file at all: every hardware module
// enabled, no external sinks.
func Default() *Config {
	return &Config{
		Socket: SocketConfig{
			Path:            "/tmp/totem.sock",
			ReadTimeout:     10,
			MaxRequestBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Database: DatabaseConfig{
			Enabled:     false,
			Path:        "./data/totem.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "totem-daemon",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Events: EventsConfig{
			HistorySize: 100,
			Notify: NotifyConfig{
				Enabled:         true,
				Binary:          "openclaw",
				CooldownSeconds: 5,
			},
		},
		Hardware: HardwareConfig{
			Face:  FaceConfig{Enabled: true, Brightness: 128},
			LCD:   LCDConfig{Enabled: true, Cols: 16, Rows: 2},
			Sound: SoundConfig{Enabled: true, Player: "aplay", Volume: 80},
			Touch: TouchConfig{Enabled: true, Pin: 17, DebounceMS: 200},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TOTEM_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOTEM_SOCKET_PATH"); v != "" {
		cfg.Socket.Path = v
	}
	if v := os.Getenv("TOTEM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TOTEM_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TOTEM_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("TOTEM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("TOTEM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("TOTEM_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	// Matches the long-standing TOTEM_NOTIFY_ENABLED switch: any value
	// other than "false" leaves notification on.
	if v := os.Getenv("TOTEM_NOTIFY_ENABLED"); v != "" {
		cfg.Events.Notify.Enabled = strings.ToLower(v) != "false"
	}
	if v := os.Getenv("TOTEM_NOTIFY_BINARY"); v != "" {
		cfg.Events.Notify.Binary = v
	}
	if v := os.Getenv("TOTEM_TOUCH_PIN"); v != "" {
		if pin, err := strconv.Atoi(v); err == nil {
			cfg.Hardware.Touch.Pin = pin
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Socket.Path == "" {
		errs = append(errs, "socket.path is required")
	}
	if c.Socket.ReadTimeout <= 0 {
		errs = append(errs, "socket.read_timeout must be positive")
	}
	if c.Socket.MaxRequestBytes <= 0 {
		errs = append(errs, "socket.max_request_bytes must be positive")
	}

	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database.enabled")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt.enabled")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb.enabled")
	}

	if c.Events.HistorySize <= 0 {
		errs = append(errs, "events.history_size must be positive")
	}

	if c.Hardware.Face.Brightness < 0 || c.Hardware.Face.Brightness > 255 {
		errs = append(errs, "hardware.face.brightness must be 0-255")
	}
	if c.Hardware.LCD.Cols <= 0 || c.Hardware.LCD.Rows <= 0 {
		errs = append(errs, "hardware.lcd.cols and hardware.lcd.rows must be positive")
	}
	if c.Hardware.Sound.Volume < 0 || c.Hardware.Sound.Volume > 100 {
		errs = append(errs, "hardware.sound.volume must be 0-100")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the socket read timeout as a Duration.
func (c SocketConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// GetNotifyCooldown returns the notifier cooldown as a Duration.
func (c *Config) GetNotifyCooldown() time.Duration {
	return time.Duration(c.Events.Notify.CooldownSeconds) * time.Second
}
