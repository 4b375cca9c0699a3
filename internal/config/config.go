package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string

	// Topics
	TopicIMURaw  string
	TopicIMUProc string
	TopicPose    string
	TopicQuat    string
	TopicStatus  string

	// Serial link to the UM6
	SerialPort string
	SerialBaud int

	// Broadcast configuration written to the COMMUNICATION register on
	// startup. Rate is the target frequency in Hz (20-300).
	BroadcastRate   float64
	SendRawSensor   bool
	SendProcSensor  bool
	SendEuler       bool
	SendQuat        bool
	SendCovariance  bool
	SendTemperature bool

	// Startup commands
	ZeroGyrosOnStart bool
	ResetEKFOnStart  bool

	// Timing
	ConsoleLogInterval int // milliseconds

	// Register debug tool
	DebugServerPort int
}

// Package-level unexported variables for the config singleton: globalConfig
// is only reachable through InitGlobal/Get, configOnce makes initialization
// idempotent, and configMu lets concurrent readers share the instance.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_IMU_RAW":
		c.TopicIMURaw = value
	case "TOPIC_IMU_PROC":
		c.TopicIMUProc = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_QUAT":
		c.TopicQuat = value
	case "TOPIC_STATUS":
		c.TopicStatus = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD %q: %w", value, err)
		}
		switch baud {
		case 9600, 14400, 19200, 38400, 57600, 115200:
		default:
			return fmt.Errorf("SERIAL_BAUD must be one of 9600, 14400, 19200, 38400, 57600, 115200, got %d", baud)
		}
		c.SerialBaud = baud

	// Broadcast configuration
	case "BROADCAST_RATE":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid BROADCAST_RATE %q: %w", value, err)
		}
		if rate < 20 || rate > 300 {
			return fmt.Errorf("BROADCAST_RATE must be 20-300 Hz, got %g", rate)
		}
		c.BroadcastRate = rate
	case "SEND_RAW_SENSOR":
		return parseBool(value, key, &c.SendRawSensor)
	case "SEND_PROC_SENSOR":
		return parseBool(value, key, &c.SendProcSensor)
	case "SEND_EULER":
		return parseBool(value, key, &c.SendEuler)
	case "SEND_QUAT":
		return parseBool(value, key, &c.SendQuat)
	case "SEND_COVARIANCE":
		return parseBool(value, key, &c.SendCovariance)
	case "SEND_TEMPERATURE":
		return parseBool(value, key, &c.SendTemperature)

	// Startup commands
	case "ZERO_GYROS_ON_START":
		return parseBool(value, key, &c.ZeroGyrosOnStart)
	case "RESET_EKF_ON_START":
		return parseBool(value, key, &c.ResetEKFOnStart)

	// Timing
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Register debug tool
	case "DEBUG_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DEBUG_SERVER_PORT %q: %w", value, err)
		}
		c.DebugServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseBool(value, key string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = b
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if c.SerialBaud == 0 {
		return fmt.Errorf("SERIAL_BAUD is required")
	}
	if c.BroadcastRate == 0 {
		return fmt.Errorf("BROADCAST_RATE is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Safe to call
// more than once; only the first call loads.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
