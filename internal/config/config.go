package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/noise-alert/internal/gpio"
	"github.com/sweeney/noise-alert/internal/lcd"
	"github.com/sweeney/noise-alert/internal/motor"
)

// DefaultConfigFilename is read when no path is given.
const DefaultConfigFilename = "/etc/noise-alert.yaml"

// DefaultPoll is the sensor sampling interval.
const DefaultPoll = 5 * time.Millisecond

// Config holds everything that differs between boards.
type Config struct {
	GPIO     GPIO     `yaml:"gpio"`
	LCD      LCD      `yaml:"lcd"`
	Motor    Motor    `yaml:"motor"`
	Watchdog Watchdog `yaml:"watchdog"`
	// Poll is how often the sensor line is sampled.
	Poll time.Duration `yaml:"poll"`
	// Broker is the MQTT broker URL. Empty disables notifications.
	Broker string `yaml:"broker"`
	// HTTPAddr is the status page listen address. Empty disables it.
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
}

// GPIO selects the chip and line offsets.
type GPIO struct {
	Chip   string `yaml:"chip"`
	Sensor int    `yaml:"sensor"`
	Button int    `yaml:"button"`
	LED    int    `yaml:"led"`
}

// LCD selects the I2C bus and backpack address.
type LCD struct {
	Bus     string `yaml:"bus"`
	Address uint8  `yaml:"address"`
}

// Motor selects the PWM channel driving the vibration motor.
type Motor struct {
	Chip    string        `yaml:"chip"`
	Channel int           `yaml:"channel"`
	Period  time.Duration `yaml:"period"`
}

// Watchdog optionally names a kernel watchdog device kicked alongside the
// in-process one.
type Watchdog struct {
	Device string `yaml:"device"`
}

var (
	errConfigIsNotSet  = errors.New("configuration is not set")
	errNegativeLine    = errors.New("gpio line offsets must not be negative")
	errDuplicateLine   = errors.New("gpio line offsets must be distinct")
	errNegativeChannel = errors.New("pwm channel must not be negative")
	errPollTooSlow     = errors.New("poll interval must be below one second")
)

// Default returns the settings used for anything the file leaves out.
func Default() *Config {
	cfg := &Config{}
	_ = Validate(cfg)

	return cfg
}

// Load reads and validates the YAML file at path.
// A missing file at the default path, whether named or implied by an empty
// path, is not an error: defaults are used.
func Load(path string) (*Config, error) {
	explicit := path != "" && path != DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fills defaults and rejects settings the hardware cannot honour.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = gpio.DefaultChip
	}

	if cfg.GPIO.Sensor == 0 && cfg.GPIO.Button == 0 && cfg.GPIO.LED == 0 {
		cfg.GPIO.Sensor = gpio.DefaultPinSensor
		cfg.GPIO.Button = gpio.DefaultPinButton
		cfg.GPIO.LED = gpio.DefaultPinLED
	}

	if cfg.GPIO.Sensor < 0 || cfg.GPIO.Button < 0 || cfg.GPIO.LED < 0 {
		return errNegativeLine
	}

	if cfg.GPIO.Sensor == cfg.GPIO.Button || cfg.GPIO.Sensor == cfg.GPIO.LED || cfg.GPIO.Button == cfg.GPIO.LED {
		return errDuplicateLine
	}

	if cfg.LCD.Bus == "" {
		cfg.LCD.Bus = lcd.DefaultBus
	}

	if cfg.LCD.Address == 0 {
		cfg.LCD.Address = lcd.DefaultAddress
	}

	if cfg.Motor.Chip == "" {
		cfg.Motor.Chip = motor.DefaultChip
	}

	if cfg.Motor.Channel < 0 {
		return errNegativeChannel
	}

	if cfg.Motor.Period <= 0 {
		cfg.Motor.Period = motor.DefaultPeriod
	}

	if cfg.Poll <= 0 {
		cfg.Poll = DefaultPoll
	}

	if cfg.Poll >= time.Second {
		return errPollTooSlow
	}

	if cfg.Broker != "" {
		if _, err := url.ParseRequestURI(cfg.Broker); err != nil {
			return fmt.Errorf("invalid broker URL: %w", err)
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}
