package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sweeney/noise-alert/internal/config"
	"github.com/sweeney/noise-alert/internal/gpio"
	"github.com/sweeney/noise-alert/internal/lcd"
	"github.com/sweeney/noise-alert/internal/logger"
	"github.com/sweeney/noise-alert/internal/monitor"
	"github.com/sweeney/noise-alert/internal/motor"
	"github.com/sweeney/noise-alert/internal/mqtt"
	"github.com/sweeney/noise-alert/internal/status"
	"github.com/sweeney/noise-alert/internal/watchdog"
	"github.com/sweeney/noise-alert/internal/web"
)

func run(ctx context.Context, cfg *config.Config) error {
	ctx = logger.WithName(ctx, "noise-alert")

	sensor, err := gpio.NewRealInput(cfg.GPIO.Chip, cfg.GPIO.Sensor)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer closeLogged(ctx, "sensor", sensor)

	led, err := gpio.NewRealOutput(cfg.GPIO.Chip, cfg.GPIO.LED)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer closeLogged(ctx, "led", led)

	bus, err := lcd.OpenBus(cfg.LCD.Bus)
	if err != nil {
		return fmt.Errorf("init i2c: %w", err)
	}

	// The display owns the bus from here on.
	display, err := lcd.NewHD44780(bus, cfg.LCD.Address)
	if err != nil {
		return fmt.Errorf("init lcd: %w", err)
	}
	defer closeLogged(ctx, "lcd", display)

	pwm, err := motor.OpenPWM(cfg.Motor.Chip, cfg.Motor.Channel, cfg.Motor.Period)
	if err != nil {
		return fmt.Errorf("init motor: %w", err)
	}
	defer closeLogged(ctx, "motor", pwm)

	soft := watchdog.NewSoft(time.Now)
	peripherals := monitor.Peripherals{
		Sensor:   sensor,
		LED:      led,
		Display:  display,
		Motor:    pwm,
		Watchdog: soft,
	}

	if cfg.Watchdog.Device != "" {
		hw, err := watchdog.OpenHardware(cfg.Watchdog.Device)
		if err != nil {
			return fmt.Errorf("init watchdog: %w", err)
		}
		defer closeLogged(ctx, "watchdog", hw)
		peripherals.Hardware = hw
	}

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	opts := monitor.Options{Tracker: tracker}

	if cfg.Broker != "" {
		publisher, err := mqtt.NewRealPublisher(ctx, cfg.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		opts.Publisher = publisher
		opts.MQTT = publisher
	}

	device, err := monitor.New(peripherals, opts)
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	button, err := gpio.NewRealButton(cfg.GPIO.Chip, cfg.GPIO.Button, func() {
		device.ButtonPressed()
	})
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer closeLogged(ctx, "button", button)

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorKV(ctx, "http server failed", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.InfoKV(ctx, "http status server listening", "addr", cfg.HTTPAddr)
	}

	watchTicker := time.NewTicker(watchdog.CheckInterval)
	defer watchTicker.Stop()
	go soft.Watch(ctx, watchTicker.C)

	logger.InfoKV(ctx, "started",
		"poll", cfg.Poll,
		"watchdog", watchdog.Timeout,
		"broker", cfg.Broker,
		"http", cfg.HTTPAddr,
	)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	return device.Run(ctx, ticker.C)
}

func runPrintState(w io.Writer, cfg *config.Config) error {
	sensor, err := gpio.NewRealInput(cfg.GPIO.Chip, cfg.GPIO.Sensor)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer sensor.Close()

	button, err := gpio.NewRealInput(cfg.GPIO.Chip, cfg.GPIO.Button)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	return printInputs(w, sensor, button)
}

func printInputs(w io.Writer, sensor, button gpio.Input) error {
	s, err := sensor.Read()
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	b, err := button.Read()
	if err != nil {
		return fmt.Errorf("read button: %w", err)
	}

	_, err = fmt.Fprintf(w, "SENSOR: %s, BUTTON: %s\n", levelString(s), levelString(b))
	return err
}

func levelString(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}

func statusConfig(cfg *config.Config) status.Config {
	return status.Config{
		PollMs:     cfg.Poll.Milliseconds(),
		WatchdogMs: watchdog.Timeout.Milliseconds(),
		Broker:     cfg.Broker,
		HTTPAddr:   cfg.HTTPAddr,
		Chip:       cfg.GPIO.Chip,
		PinSensor:  cfg.GPIO.Sensor,
		PinButton:  cfg.GPIO.Button,
		PinLED:     cfg.GPIO.LED,
		Watchdog:   cfg.Watchdog.Device,
	}
}

func closeLogged(ctx context.Context, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.WarnKV(ctx, "close failed", "peripheral", name, "error", err)
	}
}
