// Command noise-alert watches a sound-threshold sensor and raises a local
// alert (LED, LCD and vibration motor) until a button press mutes it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sweeney/noise-alert/internal/config"
	"github.com/sweeney/noise-alert/internal/logger"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the level from the configuration file.
	logLevel string
	// printState reads the inputs once and exits.
	printState bool

	rootCmd = &cobra.Command{
		Use:   "noise-alert",
		Short: "Raise a local alert when the sound sensor trips.",
		Long: `Polls the sound-threshold sensor and, while it reads high, lights the LED,
shows LOUD.. on the LCD and runs the vibration motor at half power.
A press of the mute button clears the alert and kicks the watchdog.
If nobody presses the button for 30 seconds the watchdog restarts the device.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := ""
			if cmd.Flags().Changed("log-level") {
				override = logLevel
			}

			cfg, err := loadConfig(configPath, override)
			if err != nil {
				return err
			}

			if printState {
				return runPrintState(os.Stdout, cfg)
			}

			ctx, stop := notifyContext(cmd.Context())
			defer stop()

			return run(ctx, cfg)
		},
	}
)

func main() {
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Errorf(context.Background(), "fatal: %v", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+", built-in settings if absent)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&printState, "print-state", false, "print current sensor and button levels and exit")
}

// loadConfig reads the settings, applies a non-empty log level override and
// sets the global log level.
func loadConfig(path, level string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if level != "" {
		cfg.LogLevel = level
	}
	lvl, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	logger.SetLevel(lvl)

	return cfg, nil
}

// notifyContext is cancelled on SIGINT or SIGTERM with the signal name as
// the cancellation cause.
func notifyContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case s := <-sigCh:
			cancel(errors.New(signalName(s)))
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(nil)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
