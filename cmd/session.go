package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"

	"github.com/crissyfield/appinventory/internal/config"
	"github.com/crissyfield/appinventory/internal/device"
	"github.com/crissyfield/appinventory/internal/inventory"
	"github.com/crissyfield/appinventory/internal/pinstore"
	"github.com/crissyfield/appinventory/internal/prefs"
)

// Settings holds the configuration shared by all commands.
var Settings = config.New()

// loadConfig decodes the current settings.
func loadConfig() *config.Config {
	cfg, err := config.Load(Settings)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	return cfg
}

// openService builds the inventory service. Commands that only touch pins pass
// withDevice=false and never connect to a device. The returned function releases
// every opened resource.
func openService(cfg *config.Config, withDevice bool) (*inventory.Service, func()) {
	var closers []func()

	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Open pin storage
	backend, closeBackend := openBackend(cfg)
	closers = append(closers, closeBackend)

	pins := pinstore.New(pinstore.NewPrefsStorage(backend))

	if !withDevice {
		return inventory.NewService(nil, pins), release
	}

	// Find the specified device
	dev, err := device.FindDevice(cfg.Device.ID)
	if err != nil {
		release()
		slog.Error("Failed to find device", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Debug("Found device", slog.String("id", dev.ID), slog.String("name", dev.Name), slog.String("os", dev.OS), slog.String("version", dev.Version))

	// Load agent
	gateway, err := device.OpenGateway(dev, cfg.Device.AgentProcess)
	if err != nil {
		release()
		slog.Error("Failed to open device gateway", slog.Any("error", err))
		os.Exit(1)
	}

	closers = append(closers, gateway.Close)

	return inventory.NewService(gateway, pins), release
}

// openBackend opens the configured preferences backend.
func openBackend(cfg *config.Config) (prefs.Backend, func()) {
	if cfg.Storage.Backend != config.StorageSFTP {
		return prefs.NewLocalBackend(cfg.Storage.Dir), func() {}
	}

	backend, err := prefs.DialSFTP(prefs.SFTPConfig{
		Addr:     cfg.Storage.SFTP.Addr,
		User:     cfg.Storage.SFTP.User,
		Password: cfg.Storage.SFTP.Password,
		Dir:      cfg.Storage.SFTP.Dir,
		Timeout:  cfg.Storage.SFTP.Timeout,
	})

	if err != nil {
		slog.Error("Failed to connect to pin storage", slog.String("addr", cfg.Storage.SFTP.Addr), slog.Any("error", err))
		os.Exit(1)
	}

	return backend, func() {
		if err := backend.Close(); err != nil {
			slog.Warn("Failed to close pin storage", slog.Any("error", err))
		}
	}
}

// inBackground runs fn on a background goroutine while a spinner is shown.
func inBackground[T any](text string, fn func() T) T {
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone().Start(text)
	if err == nil {
		defer func() { _ = spinner.Stop() }()
	}

	done := make(chan T, 1)

	go func() {
		done <- fn()
	}()

	return <-done
}
