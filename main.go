package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/cmd"
	"github.com/crissyfield/appinventory/internal/config"
)

// logLevels maps configured log levels to pterm levels.
var logLevels = map[string]pterm.LogLevel{
	"trace": pterm.LogLevelTrace,
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

var configFile string

// rootCmd defines the root command.
var rootCmd = &cobra.Command{
	Use:              "appinventory",
	Short:            "Inventory the apps installed on an Android device",
	PersistentPreRun: initialize,
}

// Initialize command options
func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "", "config file (default is appinventory.yaml in the user config directory)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("device", "", "ID of the device to use (default is the first USB device)")
	flags.String("storage", config.StorageFile, "pin storage backend (file, sftp)")
	flags.StringP("output", "o", config.FormatTable, "output format (table, yaml, json)")

	_ = cmd.Settings.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = cmd.Settings.BindPFlag("device.id", flags.Lookup("device"))
	_ = cmd.Settings.BindPFlag("storage.backend", flags.Lookup("storage"))
	_ = cmd.Settings.BindPFlag("output.format", flags.Lookup("output"))

	rootCmd.AddCommand(
		cmd.CmdList,
		cmd.CmdInfo,
		cmd.CmdPermissions,
		cmd.CmdManifest,
		cmd.CmdPin,
		cmd.CmdUnpin,
		cmd.CmdPins,
		cmd.CmdResetPins,
		cmd.CmdDefaults,
	)
}

// initialize reads the config file and sets up logging before any sub-command runs.
func initialize(_ *cobra.Command, _ []string) {
	// Route slog through pterm
	level, ok := logLevels[cmd.Settings.GetString("log.level")]
	if !ok {
		level = pterm.LogLevelInfo
	}

	logger := pterm.DefaultLogger.WithLevel(level).WithWriter(os.Stderr)
	slog.SetDefault(slog.New(pterm.NewSlogHandler(logger)))

	// Read config file
	err := config.ReadFile(cmd.Settings, configFile)
	if err != nil {
		slog.Error("Failed to read config file", slog.Any("error", err))
		os.Exit(1)
	}

	// The file may have changed the level
	if level, ok := logLevels[cmd.Settings.GetString("log.level")]; ok {
		logger.Level = level
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
