package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/internal/render"
)

// CmdPins defines the 'pins' command.
var CmdPins = &cobra.Command{
	Use:   "pins [flags]",
	Short: "List pinned apps",
	Args:  cobra.NoArgs,
	Run:   runPins,
}

// CmdResetPins defines the 'reset-pins' command.
var CmdResetPins = &cobra.Command{
	Use:   "reset-pins [flags]",
	Short: "Remove all pins except the defaults",
	Args:  cobra.NoArgs,
	Run:   runResetPins,
}

// CmdDefaults defines the 'defaults' command.
var CmdDefaults = &cobra.Command{
	Use:   "defaults [flags]",
	Short: "List apps that are pinned by default",
	Args:  cobra.NoArgs,
	Run:   runDefaults,
}

// runPins is called when the 'pins' sub-command is used.
func runPins(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, false)
	defer release()

	// A failed read still yields the defaults
	pins, err := svc.PinnedApps(cmd.Context())
	if err != nil {
		slog.Warn("Failed to read pinned applications, showing defaults", slog.Any("error", err))
	}

	err = render.Strings(os.Stdout, cfg.Output.Format, "Package", pins)
	if err != nil {
		slog.Error("Failed to render pinned applications", slog.Any("error", err))
		os.Exit(1)
	}
}

// runResetPins is called when the 'reset-pins' sub-command is used.
func runResetPins(cmd *cobra.Command, _ []string) {
	svc, release := openService(loadConfig(), false)
	defer release()

	err := svc.ResetPins(cmd.Context())
	if err != nil {
		slog.Error("Failed to reset pinned applications", slog.Any("error", err))
		os.Exit(1)
	}

	pterm.Success.Println("Pins reset to defaults")
}

// runDefaults is called when the 'defaults' sub-command is used.
func runDefaults(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, false)
	defer release()

	err := render.Strings(os.Stdout, cfg.Output.Format, "Package", svc.DefaultPinnedApps())
	if err != nil {
		slog.Error("Failed to render default pins", slog.Any("error", err))
		os.Exit(1)
	}
}
