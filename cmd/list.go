package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/internal/inventory"
	"github.com/crissyfield/appinventory/internal/render"
)

// CmdList defines the 'list' command.
var CmdList = &cobra.Command{
	Use:   "list [flags]",
	Short: "List all apps on the device",
	Args:  cobra.NoArgs,
	Run:   runList,
}

// Initialize command options
func init() {
	CmdList.Flags().Bool("system", false, "include system apps")
	_ = Settings.BindPFlag("inventory.include_system", CmdList.Flags().Lookup("system"))
}

// runList is called when the 'list' sub-command is used.
func runList(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, true)
	defer release()

	// Scan installed packages
	type result struct {
		apps []inventory.AppRecord
		err  error
	}

	res := inBackground("Scanning installed packages", func() result {
		apps, err := svc.FetchInstalledApps(cmd.Context(), cfg.Inventory.IncludeSystem)
		return result{apps: apps, err: err}
	})

	if res.err != nil {
		slog.Error("Failed to list applications", slog.Any("error", res.err))
		os.Exit(1)
	}

	slog.Debug("Listed applications", slog.Int("count", len(res.apps)), slog.Bool("system", cfg.Inventory.IncludeSystem))

	// Print applications
	err := render.Apps(os.Stdout, cfg.Output.Format, res.apps)
	if err != nil {
		slog.Error("Failed to render applications", slog.Any("error", err))
		os.Exit(1)
	}
}
