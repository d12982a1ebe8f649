package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/internal/inventory"
	"github.com/crissyfield/appinventory/internal/render"
)

// CmdInfo defines the 'info' command.
var CmdInfo = &cobra.Command{
	Use:   "info [flags] package",
	Short: "Show an app and the permissions it requests",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

// runInfo is called when the 'info' sub-command is used.
func runInfo(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, true)
	defer release()

	// Look up the application
	type result struct {
		app         *inventory.AppRecord
		permissions []string
	}

	res := inBackground("Loading application", func() result {
		return result{
			app:         svc.GetAppInfo(cmd.Context(), args[0]),
			permissions: svc.GetAppPermissions(cmd.Context(), args[0]),
		}
	})

	if res.app == nil {
		slog.Error("Application not found", slog.String("package", args[0]))
		os.Exit(1)
	}

	// Print application
	err := render.App(os.Stdout, cfg.Output.Format, res.app, res.permissions)
	if err != nil {
		slog.Error("Failed to render application", slog.Any("error", err))
		os.Exit(1)
	}
}
