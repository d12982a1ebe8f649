package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/internal/render"
)

// CmdPermissions defines the 'permissions' command.
var CmdPermissions = &cobra.Command{
	Use:   "permissions [flags] package",
	Short: "List the permissions an app requests",
	Args:  cobra.ExactArgs(1),
	Run:   runPermissions,
}

// runPermissions is called when the 'permissions' sub-command is used.
func runPermissions(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, true)
	defer release()

	permissions := inBackground("Loading permissions", func() []string {
		return svc.GetAppPermissions(cmd.Context(), args[0])
	})

	err := render.Strings(os.Stdout, cfg.Output.Format, "Permission", permissions)
	if err != nil {
		slog.Error("Failed to render permissions", slog.Any("error", err))
		os.Exit(1)
	}
}
