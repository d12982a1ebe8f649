package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crissyfield/appinventory/internal/render"
)

// CmdManifest defines the 'manifest' command.
var CmdManifest = &cobra.Command{
	Use:   "manifest [flags] package",
	Short: "Print a manifest-style summary of an app",
	Args:  cobra.ExactArgs(1),
	Run:   runManifest,
}

var manifestColor bool

// Initialize command options
func init() {
	CmdManifest.Flags().BoolVar(&manifestColor, "color", false, "highlight the manifest as XML")
}

// runManifest is called when the 'manifest' sub-command is used.
func runManifest(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	svc, release := openService(cfg, true)
	defer release()

	manifest := inBackground("Building manifest", func() string {
		return svc.GetAppManifest(cmd.Context(), args[0])
	})

	err := render.Manifest(os.Stdout, manifest, manifestColor)
	if err != nil {
		slog.Error("Failed to render manifest", slog.Any("error", err))
		os.Exit(1)
	}
}
