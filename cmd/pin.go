package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// CmdPin defines the 'pin' command.
var CmdPin = &cobra.Command{
	Use:   "pin [flags] package",
	Short: "Pin an app to the top of the list",
	Args:  cobra.ExactArgs(1),
	Run:   runPin,
}

// CmdUnpin defines the 'unpin' command.
var CmdUnpin = &cobra.Command{
	Use:   "unpin [flags] package",
	Short: "Unpin an app",
	Args:  cobra.ExactArgs(1),
	Run:   runUnpin,
}

// runPin is called when the 'pin' sub-command is used.
func runPin(cmd *cobra.Command, args []string) {
	svc, release := openService(loadConfig(), false)
	defer release()

	err := svc.PinApp(cmd.Context(), args[0])
	if err != nil {
		slog.Error("Failed to pin application", slog.String("package", args[0]), slog.Any("error", err))
		os.Exit(1)
	}

	pterm.Success.Printfln("Pinned %s", args[0])
}

// runUnpin is called when the 'unpin' sub-command is used.
func runUnpin(cmd *cobra.Command, args []string) {
	svc, release := openService(loadConfig(), false)
	defer release()

	// Default pins stay in place
	for _, id := range svc.DefaultPinnedApps() {
		if id == args[0] {
			pterm.Warning.Printfln("%s is pinned by default and cannot be unpinned", args[0])
			return
		}
	}

	err := svc.UnpinApp(cmd.Context(), args[0])
	if err != nil {
		slog.Error("Failed to unpin application", slog.String("package", args[0]), slog.Any("error", err))
		os.Exit(1)
	}

	pterm.Success.Printfln("Unpinned %s", args[0])
}
