// Ipcam-cfg controls IP Webcam Android cameras from the command line.
//
// It reads settings and sensor values, flips switches such as the torch,
// night vision and recording, prints stream URLs, and runs a live
// dashboard. Cameras can be saved by name in a small YAML registry.
//
// Usage:
//
//	ipcam-cfg [command] [flags]
//
// See 'ipcam-cfg --help' for available commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/ipcam/internal/logging"
	"github.com/muurk/ipcam/internal/ui"
	"github.com/muurk/ipcam/internal/version"
	"github.com/muurk/ipcam/pkg/ipcam"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ipcam-cfg",
	Short: "IP Webcam camera control utility",
	Long: `A command line client for the IP Webcam Android app.

Reads camera settings and sensors, switches features such as the torch,
night vision and motion detection, prints stream URLs, and runs a live
dashboard. Cameras can be saved by name with 'ipcam-cfg camera add'.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == formatJSON {
			return printJSON(cmd, version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ipcam-cfg %s\n", version.Full())
		return nil
	},
}

// printError renders a command failure on stderr
func printError(err error) {
	if outputFormat == formatJSON {
		data, _ := json.Marshal(map[string]string{
			"error":   err.Error(),
			"message": ipcam.GetShortErrorMessage(err),
		})
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	hints := ipcam.GetTroubleshootingHint(err)
	if hints == nil && !ui.IsTerminal() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, ui.RenderFailure(ipcam.GetShortErrorMessage(err), err, hints))
}
