package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ipcam/internal/config"
	"github.com/muurk/ipcam/internal/logging"
	"github.com/muurk/ipcam/internal/ui"
)

var (
	setDefault bool
	assumeYes  bool
)

func init() {
	cameraAddCmd.Flags().BoolVar(&setDefault, "default", false, "Make this the default camera")
	cameraRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	cameraCmd.AddCommand(cameraAddCmd)
	cameraCmd.AddCommand(cameraListCmd)
	cameraCmd.AddCommand(cameraRemoveCmd)
	rootCmd.AddCommand(cameraCmd)
}

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Manage saved cameras",
	Long: `Save camera connection parameters under a name.

Passwords are never saved; set ` + PasswordEnvVar + ` or enter it when prompted.`,
}

var cameraAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a camera",
	Example: `  ipcam-cfg camera add door --host 192.168.1.20 --ssl=false --username admin
  ipcam-cfg camera add garage --host 192.168.1.21 --skip-verify --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cameraHost == "" {
			return fmt.Errorf("--host is required")
		}
		path, registry, err := loadRegistry()
		if err != nil {
			return err
		}

		ssl := useSSL
		cam := &config.Camera{
			Host:       cameraHost,
			Username:   username,
			SSL:        &ssl,
			SkipVerify: skipVerify,
		}
		if cameraPort != config.DefaultPort {
			cam.Port = cameraPort
		}
		if timeoutSeconds != config.DefaultTimeoutSeconds {
			cam.TimeoutSeconds = timeoutSeconds
		}

		name := args[0]
		if err := registry.SetCamera(name, cam); err != nil {
			return err
		}
		if setDefault {
			registry.Preferences.DefaultCamera = name
		}
		if err := registry.SaveTo(path); err != nil {
			return err
		}
		logging.Info("Camera saved", zap.String("camera", name), zap.String("registry", path))

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccess("Camera "+name+" saved", cameraDetails(cam, registry.Preferences.DefaultCamera == name)))
		return nil
	},
}

var cameraListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cameras",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, registry, err := loadRegistry()
		if err != nil {
			return err
		}

		if outputFormat == formatJSON {
			return printJSON(cmd, registry.Cameras)
		}

		names := registry.CameraNames()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cameras saved. Add one with 'ipcam-cfg camera add <name> --host <ip>'.")
			return nil
		}

		rows := make([]ui.Row, 0, len(names))
		for _, name := range names {
			cam := registry.GetCamera(name)
			label := name
			if registry.Preferences.DefaultCamera == name {
				label += " *"
			}
			rows = append(rows, ui.Row{Key: label, Value: describeCamera(cam)})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderTable("Cameras", rows))
		return nil
	},
}

var cameraRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget a saved camera",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, registry, err := loadRegistry()
		if err != nil {
			return err
		}

		name := args[0]
		if registry.GetCamera(name) == nil {
			return fmt.Errorf("camera %q is not registered", name)
		}
		if !assumeYes && !ui.Confirm("Remove camera "+name+"?", cmd.InOrStdin(), cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		registry.RemoveCamera(name)
		if err := registry.SaveTo(path); err != nil {
			return err
		}
		logging.Info("Camera removed", zap.String("camera", name))
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccess("Camera "+name+" removed", nil))
		return nil
	},
}

func loadRegistry() (string, *config.Registry, error) {
	path, err := registryPath()
	if err != nil {
		return "", nil, err
	}
	registry, err := config.LoadRegistryFrom(path)
	if err != nil {
		return "", nil, err
	}
	return path, registry, nil
}

func describeCamera(cam *config.Camera) string {
	scheme := "https"
	if !cam.UseSSL() {
		scheme = "http"
	}
	parts := []string{fmt.Sprintf("%s://%s:%d", scheme, cam.Host, cam.EffectivePort())}
	if cam.Username != "" {
		parts = append(parts, "user "+cam.Username)
	}
	if cam.SkipVerify {
		parts = append(parts, "skip-verify")
	}
	if !cam.LastSeen.IsZero() {
		parts = append(parts, "seen "+cam.LastSeen.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, ", ")
}

func cameraDetails(cam *config.Camera, isDefault bool) map[string]string {
	details := map[string]string{
		"Host":    cam.Host,
		"Port":    strconv.Itoa(cam.EffectivePort()),
		"HTTPS":   strconv.FormatBool(cam.UseSSL()),
		"Timeout": cam.Timeout().String(),
		"Default": strconv.FormatBool(isDefault),
	}
	if cam.Username != "" {
		details["Username"] = cam.Username
		if os.Getenv(PasswordEnvVar) == "" {
			details["Password"] = "prompted (or set " + PasswordEnvVar + ")"
		}
	}
	return details
}
