package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/ipcam/internal/monitor"
	"github.com/muurk/ipcam/internal/ui"
	"github.com/muurk/ipcam/pkg/ipcam"
)

// Command flags
var (
	showAvailable   bool
	videoCodec      string
	audioCodec      string
	recordTag       string
	watchInterval   int
	watchPlainCount int
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sensorsCmd)
	rootCmd.AddCommand(sensorCmd)
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(torchCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(zoomCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(orientationCmd)
	rootCmd.AddCommand(sceneModeCmd)
	rootCmd.AddCommand(watchCmd)

	for _, sw := range switches {
		rootCmd.AddCommand(newSwitchCmd(sw))
	}

	statusCmd.Flags().BoolVarP(&showAvailable, "available", "a", false, "Also list the allowed values of each setting")
	urlsCmd.Flags().StringVar(&videoCodec, "video", string(ipcam.DefaultVideoCodec), "RTSP video codec (jpeg, h264)")
	urlsCmd.Flags().StringVar(&audioCodec, "audio", string(ipcam.DefaultAudioCodec), "RTSP audio codec (ulaw, alaw, pcm, opus, aac)")
	recordCmd.Flags().StringVar(&recordTag, "tag", "", "Tag added to the recording file name")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "Refresh interval in seconds (default: registry preference, 2)")
	watchCmd.Flags().IntVar(&watchPlainCount, "count", 0, "Print N refreshes as plain text instead of the dashboard")
}

// statusCmd shows current settings
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current camera settings",
	Long: `Fetch status.json from the camera and list every current setting.

String values are shown the way they are interpreted: "on"/"off" as
switches, numeric strings as numbers, and everything else as text.`,
	Example: `  # Default camera from the registry
  ipcam-cfg status

  # Direct connection over plain HTTP, with allowed values
  ipcam-cfg status --host 192.168.1.20 --ssl=false --available

  # JSON for scripting
  ipcam-cfg status --format json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	conn, client, err := openCamera(cmd)
	if err != nil {
		return err
	}
	if err := client.Update(cmd.Context()); err != nil {
		return fmt.Errorf("failed to refresh %s: %w", conn.label(), err)
	}
	conn.touch()

	switch formatFor(cmd, conn) {
	case formatJSON:
		out := map[string]any{"settings": client.CurrentSettings()}
		if showAvailable {
			out["available"] = client.AvailableSettings()
		}
		return printJSON(cmd, out)
	case formatCompact:
		fmt.Fprint(cmd.OutOrStdout(), client.FormatSettings(showAvailable))
	default:
		printHeader(cmd, "Camera Status", conn, client)
		rows := make([]ui.Row, 0)
		settings := client.CurrentSettings()
		available := client.AvailableSettings()
		for _, name := range client.EnabledSettings() {
			value := settings[name].String()
			if showAvailable && len(available[name]) > 0 {
				value += "  " + ui.TableOffStyle.Render("["+joinValues(available[name])+"]")
			}
			rows = append(rows, ui.Row{Key: name, Value: value})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderTable("Settings", rows))
	}
	return nil
}

// sensorsCmd lists all sensors
var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "Show the latest sensor readings",
	Long: `Fetch sensors.json from the camera and list the latest reading of each
enabled sensor with its unit. Sensors must be enabled in the app's
data logging settings.`,
	Args: cobra.NoArgs,
	RunE: runSensors,
}

type sensorOutput struct {
	Unit   string        `json:"unit"`
	Value  *ipcam.Value  `json:"value,omitempty"`
	Values []ipcam.Value `json:"values,omitempty"`
}

func runSensors(cmd *cobra.Command, args []string) error {
	conn, client, err := openCamera(cmd)
	if err != nil {
		return err
	}
	if err := client.Update(cmd.Context()); err != nil {
		return fmt.Errorf("failed to refresh %s: %w", conn.label(), err)
	}
	conn.touch()

	switch formatFor(cmd, conn) {
	case formatJSON:
		out := make(map[string]sensorOutput)
		for _, name := range client.EnabledSensors() {
			out[name] = sensorJSON(client, name)
		}
		return printJSON(cmd, out)
	case formatCompact:
		fmt.Fprint(cmd.OutOrStdout(), client.FormatSensors())
	default:
		printHeader(cmd, "Camera Sensors", conn, client)
		rows := make([]ui.Row, 0)
		for _, name := range client.EnabledSensors() {
			rows = append(rows, ui.Row{Key: name, Value: client.FormatSensor(name)})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderTable("Sensors", rows))
	}
	return nil
}

func sensorJSON(client *ipcam.Client, name string) sensorOutput {
	var out sensorOutput
	out.Unit, _ = client.SensorUnit(name)
	if value, ok := client.SensorValue(name); ok {
		out.Value = &value
	}
	out.Values, _ = client.SensorValues(name)
	return out
}

// sensorCmd shows one sensor
var sensorCmd = &cobra.Command{
	Use:     "sensor <name>",
	Short:   "Show the latest reading of one sensor",
	Example: `  ipcam-cfg sensor battery_level`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, client, err := openCamera(cmd)
		if err != nil {
			return err
		}
		if err := client.Update(cmd.Context()); err != nil {
			return fmt.Errorf("failed to refresh %s: %w", conn.label(), err)
		}
		conn.touch()

		name := args[0]
		if _, ok := client.SensorValues(name); !ok {
			return fmt.Errorf("sensor %q has no data (enabled: %s)", name, strings.Join(client.EnabledSensors(), ", "))
		}

		if formatFor(cmd, conn) == formatJSON {
			return printJSON(cmd, sensorJSON(client, name))
		}
		fmt.Fprintln(cmd.OutOrStdout(), client.FormatSensor(name))
		return nil
	},
}

// urlsCmd prints stream URLs without contacting the camera
var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print stream and snapshot URLs",
	Long: `Print the MJPEG, snapshot, audio and RTSP URLs of the camera.

No request is made. Credentials are embedded in the RTSP URL when a
username is configured.`,
	Example: `  # VLC-friendly RTSP stream
  ipcam-cfg urls --video h264 --audio aac`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		video := ipcam.VideoCodec(videoCodec)
		if err := ipcam.ValidateVideoCodec(video); err != nil {
			return err
		}
		audio := ipcam.AudioCodec(audioCodec)
		if err := ipcam.ValidateAudioCodec(audio); err != nil {
			return err
		}

		conn, client, err := openCamera(cmd)
		if err != nil {
			return err
		}

		urls := map[string]string{
			"base":       client.BaseURL(),
			"mjpeg":      client.MJPEGURL(),
			"image":      client.ImageURL(),
			"audio_wav":  client.AudioWAVURL(),
			"audio_aac":  client.AudioAACURL(),
			"audio_opus": client.AudioOpusURL(),
			"rtsp":       client.RTSPURL(video, audio),
			"h264":       client.H264URL(),
		}

		switch formatFor(cmd, conn) {
		case formatJSON:
			return printJSON(cmd, urls)
		case formatCompact:
			fmt.Fprint(cmd.OutOrStdout(), client.FormatURLs(video, audio))
		default:
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderTable("Stream URLs", ui.RowsFromMap(urls)))
		}
		return nil
	},
}

// setCmd changes an arbitrary setting
var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change any camera setting",
	Long: `Send /settings/<key>?set=<value> to the camera.

The value is sent exactly as typed; use 'status --available' to see
which keys and values the camera accepts.`,
	Example: `  ipcam-cfg set night_vision_gain 2.5
  ipcam-cfg set photo_size 1920x1080`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		return runCommand(cmd, fmt.Sprintf("%s set to %s", key, value), func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.ChangeSetting(ctx, key, value)
		})
	},
}

var torchCmd = &cobra.Command{
	Use:       "torch on|off",
	Short:     "Switch the LED torch",
	Args:      onOffArgs,
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on := args[0] == "on"
		return runCommand(cmd, "Torch "+args[0], func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.Torch(ctx, on)
		})
	},
}

var focusCmd = &cobra.Command{
	Use:       "focus on|off",
	Short:     "Trigger autofocus or release focus",
	Args:      onOffArgs,
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on := args[0] == "on"
		return runCommand(cmd, "Focus "+args[0], func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.Focus(ctx, on)
		})
	},
}

var recordCmd = &cobra.Command{
	Use:       "record start|stop",
	Short:     "Start or stop video recording",
	Example:   `  ipcam-cfg record start --tag driveway`,
	ValidArgs: []string{"start", "stop"},
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		if args[0] != "start" && args[0] != "stop" {
			return fmt.Errorf("invalid argument %q (use start or stop)", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := args[0] == "start"
		title := "Recording stopped"
		if start {
			title = "Recording started"
		}
		return runCommand(cmd, title, func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.Record(ctx, start, recordTag)
		})
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom <level>",
	Short: "Set the zoom level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zoom, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid zoom value: %w", err)
		}
		return runCommand(cmd, fmt.Sprintf("Zoom set to %d", zoom), func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.SetZoom(ctx, zoom)
		})
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality <0-100>",
	Short: "Set the video quality",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quality, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid quality value: %w", err)
		}
		if err := ipcam.ValidateQuality(quality); err != nil {
			return err
		}
		return runCommand(cmd, fmt.Sprintf("Quality set to %d", quality), func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.SetQuality(ctx, quality)
		})
	},
}

var orientationCmd = &cobra.Command{
	Use:       "orientation <orientation>",
	Short:     "Set the video orientation",
	Long:      "Set the video orientation: " + strings.Join(ipcam.AllowedOrientations, ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: ipcam.AllowedOrientations,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ipcam.ValidateOrientation(args[0]); err != nil {
			return err
		}
		return runCommand(cmd, "Orientation set to "+args[0], func(ctx context.Context, client *ipcam.Client) (bool, error) {
			return client.SetOrientation(ctx, args[0])
		})
	},
}

var sceneModeCmd = &cobra.Command{
	Use:   "scenemode <mode>",
	Short: "Set the scene mode",
	Long: `Set the camera scene mode.

The allowed modes depend on the phone; they are read from the camera
before the change is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "Scene mode set to "+args[0], func(ctx context.Context, client *ipcam.Client) (bool, error) {
			if err := client.Update(ctx); err != nil {
				return false, fmt.Errorf("failed to read allowed scene modes: %w", err)
			}
			return client.SetSceneMode(ctx, args[0])
		})
	},
}

// cameraSwitch is an on/off setting exposed as its own command
type cameraSwitch struct {
	use   string
	short string
	label string
	set   func(c *ipcam.Client, ctx context.Context, on bool) (bool, error)
}

var switches = []cameraSwitch{
	{"ffc", "Switch to the front-facing camera", "Front camera", (*ipcam.Client).SetFrontFacingCamera},
	{"night-vision", "Switch night vision", "Night vision", (*ipcam.Client).SetNightVision},
	{"overlay", "Switch the video overlay", "Overlay", (*ipcam.Client).SetOverlay},
	{"gps", "Switch GPS", "GPS", (*ipcam.Client).SetGPSActive},
	{"motion-detect", "Switch motion detection", "Motion detection", (*ipcam.Client).SetMotionDetect},
}

func newSwitchCmd(sw cameraSwitch) *cobra.Command {
	return &cobra.Command{
		Use:       sw.use + " on|off",
		Short:     sw.short,
		Args:      onOffArgs,
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on := args[0] == "on"
			return runCommand(cmd, sw.label+" "+args[0], func(ctx context.Context, client *ipcam.Client) (bool, error) {
				return sw.set(client, ctx, on)
			})
		},
	}
}

// watchCmd runs the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of settings and sensors",
	Long: `Poll the camera and show settings and sensor readings as they change.

Keys: t torch, f focus, r record, n night vision, o overlay,
m motion detect, +/- zoom, ? help, q quit.

With --count, or when stdout is not a terminal, refreshes are printed as
plain text instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, client, err := openCamera(cmd)
		if err != nil {
			return err
		}
		interval := refreshInterval(conn, watchInterval)

		if watchPlainCount > 0 || !ui.IsTerminal() {
			return watchPlain(cmd, conn, client, interval, watchPlainCount)
		}
		defer conn.touch()
		return monitor.Run(cmd.Context(), client, conn.label(), interval)
	},
}

// runCommand executes a switch-style command and reports the camera's acknowledgement
func runCommand(cmd *cobra.Command, title string, do func(ctx context.Context, client *ipcam.Client) (bool, error)) error {
	conn, client, err := openCamera(cmd)
	if err != nil {
		return err
	}

	ok, err := do(cmd.Context(), client)
	if err != nil {
		return err
	}
	conn.touch()

	switch formatFor(cmd, conn) {
	case formatJSON:
		return printJSON(cmd, map[string]any{"camera": conn.label(), "action": title, "acknowledged": ok})
	case formatCompact:
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "? %s (not acknowledged)\n", title)
		}
	default:
		details := map[string]string{"Camera": conn.label(), "URL": client.BaseURL()}
		if ok {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccess(title, details))
		} else {
			details["Reply"] = "camera did not answer Ok"
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderWarning(title+" (not acknowledged)", details))
		}
	}

	if !ok {
		return fmt.Errorf("%s: camera did not acknowledge the request", conn.label())
	}
	return nil
}

func onOffArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if args[0] != "on" && args[0] != "off" {
		return fmt.Errorf("invalid argument %q (use on or off)", args[0])
	}
	return nil
}

func formatFor(cmd *cobra.Command, conn *connection) string {
	if !cmd.Flags().Changed("format") && conn != nil && conn.registry != nil && conn.registry.Preferences.Format != "" {
		return conn.registry.Preferences.Format
	}
	return outputFormat
}

func printHeader(cmd *cobra.Command, title string, conn *connection, client *ipcam.Client) {
	fmt.Fprintln(cmd.OutOrStdout(), ui.NewHeader(title, cmd.CommandPath(), map[string]string{
		"Camera": conn.label(),
		"URL":    client.BaseURL(),
	}).Render())
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func joinValues(values []ipcam.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
