package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ipcam/internal/logging"
	"github.com/muurk/ipcam/pkg/ipcam"
)

// watchPlain prints count refreshes (0 = until interrupted) as text or JSON lines.
// Failed refreshes are reported and polling continues.
func watchPlain(cmd *cobra.Command, conn *connection, client *ipcam.Client, interval time.Duration, count int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	format := formatFor(cmd, conn)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; count == 0 || i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		now := time.Now()
		err := client.Update(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if format == formatJSON {
			line := map[string]any{
				"time":      now.Format(time.RFC3339),
				"available": client.Available(),
				"settings":  client.CurrentSettings(),
			}
			sensors := make(map[string]sensorOutput)
			for _, name := range client.EnabledSensors() {
				sensors[name] = sensorJSON(client, name)
			}
			line["sensors"] = sensors
			if err != nil {
				line["error"] = err.Error()
			}
			data, _ := json.Marshal(line)
			fmt.Fprintln(out, string(data))
			continue
		}

		fmt.Fprintf(out, "--- %s  %s ---\n", conn.label(), now.Format("15:04:05"))
		if err != nil {
			logging.Warn("Refresh failed", zap.String("camera", conn.label()), zap.Error(err))
			fmt.Fprintf(out, "✗ %s\n", ipcam.GetShortErrorMessage(err))
			continue
		}
		conn.touch()
		fmt.Fprint(out, client.FormatSettings(false))
		fmt.Fprint(out, client.FormatSensors())
	}
	return nil
}
