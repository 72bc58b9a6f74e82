// Package ui provides terminal output components for the ipcam-cfg CLI.
//
// These components follow a "run once and exit" pattern: they render
// polished output with Lipgloss but need no interaction beyond simple
// prompts. The live dashboard lives in internal/monitor.
//
//   - Header: banner with the command and camera connection parameters
//   - Result: success, failure and warning boxes; failures carry
//     troubleshooting tips
//   - RenderTable: aligned key/value listing for settings and sensors
//   - Confirm and PromptPassword: stdin prompts
//
// Example:
//
//	fmt.Println(ui.NewHeader("Camera Status", "ipcam-cfg status",
//	    map[string]string{"Camera": "door", "URL": client.BaseURL()}).Render())
//	fmt.Print(ui.RenderTable("Settings", ui.RowsFromMap(settings)))
//
//	if err != nil {
//	    fmt.Println(ui.RenderFailure("Update failed", err, ipcam.GetTroubleshootingHint(err)))
//	}
package ui
