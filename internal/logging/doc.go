// Package logging provides structured logging for the ipcam tools.
//
// This package wraps a global zap logger. It is silent by default so that
// command output on stdout stays clean; set IPCAM_LOG_LEVEL (or pass
// --log-level) to see what the client is doing.
//
// # Log Levels
//
//   - Debug: every camera request with its status and latency
//   - Info: registry changes, monitor start/stop
//   - Warn: failed camera requests
//   - Error: fatal CLI failures
//
// # Usage
//
//	if err := logging.Initialize(flagLevel); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	client.SetLogger(logging.Named("camera"))
//
// Logs are written to stderr in console format:
//
//	2026-01-12T10:30:45.123+0100  DEBUG  camera  Camera request
//	  method=GET url=http://192.168.1.20:8080/status.json?show_avail=1 status=200
package logging
