// Package config stores named IP Webcam cameras and CLI preferences.
//
// The registry is a YAML file holding connection parameters for each saved
// camera (host, port, username, HTTPS and timeout) plus preferences such as
// the default camera, output format and dashboard refresh interval.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ipcam/config.yaml or $HOME/.config/ipcam/config.yaml
//   - macOS: $HOME/.config/ipcam/config.yaml
//   - Windows: %LOCALAPPDATA%\ipcam\config.yaml
//
// # Security
//
// Passwords are never written to the registry. The CLI takes them from a
// flag, the IPCAM_PASSWORD environment variable or an interactive prompt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ssl := false
//	if err := registry.SetCamera("door", &config.Camera{Host: "192.168.1.20", SSL: &ssl}); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Writes go through a temporary file and a rename, serialized by a package mutex.
package config
