package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ipcam/internal/config"
	"github.com/muurk/ipcam/internal/logging"
	"github.com/muurk/ipcam/internal/ui"
	"github.com/muurk/ipcam/internal/version"
	"github.com/muurk/ipcam/pkg/ipcam"
)

// PasswordEnvVar supplies the camera password without a flag or prompt
const PasswordEnvVar = "IPCAM_PASSWORD"

// Output formats
const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

// Connection flags (persistent on root)
var (
	cameraName     string
	cameraHost     string
	cameraPort     int
	username       string
	password       string
	useSSL         bool
	skipVerify     bool
	timeoutSeconds int
	outputFormat   string
	logLevel       string
	registryFile   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cameraName, "camera", "c", "", "Registered camera name (default: the registry's default camera)")
	flags.StringVar(&cameraHost, "host", "", "Camera host or IP address (skips the registry)")
	flags.IntVarP(&cameraPort, "port", "p", config.DefaultPort, "Camera HTTP port")
	flags.StringVarP(&username, "username", "u", "", "Username configured in IP Webcam")
	flags.StringVar(&password, "password", "", "Password (or set "+PasswordEnvVar+")")
	flags.BoolVar(&useSSL, "ssl", true, "Use HTTPS")
	flags.BoolVar(&skipVerify, "skip-verify", false, "Accept self-signed TLS certificates")
	flags.IntVar(&timeoutSeconds, "timeout", config.DefaultTimeoutSeconds, "Request timeout in seconds")
	flags.StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")
	flags.StringVar(&registryFile, "registry", "", "Camera registry file (default: platform config dir)")
}

// connection is a camera resolved from flags and the registry
type connection struct {
	name     string // registry name, empty for --host
	camera   config.Camera
	registry *config.Registry
	path     string
}

// resolveConnection merges the registry entry with explicitly set flags.
// --host bypasses the registry entirely.
func resolveConnection(cmd *cobra.Command, registryPath string) (*connection, error) {
	flags := cmd.Flags()

	if cameraHost != "" {
		ssl := useSSL
		return &connection{camera: config.Camera{
			Host:           cameraHost,
			Port:           cameraPort,
			Username:       username,
			SSL:            &ssl,
			SkipVerify:     skipVerify,
			TimeoutSeconds: timeoutSeconds,
		}}, nil
	}

	registry, err := config.LoadRegistryFrom(registryPath)
	if err != nil {
		return nil, err
	}
	name, cam, err := registry.ResolveCamera(cameraName)
	if err != nil {
		return nil, err
	}

	conn := &connection{name: name, camera: *cam, registry: registry, path: registryPath}
	if flags.Changed("port") {
		conn.camera.Port = cameraPort
	}
	if flags.Changed("username") {
		conn.camera.Username = username
	}
	if flags.Changed("ssl") {
		ssl := useSSL
		conn.camera.SSL = &ssl
	}
	if flags.Changed("skip-verify") {
		conn.camera.SkipVerify = skipVerify
	}
	if flags.Changed("timeout") {
		conn.camera.TimeoutSeconds = timeoutSeconds
	}
	return conn, nil
}

// client builds the camera client for this connection
func (c *connection) client() (*ipcam.Client, error) {
	httpClient := &http.Client{
		Transport: &userAgentTransport{
			base:      newTransport(c.camera.SkipVerify),
			userAgent: version.UserAgent(),
		},
	}

	client := ipcam.NewClient(httpClient, c.camera.Host, c.camera.EffectivePort())
	client.SetSSL(c.camera.UseSSL())
	client.SetTimeout(c.camera.Timeout())
	client.SetLogger(logging.Named("camera"))

	if c.camera.Username != "" {
		pw, err := resolvePassword(c.camera.Username)
		if err != nil {
			return nil, err
		}
		client.SetAuth(c.camera.Username, pw)
	}
	return client, nil
}

// touch records a successful contact in the registry; failures are only logged
func (c *connection) touch() {
	if c.registry == nil || c.name == "" {
		return
	}
	c.registry.TouchCamera(c.name)
	if err := c.registry.SaveTo(c.path); err != nil {
		logging.Warn("Failed to update registry", zap.String("camera", c.name), zap.Error(err))
	}
}

func (c *connection) label() string {
	if c.name != "" {
		return c.name
	}
	return c.camera.Host
}

func resolvePassword(user string) (string, error) {
	if password != "" {
		return password, nil
	}
	if pw := os.Getenv(PasswordEnvVar); pw != "" {
		return pw, nil
	}
	return ui.PromptPassword(fmt.Sprintf("Password for %s: ", user))
}

func newTransport(skipVerify bool) http.RoundTripper {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if skipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in for self-signed phone certificates
	}
	return transport
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// registryPath returns --registry or the platform default location
func registryPath() (string, error) {
	if registryFile != "" {
		return registryFile, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

// openCamera resolves the connection and builds a client
func openCamera(cmd *cobra.Command) (*connection, *ipcam.Client, error) {
	path, err := registryPath()
	if err != nil {
		return nil, nil, err
	}
	conn, err := resolveConnection(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	client, err := conn.client()
	if err != nil {
		return nil, nil, err
	}
	logging.Debug("Camera resolved",
		zap.String("camera", conn.label()),
		zap.String("url", client.BaseURL()),
		zap.Duration("timeout", conn.camera.Timeout()),
	)
	return conn, client, nil
}

func refreshInterval(conn *connection, flagSeconds int) time.Duration {
	if flagSeconds > 0 {
		return time.Duration(flagSeconds) * time.Second
	}
	if conn.registry != nil {
		return conn.registry.Preferences.RefreshInterval()
	}
	return config.DefaultRefreshSeconds * time.Second
}
