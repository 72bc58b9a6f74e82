package ipcam

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeCannotConnect indicates the camera could not be reached (timeout, refused, DNS, ...)
	ErrTypeCannotConnect ErrorType = iota
	// ErrTypeUnauthorized indicates the camera rejected the credentials (HTTP 401)
	ErrTypeUnauthorized
	// ErrTypeHTTP indicates any other non-2xx response
	ErrTypeHTTP
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeValidation indicates a rejected argument; no request was issued
	ErrTypeValidation
)

// NetworkErrorSubtype provides more specific classification of connection failures
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// Sentinel errors usable with errors.Is. A *DeviceError matches the sentinel of its Type.
var (
	ErrCannotConnect = errors.New("cannot connect to camera")
	ErrUnauthorized  = errors.New("incorrect username or password")
	ErrHTTP          = errors.New("unexpected HTTP status")
	ErrParse         = errors.New("malformed camera response")
	ErrValidation    = errors.New("invalid argument")
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeCannotConnect:
		return "Cannot Connect"
	case ErrTypeUnauthorized:
		return "Unauthorized"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

func (et ErrorType) sentinel() error {
	switch et {
	case ErrTypeCannotConnect:
		return ErrCannotConnect
	case ErrTypeUnauthorized:
		return ErrUnauthorized
	case ErrTypeHTTP:
		return ErrHTTP
	case ErrTypeParse:
		return ErrParse
	case ErrTypeValidation:
		return ErrValidation
	default:
		return nil
	}
}

// DeviceError represents an error that occurred while talking to the camera
type DeviceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific connection failure type
	Host           string              // Camera host (for context)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's type
func (e *DeviceError) Is(target error) bool {
	return target != nil && target == e.Type.sentinel()
}

// ClassifyNetworkError turns a transport-level failure into a CannotConnect error
// with the most specific subtype that can be determined.
func ClassifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	devErr := &DeviceError{
		Type:           ErrTypeCannotConnect,
		Message:        "network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		devErr.Message = "request timed out"
		devErr.NetworkSubtype = NetworkErrorTimeout
		return devErr
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		devErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		devErr.NetworkSubtype = NetworkErrorDNS
		return devErr
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			devErr.Message = "camera refused connection"
			devErr.NetworkSubtype = NetworkErrorConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			devErr.Message = "host unreachable"
			devErr.NetworkSubtype = NetworkErrorHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			devErr.Message = "network unreachable"
			devErr.NetworkSubtype = NetworkErrorNetworkUnreachable
		}
	}

	return devErr
}

// NewCannotConnectError creates a connection error with automatic classification.
// The classified message is prefixed with the caller's message.
func NewCannotConnectError(message string, err error, host string) *DeviceError {
	classified := ClassifyNetworkError(err, host)
	if classified == nil {
		return &DeviceError{
			Type:    ErrTypeCannotConnect,
			Message: message,
			Host:    host,
		}
	}
	classified.Message = message + ": " + classified.Message
	return classified
}

// NewUnauthorizedError creates an authentication error
func NewUnauthorizedError(host string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeUnauthorized,
		Message:    "incorrect username or password",
		StatusCode: http.StatusUnauthorized,
		Host:       host,
	}
}

// NewHTTPError creates an error for a non-2xx response other than 401
func NewHTTPError(statusCode int, host string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("code: %d, error: %s", statusCode, http.StatusText(statusCode)),
		StatusCode: statusCode,
		Host:       host,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func deviceErrorOf(err error, t ErrorType) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == t
}

// IsCannotConnect checks if an error is a connection failure
func IsCannotConnect(err error) bool {
	return deviceErrorOf(err, ErrTypeCannotConnect)
}

// IsUnauthorized checks if an error is an authentication failure
func IsUnauthorized(err error) bool {
	return deviceErrorOf(err, ErrTypeUnauthorized)
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	return deviceErrorOf(err, ErrTypeHTTP)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return deviceErrorOf(err, ErrTypeParse)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return deviceErrorOf(err, ErrTypeValidation)
}

// GetTroubleshootingHint returns user-facing advice for an error, one tip per line
func GetTroubleshootingHint(err error) []string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return nil
	}

	switch devErr.Type {
	case ErrTypeUnauthorized:
		return []string{
			"Check the username and password configured in IP Webcam",
			"Pass --username and --password, or set IPCAM_PASSWORD",
		}

	case ErrTypeCannotConnect:
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return []string{
				"Check that the IP Webcam server is running on the phone",
				"Make sure the phone screen-off policy is not suspending the app",
				"Try increasing --timeout",
			}
		case NetworkErrorConnectionRefused:
			return []string{
				"The phone is reachable but nothing is listening on that port",
				"Verify the port shown in the IP Webcam app (default 8080)",
			}
		case NetworkErrorDNS:
			return []string{
				"Use the phone's IP address instead of a hostname",
			}
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return []string{
				"Check that this computer and the phone are on the same network",
				"Try pinging the phone: ping " + devErr.Host,
			}
		default:
			return []string{
				"If the app is not using HTTPS, pass --ssl=false",
				"If the app uses a self-signed certificate, pass --skip-verify",
			}
		}

	case ErrTypeHTTP:
		if devErr.StatusCode == http.StatusNotFound {
			return []string{"This endpoint is not supported by the installed IP Webcam version"}
		}
		return []string{fmt.Sprintf("The camera returned HTTP %d; try restarting the server in the app", devErr.StatusCode)}

	case ErrTypeParse:
		return []string{"The camera returned an unexpected response; check the IP Webcam version"}

	case ErrTypeValidation:
		return []string{strings.TrimSpace(devErr.Message)}
	}

	return nil
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeUnauthorized:
		return "Authentication failed - check credentials"
	case ErrTypeCannotConnect:
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Camera not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Camera refused connection - is the server running?"
		case NetworkErrorDNS:
			return "Cannot resolve camera hostname"
		default:
			return "Cannot connect to camera"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Camera error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse camera response"
	default:
		return devErr.Message
	}
}
