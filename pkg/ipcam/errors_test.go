package ipcam

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

// timeoutError implements net.Error with Timeout() = true
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		subtype NetworkErrorSubtype
	}{
		{
			name:    "deadline",
			err:     &url.Error{Op: "Get", URL: "http://1.2.3.4:8080/", Err: context.DeadlineExceeded},
			subtype: NetworkErrorTimeout,
		},
		{
			name:    "net timeout",
			err:     &url.Error{Op: "Get", URL: "http://1.2.3.4:8080/", Err: &net.OpError{Op: "dial", Net: "tcp", Err: &timeoutError{}}},
			subtype: NetworkErrorTimeout,
		},
		{
			name:    "refused",
			err:     &url.Error{Op: "Get", URL: "http://1.2.3.4:8080/", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
			subtype: NetworkErrorConnectionRefused,
		},
		{
			name:    "host unreachable",
			err:     &net.OpError{Op: "dial", Net: "tcp", Err: syscall.EHOSTUNREACH},
			subtype: NetworkErrorHostUnreachable,
		},
		{
			name:    "network unreachable",
			err:     &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ENETUNREACH},
			subtype: NetworkErrorNetworkUnreachable,
		},
		{
			name:    "dns",
			err:     &net.DNSError{Err: "no such host", Name: "phone.local", IsNotFound: true},
			subtype: NetworkErrorDNS,
		},
		{
			name:    "other",
			err:     errors.New("connection reset by peer"),
			subtype: NetworkErrorGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devErr := ClassifyNetworkError(tt.err, "1.2.3.4")
			if devErr == nil {
				t.Fatal("expected DeviceError, got nil")
			}
			if devErr.Type != ErrTypeCannotConnect {
				t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeCannotConnect)
			}
			if devErr.NetworkSubtype != tt.subtype {
				t.Errorf("NetworkSubtype = %v, want %v", devErr.NetworkSubtype, tt.subtype)
			}
			if !errors.Is(devErr, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestDeviceError_Predicates(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		check    func(error) bool
	}{
		{"unauthorized", NewUnauthorizedError("h"), ErrUnauthorized, IsUnauthorized},
		{"cannot connect", NewCannotConnectError("GET failed", errors.New("boom"), "h"), ErrCannotConnect, IsCannotConnect},
		{"http", NewHTTPError(http.StatusInternalServerError, "h"), ErrHTTP, IsHTTPError},
		{"parse", NewParseError("bad", errors.New("eof")), ErrParse, IsParseError},
		{"validation", NewValidationError("nope"), ErrValidation, IsValidationError},
	}

	all := []error{ErrUnauthorized, ErrCannotConnect, ErrHTTP, ErrParse, ErrValidation}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("camera front-door: %w", tt.err)
			if !tt.check(wrapped) {
				t.Error("predicate should match through wrapping")
			}
			if !errors.Is(wrapped, tt.sentinel) {
				t.Error("errors.Is should match the sentinel")
			}
			for _, other := range all {
				if other != tt.sentinel && errors.Is(wrapped, other) {
					t.Errorf("errors.Is matched unrelated sentinel %v", other)
				}
			}
		})
	}

	if IsUnauthorized(errors.New("plain")) || IsCannotConnect(nil) {
		t.Error("predicates must reject non-DeviceErrors")
	}
}

func TestDeviceError_Message(t *testing.T) {
	err := NewHTTPError(http.StatusNotFound, "1.2.3.4")
	if err.Error() != "HTTP Error: code: 404, error: Not Found" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := NewCannotConnectError("GET /status.json failed", errors.New("reset"), "1.2.3.4")
	if !strings.Contains(wrapped.Error(), "GET /status.json failed") || !strings.Contains(wrapped.Error(), "caused by: reset") {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", NewUnauthorizedError("h"), "IPCAM_PASSWORD"},
		{"timeout", &DeviceError{Type: ErrTypeCannotConnect, NetworkSubtype: NetworkErrorTimeout}, "--timeout"},
		{"refused", &DeviceError{Type: ErrTypeCannotConnect, NetworkSubtype: NetworkErrorConnectionRefused}, "8080"},
		{"unreachable", &DeviceError{Type: ErrTypeCannotConnect, NetworkSubtype: NetworkErrorHostUnreachable, Host: "10.0.0.9"}, "ping 10.0.0.9"},
		{"general", &DeviceError{Type: ErrTypeCannotConnect}, "--ssl=false"},
		{"not found", NewHTTPError(http.StatusNotFound, "h"), "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := strings.Join(GetTroubleshootingHint(tt.err), "\n")
			if !strings.Contains(hints, tt.want) {
				t.Errorf("hints = %q, should mention %q", hints, tt.want)
			}
		})
	}

	if GetTroubleshootingHint(errors.New("plain")) != nil {
		t.Error("plain errors have no hints")
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewUnauthorizedError("h"), "Authentication failed - check credentials"},
		{&DeviceError{Type: ErrTypeCannotConnect, NetworkSubtype: NetworkErrorTimeout}, "Camera not responding (timeout)"},
		{NewHTTPError(http.StatusBadGateway, "h"), "Camera error (HTTP 502)"},
		{NewValidationError("invalid orientation"), "invalid orientation"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
