package wled

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyNetworkError_Timeout(t *testing.T) {
	// Create a timeout error
	err := &url.Error{
		Op:  "Post",
		URL: "http://192.168.1.42/json/state",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: &timeoutError{},
		},
	}

	devErr := ClassifyNetworkError(err, "192.168.1.42")

	if devErr == nil {
		t.Fatal("Expected DeviceError, got nil")
	}

	if devErr.Type != ErrTypeTimeout {
		t.Errorf("Expected error type %v, got %v", ErrTypeTimeout, devErr.Type)
	}

	if devErr.NetworkSubtype != NetworkErrorTimeout {
		t.Errorf("Expected network subtype %v, got %v", NetworkErrorTimeout, devErr.NetworkSubtype)
	}

	if !devErr.Retryable {
		t.Error("Expected timeout error to be retryable")
	}
}

func TestClassifyNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://192.168.1.42/json/state",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.ECONNREFUSED,
		},
	}

	devErr := ClassifyNetworkError(err, "192.168.1.42")

	if devErr == nil {
		t.Fatal("Expected DeviceError, got nil")
	}

	if devErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Expected error type %v, got %v", ErrTypeConnectionRefused, devErr.Type)
	}

	if !devErr.Retryable {
		t.Error("Expected connection refused error to be retryable")
	}
}

func TestClassifyNetworkError_DNS(t *testing.T) {
	err := &net.DNSError{
		Err:        "no such host",
		Name:       "porch.local",
		IsNotFound: true,
	}

	devErr := ClassifyNetworkError(err, "porch.local")

	if devErr == nil {
		t.Fatal("Expected DeviceError, got nil")
	}

	if devErr.Type != ErrTypeDNS {
		t.Errorf("Expected error type %v, got %v", ErrTypeDNS, devErr.Type)
	}

	if devErr.Retryable {
		t.Error("Expected DNS error to be non-retryable")
	}
}

func TestClassifyNetworkError_HostUnreachable(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://192.168.1.42/json/state",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.EHOSTUNREACH,
		},
	}

	devErr := ClassifyNetworkError(err, "192.168.1.42")

	if devErr == nil {
		t.Fatal("Expected DeviceError, got nil")
	}

	if devErr.Type != ErrTypeNetwork {
		t.Errorf("Expected error type %v, got %v", ErrTypeNetwork, devErr.Type)
	}

	if devErr.NetworkSubtype != NetworkErrorHostUnreachable {
		t.Errorf("Expected network subtype %v, got %v", NetworkErrorHostUnreachable, devErr.NetworkSubtype)
	}

	if !devErr.Retryable {
		t.Error("Expected host unreachable error to be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name: "network error is retryable",
			err: &DeviceError{
				Type:      ErrTypeNetwork,
				Retryable: true,
			},
			retryable: true,
		},
		{
			name: "validation error is not retryable",
			err: &DeviceError{
				Type:      ErrTypeValidation,
				Retryable: false,
			},
			retryable: false,
		},
		{
			name: "HTTP 500 error is retryable",
			err: &DeviceError{
				Type:       ErrTypeHTTP,
				StatusCode: 500,
				Retryable:  true,
			},
			retryable: true,
		},
		{
			name: "HTTP 404 error is not retryable",
			err: &DeviceError{
				Type:       ErrTypeHTTP,
				StatusCode: 404,
				Retryable:  false,
			},
			retryable: false,
		},
		{
			name: "wrapped device error is still visible",
			err: fmt.Errorf("attempt 2: %w", &DeviceError{
				Type:      ErrTypeTimeout,
				Retryable: true,
			}),
			retryable: true,
		},
		{
			name:      "unknown error is not retryable",
			err:       errors.New("unknown error"),
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedText string
	}{
		{
			name: "timeout error",
			err: &DeviceError{
				Type: ErrTypeTimeout,
			},
			expectedText: "controller not responding (timeout)",
		},
		{
			name: "connection refused",
			err: &DeviceError{
				Type: ErrTypeConnectionRefused,
			},
			expectedText: "connection refused - is the controller rebooting?",
		},
		{
			name: "host unreachable",
			err: &DeviceError{
				Type:           ErrTypeNetwork,
				NetworkSubtype: NetworkErrorHostUnreachable,
			},
			expectedText: "controller unreachable - check power and network",
		},
		{
			name: "HTTP 500",
			err: &DeviceError{
				Type:       ErrTypeHTTP,
				StatusCode: 500,
			},
			expectedText: "controller error (HTTP 500)",
		},
		{
			name: "validation error passes its message through",
			err: &DeviceError{
				Type:    ErrTypeValidation,
				Message: "sync group 9 out of range (want 1-8)",
			},
			expectedText: "sync group 9 out of range (want 1-8)",
		},
		{
			name:         "plain error passes through",
			err:          errors.New("something else"),
			expectedText: "something else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetShortErrorMessage(tt.err)
			if got != tt.expectedText {
				t.Errorf("GetShortErrorMessage() = %q, want %q", got, tt.expectedText)
			}
		})
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedTexts []string
	}{
		{
			name: "timeout error",
			err: &DeviceError{
				Type: ErrTypeTimeout,
			},
			expectedTexts: []string{
				"did not respond in time",
				"Troubleshooting:",
				"powered on",
			},
		},
		{
			name: "host unreachable includes ping hint",
			err: &DeviceError{
				Type:           ErrTypeNetwork,
				NetworkSubtype: NetworkErrorHostUnreachable,
				DeviceAddr:     "192.168.1.42",
			},
			expectedTexts: []string{
				"ping 192.168.1.42",
				"rescan",
			},
		},
		{
			name: "HTTP 500 suggests reboot",
			err: &DeviceError{
				Type:       ErrTypeHTTP,
				StatusCode: 500,
			},
			expectedTexts: []string{
				"HTTP 500",
				"rebooting the controller",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := GetTroubleshootingHint(tt.err)

			for _, expectedText := range tt.expectedTexts {
				if !strings.Contains(hint, expectedText) {
					t.Errorf("GetTroubleshootingHint() missing expected text %q\nGot: %s", expectedText, hint)
				}
			}
		})
	}
}

func TestNewHTTPError_RetryableForServerErrors(t *testing.T) {
	// HTTP 5xx errors should be retryable
	err500 := NewHTTPError(500, "Internal Server Error")
	if !err500.Retryable {
		t.Error("Expected HTTP 500 error to be retryable")
	}

	// HTTP 4xx errors should not be retryable
	err404 := NewHTTPError(404, "Not Found")
	if err404.Retryable {
		t.Error("Expected HTTP 404 error to be non-retryable")
	}
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeParse, "Parse Error"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeDNS, "DNS Error"},
		{ErrTypeUnknown, "Unknown Error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.errorType.String(); got != tt.expected {
				t.Errorf("ErrorType.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// timeoutError is a mock error that implements timeout behavior
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
