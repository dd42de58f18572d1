package wled

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muldoon/wledctl/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout. WLED controllers
	// answer in tens of milliseconds when healthy; anything past this is a
	// problem worth reporting, not waiting on.
	DefaultTimeout = 2 * time.Second

	statePath = "/json/state"
	infoPath  = "/json/info"
)

// Endpoint identifies one controller's HTTP interface.
type Endpoint struct {
	Host string
	Port int
}

// String returns the host:port form used in logs and error messages.
func (e Endpoint) String() string {
	if e.Port == 0 || e.Port == 80 {
		return e.Host
	}
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// base returns the http base URL for the endpoint.
func (e Endpoint) base() string {
	return "http://" + e.String()
}

// Transport is an HTTP client for the WLED JSON API. One Transport is shared
// by all devices; per-call state lives in the arguments. Every method issues
// exactly one request so the caller stays in charge of retry policy.
type Transport struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewTransport creates a transport with the given per-request timeout.
// A timeout of 0 uses DefaultTimeout.
func NewTransport(timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// stateBody is the subset of the WLED state object this tool writes.
// Pointer fields are omitted when nil so each command posts only the keys
// it means to change.
type stateBody struct {
	On     *bool     `json:"on,omitempty"`
	UDPN   *udpnBody `json:"udpn,omitempty"`
	Reboot bool      `json:"rb,omitempty"`
}

// udpnBody addresses the controller's UDP realtime sync settings.
type udpnBody struct {
	Send       *bool  `json:"send,omitempty"`
	Recv       *bool  `json:"recv,omitempty"`
	SendGroups *uint8 `json:"sgrp,omitempty"`
	RecvGroups *uint8 `json:"rgrp,omitempty"`
}

// SetPower turns the controller's output on or off.
func (t *Transport) SetPower(ctx context.Context, ep Endpoint, on bool) error {
	return t.postState(ctx, ep, &stateBody{On: &on})
}

// SetSyncEnabled enables or disables UDP sync send and receive together.
func (t *Transport) SetSyncEnabled(ctx context.Context, ep Endpoint, on bool) error {
	return t.postState(ctx, ep, &stateBody{UDPN: &udpnBody{Send: &on, Recv: &on}})
}

// SetSyncGroups sets the send and receive sync group bitmasks.
func (t *Transport) SetSyncGroups(ctx context.Context, ep Endpoint, send, recv uint8) error {
	return t.postState(ctx, ep, &stateBody{UDPN: &udpnBody{SendGroups: &send, RecvGroups: &recv}})
}

// Reboot asks the controller to restart. The controller often drops the
// connection before answering; callers should treat a successful POST as done.
func (t *Transport) Reboot(ctx context.Context, ep Endpoint) error {
	return t.postState(ctx, ep, &stateBody{Reboot: true})
}

// State retrieves the controller's current state document.
func (t *Transport) State(ctx context.Context, ep Endpoint) (Document, error) {
	return t.getJSON(ctx, ep, statePath)
}

// Info retrieves the controller's info document (version, LED counts, uptime).
func (t *Transport) Info(ctx context.Context, ep Endpoint) (Document, error) {
	return t.getJSON(ctx, ep, infoPath)
}

// postState sends a partial state update to /json/state.
func (t *Transport) postState(ctx context.Context, ep Endpoint, body *stateBody) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewParseError("failed to encode state update", err)
	}

	logging.Debug("posting state update",
		zap.String("device", ep.String()),
		zap.ByteString("body", payload),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.base()+statePath, bytes.NewReader(payload))
	if err != nil {
		return NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return classifyWithAddr(err, ep)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("state update failed with status %d", resp.StatusCode))
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// getJSON fetches a JSON document from the controller.
func (t *Transport) getJSON(ctx context.Context, ep Endpoint, path string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.base()+path, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyWithAddr(err, ep)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}

	return doc, nil
}

// classifyWithAddr classifies a transport error and stamps the device address.
func classifyWithAddr(err error, ep Endpoint) *DeviceError {
	return ClassifyNetworkError(err, ep.String())
}
