// Package wled provides an HTTP client for the WLED JSON API.
//
// This package implements the slice of the WLED API that bulk fleet control
// needs: power, UDP sync settings, reboot, and the state/info documents. It
// also carries the small codecs that belong to the protocol: the sync group
// bitmask format and dot-path field extraction from state documents.
//
// # Transport
//
// One Transport is shared across all controllers; per-device state lives in
// the Endpoint argument. Every method issues exactly one HTTP request, so the
// retry policy stays with the caller (the dispatch executor drives retries
// per device):
//
//	transport := wled.NewTransport(2 * time.Second)
//	ep := wled.Endpoint{Host: "192.168.1.42", Port: 80}
//
//	if err := transport.SetPower(ctx, ep, true); err != nil {
//	    fmt.Println(wled.GetShortErrorMessage(err))
//	}
//
//	state, err := transport.State(ctx, ep)
//	if err == nil {
//	    on, _ := state.Bool("on")
//	    fmt.Println("power:", on)
//	}
//
// # Documents
//
// State and info responses decode into Document, a free-form JSON object.
// Fields are addressed by dot paths with optional list indices, so firmware
// differences never break decoding:
//
//	bri, ok := state.Field("seg[0].bri")
//
// # Sync Group Masks
//
// WLED addresses its eight UDP sync groups as a bitmask. ParseGroupMask and
// FormatGroupMask convert between the user-facing "1,3,5" form and the wire
// byte:
//
//	mask, err := wled.ParseGroupMask("1,3,5") // 0b00010101
//
// # Live Watch
//
// Watch streams state documents over the controller's /ws endpoint until the
// context ends, reporting every state change regardless of source.
//
// # Error Handling
//
// All failures return *DeviceError with a classified Type and a Retryable
// flag. Callers decide retry policy with IsRetryable and render failures
// with GetShortErrorMessage or GetTroubleshootingHint.
package wled
