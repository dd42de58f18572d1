// Package config provides user configuration management for wledctl.
//
// This package manages a YAML-based configuration file holding tuning knobs
// for discovery and command dispatch: scan window, HTTP timeout, worker
// concurrency, request pacing, and the retry budget. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/wledctl/config.yaml or $HOME/.config/wledctl/config.yaml
//   - macOS: $HOME/.config/wledctl/config.yaml
//   - Windows: %LOCALAPPDATA%\wledctl\config.yaml
//
// # What Is Not Stored
//
// Device state (addresses, names, groups, cached power) is never written to
// disk. The fleet registry is rebuilt from mDNS discovery on every run, so a
// stale file can never contradict the network.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	scanner := discovery.NewScanner()
//	scanner.Window = settings.ScanWindow()
//	records, err := scanner.Scan(ctx)
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
