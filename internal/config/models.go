package config

import "time"

// Settings represents the entire user configuration file.
// It stores tuning knobs for discovery and command dispatch. Device state is
// deliberately not persisted; the fleet is rebuilt from the network each run.
type Settings struct {
	Version   int        `yaml:"version"`
	Discovery *Discovery `yaml:"discovery,omitempty"`
	Transport *Transport `yaml:"transport,omitempty"`
	Execution *Execution `yaml:"execution,omitempty"`
}

// Discovery holds mDNS scan preferences.
type Discovery struct {
	Service        string `yaml:"service"`         // mDNS service type to browse
	Domain         string `yaml:"domain"`          // mDNS domain, almost always "local."
	TimeoutSeconds int    `yaml:"timeout_seconds"` // scan window length
}

// Transport holds HTTP client tuning for device calls.
type Transport struct {
	TimeoutMS         int     `yaml:"timeout_ms"`          // per-request timeout
	Concurrency       int     `yaml:"concurrency"`         // max devices worked on at once per command
	RequestsPerSecond float64 `yaml:"requests_per_second"` // global pacing across workers, 0 disables
}

// Execution holds retry behaviour for bulk commands.
type Execution struct {
	Retries      int `yaml:"retries"`        // extra attempts per device after the first
	RetryDelayMS int `yaml:"retry_delay_ms"` // pause between attempts on the same device
}

// Defaults chosen to match stock WLED controllers: they answer quickly when
// healthy but fall over under more than a handful of simultaneous requests.
const (
	DefaultService           = "_wled._tcp"
	DefaultDomain            = "local."
	DefaultScanSeconds       = 10
	DefaultTimeoutMS         = 2000
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 16.0
	DefaultRetries           = 2
	DefaultRetryDelayMS      = 100
)

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Discovery: &Discovery{
			Service:        DefaultService,
			Domain:         DefaultDomain,
			TimeoutSeconds: DefaultScanSeconds,
		},
		Transport: &Transport{
			TimeoutMS:         DefaultTimeoutMS,
			Concurrency:       DefaultConcurrency,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Execution: &Execution{
			Retries:      DefaultRetries,
			RetryDelayMS: DefaultRetryDelayMS,
		},
	}
}

// normalize fills in any sections or fields missing from a loaded file so
// callers never have to nil-check.
func (s *Settings) normalize() {
	if s.Discovery == nil {
		s.Discovery = &Discovery{}
	}
	if s.Discovery.Service == "" {
		s.Discovery.Service = DefaultService
	}
	if s.Discovery.Domain == "" {
		s.Discovery.Domain = DefaultDomain
	}
	if s.Discovery.TimeoutSeconds <= 0 {
		s.Discovery.TimeoutSeconds = DefaultScanSeconds
	}
	if s.Transport == nil {
		s.Transport = &Transport{}
	}
	if s.Transport.TimeoutMS <= 0 {
		s.Transport.TimeoutMS = DefaultTimeoutMS
	}
	if s.Transport.Concurrency <= 0 {
		s.Transport.Concurrency = DefaultConcurrency
	}
	if s.Transport.RequestsPerSecond < 0 {
		s.Transport.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if s.Execution == nil {
		s.Execution = &Execution{
			Retries:      DefaultRetries,
			RetryDelayMS: DefaultRetryDelayMS,
		}
	}
	if s.Execution.Retries < 0 {
		s.Execution.Retries = 0
	}
	if s.Execution.RetryDelayMS <= 0 {
		s.Execution.RetryDelayMS = DefaultRetryDelayMS
	}
}

// ScanWindow returns the discovery timeout as a duration.
func (s *Settings) ScanWindow() time.Duration {
	return time.Duration(s.Discovery.TimeoutSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout as a duration.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.Transport.TimeoutMS) * time.Millisecond
}

// RetryDelay returns the pause between attempts on the same device.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.Execution.RetryDelayMS) * time.Millisecond
}
