package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type WLED firmware advertises
	ServiceType = "_wled._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanWindow is how long a browse listens for announcements
	DefaultScanWindow = 10 * time.Second

	// DefaultPort is the default HTTP port for WLED controllers
	DefaultPort = 80
)

// Scanner handles mDNS controller discovery
type Scanner struct {
	// Service is the mDNS service type to browse for
	Service string

	// Domain is the mDNS domain to browse in
	Domain string

	// Window is how long to listen before returning what was heard
	Window time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Service: ServiceType,
		Domain:  ServiceDomain,
		Window:  DefaultScanWindow,
	}
}

// Scan browses the local network for the scan window and returns every
// WLED announcement heard. The same controller answering more than once
// produces multiple records; the registry merge collapses them. Hearing
// nothing is not an error.
func (s *Scanner) Scan(ctx context.Context) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Window)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// zeroconf closes the entries channel once the browse context ends,
	// so draining to completion before returning avoids losing entries
	// that arrive right at the window edge.
	entries := make(chan *zeroconf.ServiceEntry)
	records := make([]Record, 0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			if rec := s.parseServiceEntry(entry); rec != nil {
				records = append(records, *rec)
			}
		}
	}()

	if err := resolver.Browse(ctx, s.Service, s.Domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return records, nil
}

// parseServiceEntry converts a zeroconf service entry to a Record.
// Returns nil for entries that carry no usable identity or address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Record {
	name := strings.TrimSpace(entry.Instance)
	if name == "" {
		return nil
	}

	// Get the network address (prefer IPv4)
	var addr string
	for _, a := range entry.AddrIPv4 {
		addr = a.String()
		break
	}
	if addr == "" && len(entry.AddrIPv6) > 0 {
		addr = entry.AddrIPv6[0].String()
	}
	if addr == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format; WLED advertises its MAC there
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Record{
		Instance:     entry.ServiceInstanceName(),
		Name:         name,
		Addr:         addr,
		Port:         port,
		MAC:          metadata["mac"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
