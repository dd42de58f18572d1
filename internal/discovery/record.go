package discovery

import (
	"fmt"
	"time"

	"github.com/muldoon/wledctl/internal/fleet"
)

// Record represents one WLED controller heard during an mDNS browse.
type Record struct {
	// Instance is the full service instance name as advertised
	// (e.g. "Porch._wled._tcp.local.")
	Instance string

	// Name is the friendly instance name without the service suffix
	// (e.g. "Porch")
	Name string

	// Addr is the controller's network address, IPv4 when available
	Addr string

	// Port is the HTTP port the JSON API listens on (typically 80)
	Port int

	// MAC is the controller's MAC address from the mDNS TXT record,
	// empty when the firmware did not advertise one
	MAC string

	// Metadata contains the remaining mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the announcement was heard
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the record
func (r *Record) String() string {
	return fmt.Sprintf("%s at %s:%d", r.Name, r.Addr, r.Port)
}

// Observation converts the record into the shape the device registry
// merges. The network address is the device identity; everything else
// is refreshable metadata.
func (r *Record) Observation() fleet.Observation {
	return fleet.Observation{
		Key:      r.Addr,
		Name:     r.Name,
		LongName: r.Instance,
		Port:     r.Port,
	}
}

// Observations maps a whole browse result for a registry merge.
func Observations(records []Record) []fleet.Observation {
	out := make([]fleet.Observation, len(records))
	for i := range records {
		out[i] = records[i].Observation()
	}
	return out
}
