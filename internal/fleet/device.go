package fleet

// DefaultGroup is the group every device belongs to until assigned elsewhere.
// It sorts ahead of all named groups in the display ordering.
const DefaultGroup = "_default"

// TriState records a cached boolean read from a controller. The zero value is
// Unknown: nothing has been observed yet, which is distinct from off.
type TriState int

const (
	Unknown TriState = iota
	Off
	On
)

// String returns the state in lowercase for logs.
func (s TriState) String() string {
	switch s {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// FromBool converts an observed boolean into a TriState.
func FromBool(on bool) TriState {
	if on {
		return On
	}
	return Off
}

// SyncState caches what is known about a controller's UDP sync settings.
// Masks are nil until a sync command succeeds or a state query reports them.
type SyncState struct {
	Enabled  TriState
	SendMask *uint8
	RecvMask *uint8
}

// Device is one controller in the fleet. The IP address is its identity:
// controllers renamed in their web UI keep their history here, while a
// controller moved to a new address is a new device.
type Device struct {
	Key      string // IP address, identity across scans
	Name     string // friendly name, the mDNS instance minus the service suffix
	LongName string // full mDNS instance name
	Port     int    // HTTP port, almost always 80

	Group string // user-assigned group label
	Index int    // position in the display ordering, assigned by reindexing

	// Cached state, updated only by confirmed observations
	Power TriState
	Sync  SyncState
}

// Observation is what one discovery pass reports about a single controller.
type Observation struct {
	Key      string
	Name     string
	LongName string
	Port     int
}
