// Package discovery provides mDNS-based discovery of WLED controllers.
//
// WLED firmware advertises an "_wled._tcp" service on the local network.
// A Scanner browses that service type for a fixed window and reports every
// announcement it heard as a Record.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_wled._tcp" advertisements for the scan window
//  3. Collects instance name, address, port, and TXT metadata per answer
//  4. Returns the collected records once the window closes
//
// An empty result is a normal outcome, not an error. Controllers may
// answer more than once inside one window; callers merge the records
// into the device registry, which collapses duplicates by address.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Window = 5 * time.Second
//	records, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.Merge(discovery.Observations(records))
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Controllers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
