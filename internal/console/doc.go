// Package console implements the interactive command loop of wledctl.
//
// The console owns the pieces one session needs: the fleet registry,
// the dispatch executor, the retry session, the device transport, and
// the mDNS scanner. It scans once on startup, then reads line commands
// until the user quits. An empty line redisplays the grouped device
// listing; Ctrl-C cancels the command in flight instead of killing the
// process.
//
// # Command Surface
//
// Bulk commands (on, off, reboot, sync, syncgroups, power, state, info,
// ping) take a device selector, run through the executor, and record
// their failures so 'retry' can replay exactly the devices that missed.
// Local commands (group, list, retries) reshape the session without
// touching the network. 'id' walks the selection lighting one device at
// a time, 'watch' streams live state from a single device over its
// websocket, and 'ui' opens a device's web interface in the browser.
//
// # Rendering
//
// Output is styled with lipgloss: grouped device listings with power
// badges, per-device outcome lines after bulk commands, and a
// field-filtered JSON view for state and info queries. The timed scan
// window is animated with a bubbletea spinner and progress bar when
// stdout is a terminal, and degrades to a plain status line when it is
// not.
package console
