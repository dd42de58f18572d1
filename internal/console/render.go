package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muldoon/wledctl/internal/dispatch"
	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/probe"
	"github.com/muldoon/wledctl/internal/wled"
)

// Color palette for console output
var (
	primaryColor = lipgloss.Color("#7D56F4") // Purple - group headers, prompt
	successColor = lipgloss.Color("#43BF6D") // Green - ON badges, success
	errorColor   = lipgloss.Color("#FF5555") // Red - failures
	warningColor = lipgloss.Color("#FFA500") // Orange - unknown state, partial failure
	mutedColor   = lipgloss.Color("#626262") // Gray - addresses, hints
)

var (
	groupHeaderStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	badgeOnStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	badgeOffStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	badgeUnknownStyle = lipgloss.NewStyle().Foreground(warningColor)
	addrStyle         = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle        = lipgloss.NewStyle().Foreground(errorColor)
	warnStyle         = lipgloss.NewStyle().Foreground(warningColor)
	successStyle      = lipgloss.NewStyle().Foreground(successColor)
	hintStyle         = lipgloss.NewStyle().Foreground(mutedColor)
	spinnerStyle      = lipgloss.NewStyle().Foreground(primaryColor)
)

// powerBadge renders a device's cached power state as a fixed-width badge.
// Unknown means the state has never been observed, not that it is off.
func powerBadge(s fleet.TriState) string {
	switch s {
	case fleet.On:
		return badgeOnStyle.Render("[ON] ")
	case fleet.Off:
		return badgeOffStyle.Render("[OFF]")
	default:
		return badgeUnknownStyle.Render("[???]")
	}
}

// deviceAddr renders the address a device is reached on, hiding the
// default HTTP port.
func deviceAddr(dev *fleet.Device) string {
	ep := wled.Endpoint{Host: dev.Key, Port: dev.Port}
	return ep.String()
}

// RenderDeviceList renders devices in display order, grouped under
// headers with per-group counts. Devices arrive already sorted by the
// registry, so groups are emitted as they change.
func RenderDeviceList(devices []*fleet.Device) string {
	if len(devices) == 0 {
		return "No WLED devices found. Run 'scan' to search the network."
	}

	counts := make(map[string]int)
	for _, d := range devices {
		counts[strings.ToLower(d.Group)]++
	}

	var b strings.Builder
	lastGroup := ""
	for _, d := range devices {
		group := strings.ToLower(d.Group)
		if group != lastGroup || b.Len() == 0 {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			header := fmt.Sprintf("--- Group: %s (%d) ---", d.Group, counts[group])
			b.WriteString(groupHeaderStyle.Render(header))
			b.WriteString("\n")
			lastGroup = group
		}
		b.WriteString(fmt.Sprintf("%d. %s %s %s\n",
			d.Index, powerBadge(d.Power), d.Name, addrStyle.Render("("+deviceAddr(d)+")")))
	}
	return strings.TrimRight(b.String(), "\n")
}

// outcomeLine renders one device's fate after a bulk command. Failures
// render the short classified message; successes render per operation.
func outcomeLine(op dispatch.Operation, o dispatch.Outcome) string {
	prefix := fmt.Sprintf("%d. %s: ", o.Device.Index, o.Device.Name)
	if o.Err != nil {
		return prefix + errorStyle.Render(wled.GetShortErrorMessage(o.Err))
	}

	switch v := op.(type) {
	case dispatch.PowerOp:
		if v.On {
			return prefix + badgeOnStyle.Render("ON")
		}
		return prefix + badgeOffStyle.Render("OFF")
	case dispatch.SyncEnableOp:
		if v.On {
			return prefix + successStyle.Render("sync ON")
		}
		return prefix + "sync OFF"
	case dispatch.SyncGroupsOp:
		return prefix + fmt.Sprintf("send=%s recv=%s",
			wled.FormatGroupMask(v.Send), wled.FormatGroupMask(v.Recv))
	case dispatch.RebootOp:
		return prefix + "rebooting"
	case probe.Op:
		rtt, _ := o.Doc.Number("rtt_ms")
		loss, _ := o.Doc.Number("loss_pct")
		if loss > 0 {
			return prefix + warnStyle.Render(fmt.Sprintf("reachable, %.0f%% loss, rtt %.1f ms", loss, rtt))
		}
		return prefix + successStyle.Render(fmt.Sprintf("reachable, rtt %.1f ms", rtt))
	default:
		return prefix + op.Describe() + " done"
	}
}

// failureSummary renders the retry hint after a partially failed
// command, or "" when everything succeeded.
func failureSummary(result *dispatch.Result) string {
	failed := len(result.Failed())
	if failed == 0 {
		return ""
	}
	return warnStyle.Render(fmt.Sprintf("%d of %d devices failed; type 'retry' to try them again.",
		failed, len(result.Outcomes)))
}

// renderDocument renders a queried JSON document for one device. With no
// field filter the whole document is pretty-printed. With a filter whose
// values are all scalars everything fits one line; nested values fall
// back to one line per field.
func renderDocument(dev *fleet.Device, doc wled.Document, fields []string) string {
	prefix := fmt.Sprintf("%d. %s:", dev.Index, dev.Name)

	if len(fields) == 0 {
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return prefix + " " + errorStyle.Render(err.Error())
		}
		return prefix + "\n" + string(raw)
	}

	values := make([]any, len(fields))
	scalar := true
	for i, f := range fields {
		v, ok := doc.Field(f)
		if !ok {
			v = nil
		}
		values[i] = v
		switch v.(type) {
		case map[string]any, []any:
			scalar = false
		}
	}

	if scalar {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = fmt.Sprintf("%s=%s", f, marshalValue(values[i]))
		}
		return prefix + " " + strings.Join(parts, ", ")
	}

	var b strings.Builder
	b.WriteString(prefix)
	for i, f := range fields {
		b.WriteString(fmt.Sprintf("\n  %s: %s", f, marshalValue(values[i])))
	}
	return b.String()
}

// marshalValue renders one document value as compact JSON. Paths that
// resolved to nothing render as null, matching what the firmware would
// have sent for an absent optional.
func marshalValue(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// watchLine folds one pushed state document into a single line. WLED
// nests the state under "state" when it pairs it with info on connect;
// plain updates carry "on" at the top level.
func watchLine(dev *fleet.Device, doc wled.Document) string {
	state := stateOf(doc)

	var parts []string
	if on, ok := state.Bool("on"); ok {
		if on {
			parts = append(parts, badgeOnStyle.Render("on"))
		} else {
			parts = append(parts, badgeOffStyle.Render("off"))
		}
	}
	if bri, ok := state.Number("bri"); ok {
		parts = append(parts, fmt.Sprintf("bri=%d", int(bri)))
	}
	if send, ok := state.Bool("udpn.send"); ok {
		parts = append(parts, fmt.Sprintf("sync=%v", send))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", dev.Name, marshalValue(map[string]any(doc)))
	}
	return fmt.Sprintf("%s: %s", dev.Name, strings.Join(parts, " "))
}

// stateOf unwraps the "state" member of a combined state+info push, or
// returns the document itself when it already is a state object.
func stateOf(doc wled.Document) wled.Document {
	if nested, ok := doc.Field("state"); ok {
		if m, ok := nested.(map[string]any); ok {
			return wled.Document(m)
		}
	}
	return doc
}
