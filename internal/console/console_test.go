package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/muldoon/wledctl/internal/config"
	"github.com/muldoon/wledctl/internal/fleet"
)

func testSettings() *config.Settings {
	s := config.NewSettings()
	s.Transport.TimeoutMS = 500
	s.Transport.RequestsPerSecond = 0
	s.Execution.Retries = 0
	s.Execution.RetryDelayMS = 1
	return s
}

// testConsole builds a console over scripted input and a capture buffer.
func testConsole(t *testing.T, input string) (*Console, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return newConsole(testSettings(), strings.NewReader(input), out), out
}

// deviceServer plays a WLED controller: it records every posted state
// body and answers queries with fixed documents.
type deviceServer struct {
	mu       sync.Mutex
	bodies   []map[string]any
	stateDoc string
	infoDoc  string
}

func (s *deviceServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/json/state":
			body := map[string]any{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode posted body: %v", err)
			}
			s.mu.Lock()
			s.bodies = append(s.bodies, body)
			s.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/json/state":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(s.stateDoc))
		case r.Method == http.MethodGet && r.URL.Path == "/json/info":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(s.infoDoc))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func (s *deviceServer) posts() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// powerSequence extracts the "on" value of every recorded post.
func (s *deviceServer) powerSequence() []bool {
	var seq []bool
	for _, body := range s.posts() {
		if on, ok := body["on"].(bool); ok {
			seq = append(seq, on)
		}
	}
	return seq
}

func portOf(t *testing.T, rawURL string) int {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("test server URL has no port: %v", err)
	}
	return port
}

// seed registers one device. Keys must be distinct yet dialable, so
// tests use "localhost" and "127.0.0.1" to address the same loopback
// servers under two registry identities.
func seed(t *testing.T, c *Console, key, name string, port int) *fleet.Device {
	t.Helper()
	c.registry.Merge([]fleet.Observation{{
		Key:      key,
		Name:     name,
		LongName: name + "._wled._tcp.local.",
		Port:     port,
	}})
	dev, ok := c.registry.Get(key)
	if !ok {
		t.Fatalf("device %s did not register", key)
	}
	return dev
}

func TestExecuteQuitForms(t *testing.T) {
	for _, cmd := range []string{"quit", "exit", "q", "QUIT"} {
		t.Run(cmd, func(t *testing.T) {
			c, out := testConsole(t, "")
			if !c.execute(context.Background(), cmd) {
				t.Errorf("execute(%q) did not request exit", cmd)
			}
			if !strings.Contains(out.String(), "Exiting.") {
				t.Errorf("missing exit message, got %q", out.String())
			}
		})
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	c, out := testConsole(t, "")
	if c.execute(context.Background(), "frobnicate all") {
		t.Fatal("unknown command requested exit")
	}
	if !strings.Contains(out.String(), "Unknown command: frobnicate") {
		t.Errorf("missing unknown command message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Type 'help' for available commands.") {
		t.Errorf("missing help hint, got %q", out.String())
	}
}

func TestExecuteHelp(t *testing.T) {
	c, out := testConsole(t, "")
	if c.execute(context.Background(), "help") {
		t.Fatal("help requested exit")
	}
	for _, want := range []string{"syncgroups", "Selectors:", "retry ", "watch <index>"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestUsageAndValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"on without selector", "on", "Usage: on <selector>"},
		{"off with extra args", "off 0 1", "Usage: off <selector>"},
		{"reboot without selector", "reboot", "Usage: reboot <selector>"},
		{"sync missing mode", "sync 0", "Usage: sync <selector> {on|off}"},
		{"sync bad mode", "sync 0 maybe", "Usage: sync <selector> {on|off}"},
		{"syncgroups keyword order", "syncgroups 0 recv 1 send 2", "Usage: syncgroups <selector> send <groups> recv <groups>"},
		{"syncgroups too short", "syncgroups 0 send 1", "Usage: syncgroups <selector> send <groups> recv <groups>"},
		{"power without selector", "power", "Usage: power <selector>"},
		{"state without selector", "state", "Usage: state <selector> [fields]"},
		{"state extra args", "state 0 on bri", "Usage: state <selector> [fields]"},
		{"info without selector", "info", "Usage: info <selector> [fields]"},
		{"group missing name", "group 0", "Usage: group <selector> <name>"},
		{"id without selector", "id", "Usage: id <selector>"},
		{"ping without selector", "ping", "Usage: ping <selector>"},
		{"watch without index", "watch", "Usage: watch <index>"},
		{"ui without index", "ui", "Usage: ui <index>"},
		{"out of bounds index", "on 99", "out of bounds"},
		{"unknown group", "on porch", "unknown group"},
		{"bad range", "on 3-1", "start exceeds end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := testConsole(t, "")
			// One device so selector errors are about the term, not an
			// empty fleet. Port 1 guarantees a dispatch would fail loudly.
			seed(t, c, "127.0.0.1", "porch_light", 1)

			c.execute(context.Background(), tt.line)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q missing %q", out.String(), tt.want)
			}
		})
	}
}

func TestCommandsAgainstEmptyFleet(t *testing.T) {
	for _, line := range []string{"on all", "state all", "watch 0", "ui 0", "id all"} {
		t.Run(line, func(t *testing.T) {
			c, out := testConsole(t, "")
			c.execute(context.Background(), line)
			if !strings.Contains(out.String(), "no devices known") {
				t.Errorf("output %q missing empty-fleet message", out.String())
			}
		})
	}
}

func TestPowerCommandDispatchesToSelection(t *testing.T) {
	c, out := testConsole(t, "")

	srvDesk := &deviceServer{}
	srvPorch := &deviceServer{}
	desk := seed(t, c, "localhost", "desk_light", portOf(t, srvDesk.start(t).URL))
	porch := seed(t, c, "127.0.0.1", "porch_light", portOf(t, srvPorch.start(t).URL))

	c.execute(context.Background(), "on all")

	for name, srv := range map[string]*deviceServer{"desk": srvDesk, "porch": srvPorch} {
		posts := srv.posts()
		if len(posts) != 1 {
			t.Fatalf("%s server saw %d posts, want 1", name, len(posts))
		}
		if on, ok := posts[0]["on"].(bool); !ok || !on {
			t.Errorf("%s server got body %v, want {\"on\":true}", name, posts[0])
		}
	}

	if desk.Power != fleet.On || porch.Power != fleet.On {
		t.Errorf("cached power = %v/%v, want On/On", desk.Power, porch.Power)
	}

	// desk_light sorts before porch_light, so it holds index 0.
	if !strings.Contains(out.String(), "0. desk_light: ON") {
		t.Errorf("missing desk outcome line in %q", out.String())
	}
	if !strings.Contains(out.String(), "1. porch_light: ON") {
		t.Errorf("missing porch outcome line in %q", out.String())
	}

	if _, _, ok := c.session.Last(); ok {
		t.Error("clean run left retry state behind")
	}
}

func TestPowerCommandSingleIndexLeavesOthersAlone(t *testing.T) {
	c, _ := testConsole(t, "")

	srvDesk := &deviceServer{}
	srvPorch := &deviceServer{}
	seed(t, c, "localhost", "desk_light", portOf(t, srvDesk.start(t).URL))
	seed(t, c, "127.0.0.1", "porch_light", portOf(t, srvPorch.start(t).URL))

	c.execute(context.Background(), "off 1")

	if posts := srvDesk.posts(); len(posts) != 0 {
		t.Errorf("unselected device saw %d posts", len(posts))
	}
	posts := srvPorch.posts()
	if len(posts) != 1 {
		t.Fatalf("selected device saw %d posts, want 1", len(posts))
	}
	if on, ok := posts[0]["on"].(bool); !ok || on {
		t.Errorf("posted body = %v, want {\"on\":false}", posts[0])
	}
}

func TestPartialFailureThenRetry(t *testing.T) {
	c, out := testConsole(t, "")

	srvDesk := &deviceServer{}
	seed(t, c, "localhost", "desk_light", portOf(t, srvDesk.start(t).URL))
	// Port 1 refuses connections immediately.
	porch := seed(t, c, "127.0.0.1", "porch_light", 1)

	c.execute(context.Background(), "on all")

	if !strings.Contains(out.String(), "1 of 2 devices failed; type 'retry' to try them again.") {
		t.Fatalf("missing failure summary in %q", out.String())
	}
	if !strings.Contains(out.String(), "connection refused") {
		t.Errorf("missing classified failure line in %q", out.String())
	}
	if name, failed, ok := c.session.Last(); !ok || name != "on" || failed != 1 {
		t.Fatalf("session state = %q/%d/%v, want on/1/true", name, failed, ok)
	}

	// The controller comes back: point the failed device at a live server.
	srvHealed := &deviceServer{}
	porch.Port = portOf(t, srvHealed.start(t).URL)

	out.Reset()
	c.execute(context.Background(), "retry")

	if !strings.Contains(out.String(), "Retrying 'on' on 1 device(s)") {
		t.Errorf("missing retry banner in %q", out.String())
	}
	if posts := srvHealed.posts(); len(posts) != 1 {
		t.Errorf("healed device saw %d posts, want 1", len(posts))
	}
	if posts := srvDesk.posts(); len(posts) != 1 {
		t.Errorf("already-succeeded device was retried (%d posts)", len(posts))
	}
	if porch.Power != fleet.On {
		t.Errorf("healed device cached power = %v, want On", porch.Power)
	}
	if _, _, ok := c.session.Last(); ok {
		t.Error("successful retry left retry state behind")
	}

	out.Reset()
	c.execute(context.Background(), "retry")
	if !strings.Contains(out.String(), "No previous command to retry.") {
		t.Errorf("second retry should find nothing, got %q", out.String())
	}
}

func TestWholesaleFailurePrintsHint(t *testing.T) {
	c, out := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 1)

	c.execute(context.Background(), "on all")

	if !strings.Contains(out.String(), "Troubleshooting:") {
		t.Errorf("missing troubleshooting hint in %q", out.String())
	}
}

func TestSyncCommandPostsUDPN(t *testing.T) {
	c, _ := testConsole(t, "")
	srv := &deviceServer{}
	dev := seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "sync all on")

	posts := srv.posts()
	if len(posts) != 1 {
		t.Fatalf("saw %d posts, want 1", len(posts))
	}
	udpn, ok := posts[0]["udpn"].(map[string]any)
	if !ok {
		t.Fatalf("posted body %v carries no udpn object", posts[0])
	}
	if send, _ := udpn["send"].(bool); !send {
		t.Errorf("udpn.send = %v, want true", udpn["send"])
	}
	if recv, _ := udpn["recv"].(bool); !recv {
		t.Errorf("udpn.recv = %v, want true", udpn["recv"])
	}
	if dev.Sync.Enabled != fleet.On {
		t.Errorf("cached sync = %v, want On", dev.Sync.Enabled)
	}
}

func TestSyncGroupsCommand(t *testing.T) {
	c, _ := testConsole(t, "")
	srv := &deviceServer{}
	dev := seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "syncgroups all send 1,3 recv 2")

	posts := srv.posts()
	if len(posts) != 1 {
		t.Fatalf("saw %d posts, want 1", len(posts))
	}
	udpn, ok := posts[0]["udpn"].(map[string]any)
	if !ok {
		t.Fatalf("posted body %v carries no udpn object", posts[0])
	}
	if sgrp, _ := udpn["sgrp"].(float64); sgrp != 5 {
		t.Errorf("udpn.sgrp = %v, want 5", udpn["sgrp"])
	}
	if rgrp, _ := udpn["rgrp"].(float64); rgrp != 2 {
		t.Errorf("udpn.rgrp = %v, want 2", udpn["rgrp"])
	}
	if dev.Sync.SendMask == nil || *dev.Sync.SendMask != 5 {
		t.Errorf("cached send mask = %v, want 5", dev.Sync.SendMask)
	}
}

func TestSyncGroupsRejectsBadMaskBeforeDispatch(t *testing.T) {
	c, out := testConsole(t, "")
	srv := &deviceServer{}
	seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "syncgroups all send 9 recv 1")

	if !strings.Contains(out.String(), "out of range") {
		t.Errorf("missing mask validation message in %q", out.String())
	}
	if posts := srv.posts(); len(posts) != 0 {
		t.Errorf("invalid input still reached the device (%d posts)", len(posts))
	}
}

func TestStateQueryFieldFilter(t *testing.T) {
	c, out := testConsole(t, "")
	srv := &deviceServer{
		stateDoc: `{"on":true,"bri":128,"udpn":{"send":false,"recv":true,"sgrp":1,"rgrp":2}}`,
	}
	dev := seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "state all on,bri")

	if !strings.Contains(out.String(), "on=true, bri=128") {
		t.Errorf("missing scalar field line in %q", out.String())
	}
	if dev.Power != fleet.On {
		t.Errorf("state query did not refresh power cache, got %v", dev.Power)
	}
	if dev.Sync.SendMask == nil || *dev.Sync.SendMask != 1 {
		t.Errorf("state query did not refresh sync cache, got %v", dev.Sync.SendMask)
	}
}

func TestInfoQueryFieldFilter(t *testing.T) {
	c, out := testConsole(t, "")
	srv := &deviceServer{
		infoDoc: `{"ver":"0.14.0","name":"Porch","wifi":{"rssi":-61}}`,
	}
	seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "info all ver,wifi.rssi")

	if !strings.Contains(out.String(), `ver="0.14.0", wifi.rssi=-61`) {
		t.Errorf("missing info field line in %q", out.String())
	}
}

func TestQueryRetryKeepsFieldFilter(t *testing.T) {
	c, out := testConsole(t, "")
	dev := seed(t, c, "127.0.0.1", "porch_light", 1)

	c.execute(context.Background(), "state all on,bri")
	if name, failed, ok := c.session.Last(); !ok || name != "state" || failed != 1 {
		t.Fatalf("session state = %q/%d/%v, want state/1/true", name, failed, ok)
	}

	srv := &deviceServer{stateDoc: `{"on":false,"bri":42}`}
	dev.Port = portOf(t, srv.start(t).URL)

	out.Reset()
	c.execute(context.Background(), "retry")

	if !strings.Contains(out.String(), "on=false, bri=42") {
		t.Errorf("retried query lost its field filter, got %q", out.String())
	}
}

func TestPowerQueryRedisplaysListing(t *testing.T) {
	c, out := testConsole(t, "")
	srv := &deviceServer{stateDoc: `{"on":true,"bri":10}`}
	seed(t, c, "127.0.0.1", "porch_light", portOf(t, srv.start(t).URL))

	c.execute(context.Background(), "power all")

	if !strings.Contains(out.String(), "[ON]") {
		t.Errorf("refreshed listing missing ON badge in %q", out.String())
	}
	if !strings.Contains(out.String(), "--- Group: _default (1) ---") {
		t.Errorf("power query did not redisplay the listing, got %q", out.String())
	}
}

func TestGroupCommandExclusivity(t *testing.T) {
	c, out := testConsole(t, "")
	srvDesk := &deviceServer{}
	srvPorch := &deviceServer{}
	desk := seed(t, c, "localhost", "desk_light", portOf(t, srvDesk.start(t).URL))
	porch := seed(t, c, "127.0.0.1", "porch_light", portOf(t, srvPorch.start(t).URL))

	c.execute(context.Background(), "group 0 office")
	if desk.Group != "office" {
		t.Fatalf("desk group = %q, want office", desk.Group)
	}
	if !strings.Contains(out.String(), "--- Group: office (1) ---") {
		t.Errorf("listing missing office header in %q", out.String())
	}

	// porch_light is now index 0 (_default sorts first). Claiming the
	// label moves desk_light back out.
	c.execute(context.Background(), "group 0 office")
	if porch.Group != "office" {
		t.Errorf("porch group = %q, want office", porch.Group)
	}
	if desk.Group != fleet.DefaultGroup {
		t.Errorf("desk group = %q, want %q after label reassignment", desk.Group, fleet.DefaultGroup)
	}

	// Group names double as selector terms.
	c.execute(context.Background(), "on office")
	if posts := srvPorch.posts(); len(posts) != 1 {
		t.Errorf("group selector dispatched %d posts to porch, want 1", len(posts))
	}
	if posts := srvDesk.posts(); len(posts) != 0 {
		t.Errorf("group selector leaked %d posts to desk", len(posts))
	}
}

func TestGroupCommandRejectsBadLabel(t *testing.T) {
	c, out := testConsole(t, "")
	dev := seed(t, c, "127.0.0.1", "porch_light", 80)

	c.execute(context.Background(), "group 0 living-room")

	if !strings.Contains(out.String(), "invalid group name") {
		t.Errorf("missing label validation message in %q", out.String())
	}
	if dev.Group != fleet.DefaultGroup {
		t.Errorf("invalid label still assigned, group = %q", dev.Group)
	}
}

func TestIdentifyWalkSubloop(t *testing.T) {
	// Walk over two devices: next, prev, a typo, then exit.
	c, out := testConsole(t, "n\np\nx\ne\n")

	srvDesk := &deviceServer{}
	srvPorch := &deviceServer{}
	seed(t, c, "localhost", "desk_light", portOf(t, srvDesk.start(t).URL))
	seed(t, c, "127.0.0.1", "porch_light", portOf(t, srvPorch.start(t).URL))

	c.execute(context.Background(), "id all")

	for _, want := range []string{
		"--- ID Mode ---",
		"Commands: n(ext), p(rev), e(xit)",
		"Current: 0. desk_light",
		"Current: 1. porch_light",
		"Unknown command. Use n(ext), p(rev), or e(xit).",
		"Exiting ID mode.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("walk output missing %q", want)
		}
	}

	// Start blacks out both and lights desk; n swaps to porch; p swaps
	// back; e blacks out desk.
	wantDesk := []bool{false, true, false, true, false}
	wantPorch := []bool{false, true, false}

	if got := srvDesk.powerSequence(); !slices.Equal(got, wantDesk) {
		t.Errorf("desk power sequence = %v, want %v", got, wantDesk)
	}
	if got := srvPorch.powerSequence(); !slices.Equal(got, wantPorch) {
		t.Errorf("porch power sequence = %v, want %v", got, wantPorch)
	}

	if _, _, ok := c.session.Last(); ok {
		t.Error("identify walk left retry state behind")
	}
}

func TestRetriesCommand(t *testing.T) {
	c, out := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 1)

	c.execute(context.Background(), "retries")
	if !strings.Contains(out.String(), "Current retry count: 0") {
		t.Errorf("missing current retry count in %q", out.String())
	}

	out.Reset()
	c.execute(context.Background(), "retries 3")
	if !strings.Contains(out.String(), "Retry count set to 3") {
		t.Errorf("missing confirmation in %q", out.String())
	}
	if c.session.Retries() != 3 {
		t.Errorf("session retries = %d, want 3", c.session.Retries())
	}

	for line, want := range map[string]string{
		"retries -1":  "Retry count must be non-negative.",
		"retries two": "Invalid retry count. Please enter a number.",
	} {
		out.Reset()
		c.execute(context.Background(), line)
		if !strings.Contains(out.String(), want) {
			t.Errorf("%q output %q missing %q", line, out.String(), want)
		}
	}

	// Changing the budget invalidates the recorded failure set.
	c.execute(context.Background(), "on all")
	if _, _, ok := c.session.Last(); !ok {
		t.Fatal("failed command did not record retry state")
	}
	c.execute(context.Background(), "retries 1")
	out.Reset()
	c.execute(context.Background(), "retry")
	if !strings.Contains(out.String(), "No previous command to retry.") {
		t.Errorf("retries change did not clear retry state, got %q", out.String())
	}
}

func TestUICommand(t *testing.T) {
	c, out := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 80)

	var opened string
	c.openURL = func(url string) error {
		opened = url
		return nil
	}

	c.execute(context.Background(), "ui 0")

	if opened != "http://127.0.0.1" {
		t.Errorf("opened %q, want http://127.0.0.1", opened)
	}
	if !strings.Contains(out.String(), "Opening WLED UI for porch_light at http://127.0.0.1") {
		t.Errorf("missing launch message in %q", out.String())
	}

	out.Reset()
	c.execute(context.Background(), "ui 9")
	if !strings.Contains(out.String(), "Invalid index. Valid indices: 0-0") {
		t.Errorf("missing bounds message in %q", out.String())
	}

	out.Reset()
	c.execute(context.Background(), "ui porch")
	if !strings.Contains(out.String(), "Invalid index. Please enter a number.") {
		t.Errorf("missing numeric message in %q", out.String())
	}

	out.Reset()
	c.openURL = func(string) error { return errors.New("no browser available") }
	c.execute(context.Background(), "ui 0")
	if !strings.Contains(out.String(), "no browser available") {
		t.Errorf("missing browser error in %q", out.String())
	}
}

func TestUICommandHonorsNonStandardPort(t *testing.T) {
	c, _ := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 8080)

	var opened string
	c.openURL = func(url string) error {
		opened = url
		return nil
	}

	c.execute(context.Background(), "ui 0")
	if opened != "http://127.0.0.1:8080" {
		t.Errorf("opened %q, want http://127.0.0.1:8080", opened)
	}
}

func TestWatchCommandValidation(t *testing.T) {
	c, out := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 80)

	c.execute(context.Background(), "watch 5")
	if !strings.Contains(out.String(), "Invalid index. Valid indices: 0-0") {
		t.Errorf("missing bounds message in %q", out.String())
	}

	out.Reset()
	c.execute(context.Background(), "watch porch")
	if !strings.Contains(out.String(), "Invalid index. Please enter a number.") {
		t.Errorf("missing numeric message in %q", out.String())
	}
}

func TestScanCommandValidation(t *testing.T) {
	for line, want := range map[string]string{
		"scan abc": "Invalid scan time. Usage: scan [seconds]",
		"scan 0":   "Scan time must be at least 1 second.",
		"scan -5":  "Scan time must be at least 1 second.",
	} {
		t.Run(line, func(t *testing.T) {
			c, out := testConsole(t, "")
			c.execute(context.Background(), line)
			if !strings.Contains(out.String(), want) {
				t.Errorf("output %q missing %q", out.String(), want)
			}
		})
	}
}

func TestListClearsRetryState(t *testing.T) {
	c, out := testConsole(t, "")
	seed(t, c, "127.0.0.1", "porch_light", 1)

	c.execute(context.Background(), "on all")
	if _, _, ok := c.session.Last(); !ok {
		t.Fatal("failed command did not record retry state")
	}

	c.execute(context.Background(), "list")
	out.Reset()
	c.execute(context.Background(), "retry")
	if !strings.Contains(out.String(), "No previous command to retry.") {
		t.Errorf("list did not clear retry state, got %q", out.String())
	}
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"on,bri", []string{"on", "bri"}},
		{" on , bri ", []string{"on", "bri"}},
		{"on,,bri,", []string{"on", "bri"}},
		{"seg[0].bri", []string{"seg[0].bri"}},
	}
	for _, tt := range tests {
		got := parseFields(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("parseFields(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFields(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}
