package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/pkg/browser"
	"golang.org/x/term"

	"github.com/muldoon/wledctl/internal/config"
	"github.com/muldoon/wledctl/internal/discovery"
	"github.com/muldoon/wledctl/internal/dispatch"
	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/wled"
)

// Console drives the interactive command loop: it owns the fleet
// registry, the dispatch executor, and the session state, reads
// commands from the terminal, and renders results.
type Console struct {
	registry  *fleet.Registry
	executor  *dispatch.Executor
	session   *dispatch.Session
	transport *wled.Transport
	scanner   *discovery.Scanner
	settings  *config.Settings

	in  *bufio.Scanner
	out io.Writer

	// interactive gates the scan progress display; plain output when
	// stdout is a pipe.
	interactive bool

	// openURL launches the system browser; swapped out in tests.
	openURL func(url string) error

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the command in flight, nil at the prompt
}

// New builds a console wired to stdin and stdout, with every tuning
// knob taken from the user's settings.
func New(settings *config.Settings) *Console {
	c := newConsole(settings, os.Stdin, os.Stdout)
	c.interactive = term.IsTerminal(int(os.Stdout.Fd()))
	return c
}

// newConsole wires a console to explicit streams. Tests drive this
// directly with buffers instead of the terminal.
func newConsole(settings *config.Settings, in io.Reader, out io.Writer) *Console {
	scanner := discovery.NewScanner()
	scanner.Service = settings.Discovery.Service
	scanner.Domain = settings.Discovery.Domain
	scanner.Window = settings.ScanWindow()

	return &Console{
		registry:  fleet.NewRegistry(),
		executor:  dispatch.NewExecutor(settings),
		session:   dispatch.NewSession(settings.Execution.Retries),
		transport: wled.NewTransport(settings.RequestTimeout()),
		scanner:   scanner,
		settings:  settings,
		in:        bufio.NewScanner(in),
		out:       out,
		openURL:   browser.OpenURL,
	}
}

// Run scans once to seed the registry, then reads commands until the
// user quits or input ends. Ctrl-C cancels the command in flight
// instead of killing the process.
func (c *Console) Run(ctx context.Context) error {
	c.println("wledctl - WLED fleet control")
	c.println("Type 'help' for available commands.")
	c.println("")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go c.forwardInterrupts(sigCh)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()

	c.runCommand(ctx, func(cmdCtx context.Context) {
		c.handleScan(cmdCtx, nil)
	})

	for {
		fmt.Fprint(c.out, "\n> ")
		if !c.in.Scan() {
			c.println("")
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			c.showDevices()
			continue
		}

		if quit := c.execute(ctx, line); quit {
			return nil
		}
	}
}

// execute dispatches one command line and reports whether the loop
// should end. Every handler runs under a context the interrupt
// forwarder can cancel.
func (c *Console) execute(ctx context.Context, line string) (quit bool) {
	args := strings.Fields(line)
	cmd := strings.ToLower(args[0])
	rest := args[1:]

	switch cmd {
	case "quit", "exit", "q":
		c.println("Exiting.")
		return true
	case "help":
		c.printHelp()
		return false
	}

	c.runCommand(ctx, func(cmdCtx context.Context) {
		switch cmd {
		case "scan":
			c.handleScan(cmdCtx, rest)
		case "list":
			c.session.Clear()
			c.showDevices()
		case "on", "off":
			c.handlePower(cmdCtx, cmd == "on", rest)
		case "reboot":
			c.handleReboot(cmdCtx, rest)
		case "sync":
			c.handleSync(cmdCtx, rest)
		case "syncgroups":
			c.handleSyncGroups(cmdCtx, rest)
		case "power":
			c.handlePowerQuery(cmdCtx, rest)
		case "state":
			c.handleState(cmdCtx, rest)
		case "info":
			c.handleInfo(cmdCtx, rest)
		case "group":
			c.handleGroup(rest)
		case "id":
			c.handleIdentify(cmdCtx, rest)
		case "ping":
			c.handlePing(cmdCtx, rest)
		case "watch":
			c.handleWatch(cmdCtx, rest)
		case "ui":
			c.handleUI(rest)
		case "retries":
			c.handleRetries(rest)
		case "retry":
			c.handleRetry(cmdCtx)
		default:
			c.printf("Unknown command: %s\n", cmd)
			c.println("Type 'help' for available commands.")
		}
	})

	return false
}

// runCommand runs fn under a cancellable context and keeps the cancel
// function visible to the interrupt forwarder for the duration.
func (c *Console) runCommand(ctx context.Context, fn func(context.Context)) {
	cmdCtx, cancel := context.WithCancel(ctx)
	c.setActive(cancel)
	defer func() {
		c.setActive(nil)
		cancel()
	}()
	fn(cmdCtx)
}

func (c *Console) setActive(cancel context.CancelFunc) {
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
}

// forwardInterrupts turns Ctrl-C into cancellation of the command in
// flight. At the prompt there is nothing to cancel, so the interrupt
// is acknowledged with a hint instead of exiting; registry state is
// never torn down mid-update.
func (c *Console) forwardInterrupts(sigCh <-chan os.Signal) {
	for range sigCh {
		c.mu.Lock()
		cancel := c.cancel
		c.mu.Unlock()
		if cancel != nil {
			cancel()
			continue
		}
		c.println("\nInterrupt ignored; type 'quit' to exit.")
	}
}

// readLine reads the next input line for sub-prompts (the identify
// walk). ok is false when input ended.
func (c *Console) readLine(prompt string) (line string, ok bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// printError renders a selector or validation failure. These abort the
// command before any device is contacted.
func (c *Console) printError(err error) {
	c.println(errorStyle.Render(err.Error()))
}

// showDevices renders the grouped device listing.
func (c *Console) showDevices() {
	c.println("")
	c.println(RenderDeviceList(c.registry.Devices()))
}

// resolveTargets expands a selector against the current registry.
func (c *Console) resolveTargets(selector string) ([]*fleet.Device, error) {
	indices, err := fleet.ResolveSelector(selector, c.registry.Len(), c.registry)
	if err != nil {
		return nil, err
	}
	return c.registry.ByIndices(indices), nil
}

func (c *Console) printHelp() {
	c.println(`
wledctl command reference

Power control:
  on <sel>                 Turn device(s) on
  off <sel>                Turn device(s) off
  reboot <sel>             Reboot device(s)

Sync control:
  sync <sel> {on|off}      Enable/disable UDP sync (send & recv)
  syncgroups <sel> send <groups> recv <groups>
                           Set sync group membership
                           Example: syncgroups 0-2 send 1,3 recv 2

Device management:
  id <sel>                 Identify devices one-by-one (n=next, p=prev, e=exit)
  power <sel>              Refresh cached power state
  state <sel> [fields]     Show device state JSON
                           Example: state 0 on,bri,seg[0].bri
  info <sel> [fields]      Show device info JSON
                           Example: info 0 wifi.rssi,ver
  group <sel> <name>       Assign devices to a group
                           Other members of <name> return to _default;
                           assigning _default itself is additive
  ping <sel>               Check reachability with ICMP echo
  watch <index>            Stream live state changes from one device
  ui <index>               Open the device web UI in a browser
  scan [seconds]           Rescan the network (default window from config)
  list                     Show the device list

General:
  retries [n]              Show or set the per-device retry budget
  retry                    Repeat the last command on its failed devices
  help                     This message
  quit                     Exit

Selectors:
  3          one device          1-3        an index range
  porch      a group             all        every device
  0,2-4,porch  terms mix freely; duplicates collapse

Sync groups are numbers 1-8, comma-separated; "none" or blank means no groups.`)
}
