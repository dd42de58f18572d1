package console

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/muldoon/wledctl/internal/discovery"
	"github.com/muldoon/wledctl/internal/dispatch"
	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/identify"
	"github.com/muldoon/wledctl/internal/probe"
	"github.com/muldoon/wledctl/internal/wled"
)

// queryOp pairs a state or info query with the display fields the user
// asked for, so a retry of the command renders exactly like the
// original run did.
type queryOp struct {
	dispatch.Operation
	fields []string
}

// walkPower adapts the executor to the identify walk, so every
// spotlight transition gets the same retry budget as a bulk command.
type walkPower struct {
	executor  *dispatch.Executor
	transport *wled.Transport
	retries   int
}

func (p walkPower) SetPower(ctx context.Context, dev *fleet.Device, on bool) error {
	return p.executor.Apply(ctx, dispatch.PowerOp{Transport: p.transport, On: on}, dev, p.retries)
}

// runBulk dispatches op across targets and records the result for a
// possible retry. Recording happens even when everything succeeded;
// the session clears itself in that case.
func (c *Console) runBulk(ctx context.Context, op dispatch.Operation, targets []*fleet.Device) *dispatch.Result {
	result := c.executor.Run(ctx, op, targets, c.session.Retries())
	c.session.Record(op, result)
	return result
}

// printResult renders a bulk dispatch. Queries print their documents,
// a bare power refresh reports through the listing badges, everything
// else gets one line per device.
func (c *Console) printResult(op dispatch.Operation, result *dispatch.Result) {
	switch v := op.(type) {
	case queryOp:
		for _, o := range result.Outcomes {
			if o.OK() {
				c.println(renderDocument(o.Device, o.Doc, v.fields))
			} else {
				c.println(outcomeLine(op, o))
			}
		}
	case dispatch.StatusOp:
		for _, o := range result.Failed() {
			c.println(outcomeLine(op, o))
		}
	default:
		for _, o := range result.Outcomes {
			c.println(outcomeLine(op, o))
		}
	}

	if s := failureSummary(result); s != "" {
		c.println(s)
	}

	// A wholesale failure usually has one shared cause; the hint
	// prints once, not per device.
	if failed := result.Failed(); len(failed) == len(result.Outcomes) && len(failed) > 0 {
		if err := failed[0].Err; !errors.Is(err, context.Canceled) {
			c.println(hintStyle.Render(wled.GetTroubleshootingHint(err)))
		}
	}

	if _, ok := op.(dispatch.StatusOp); ok {
		c.showDevices()
	}
}

// handleScan browses the network, folds the results into the registry,
// and clears the retry state since display indices may have moved.
func (c *Console) handleScan(ctx context.Context, args []string) {
	window := c.scanner.Window
	if len(args) > 0 {
		secs, err := strconv.Atoi(args[0])
		if err != nil {
			c.println("Invalid scan time. Usage: scan [seconds]")
			return
		}
		if secs < 1 {
			c.println("Scan time must be at least 1 second.")
			return
		}
		window = time.Duration(secs) * time.Second
	}

	records, err := c.runScan(ctx, window)
	if err != nil {
		c.printError(err)
		return
	}

	added, updated := c.registry.Merge(discovery.Observations(records))
	c.session.Clear()

	c.printf("Scan complete: %d new, %d known.\n", added, updated)
	c.showDevices()
}

func (c *Console) handlePower(ctx context.Context, on bool, args []string) {
	if len(args) != 1 {
		if on {
			c.println("Usage: on <selector>")
		} else {
			c.println("Usage: off <selector>")
		}
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	op := dispatch.PowerOp{Transport: c.transport, On: on}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

func (c *Console) handleReboot(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: reboot <selector>")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	c.println("Rebooting devices...")
	op := dispatch.RebootOp{Transport: c.transport}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

func (c *Console) handleSync(ctx context.Context, args []string) {
	if len(args) != 2 {
		c.println("Usage: sync <selector> {on|off}")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	mode := strings.ToLower(args[1])
	if mode != "on" && mode != "off" {
		c.println("Usage: sync <selector> {on|off}")
		return
	}

	op := dispatch.SyncEnableOp{Transport: c.transport, On: mode == "on"}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

func (c *Console) handleSyncGroups(ctx context.Context, args []string) {
	if len(args) != 5 || !strings.EqualFold(args[1], "send") || !strings.EqualFold(args[3], "recv") {
		c.println("Usage: syncgroups <selector> send <groups> recv <groups>")
		c.println("Example: syncgroups 0-2 send 1,3 recv 2")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	sendMask, err := wled.ParseGroupMask(args[2])
	if err != nil {
		c.printError(err)
		return
	}
	recvMask, err := wled.ParseGroupMask(args[4])
	if err != nil {
		c.printError(err)
		return
	}

	op := dispatch.SyncGroupsOp{Transport: c.transport, Send: sendMask, Recv: recvMask}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

// handlePowerQuery refreshes cached power state across the selection.
// The redisplayed listing carries the answer; only failures get lines.
func (c *Console) handlePowerQuery(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: power <selector>")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	op := dispatch.StatusOp{Transport: c.transport}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

func (c *Console) handleState(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		c.println("Usage: state <selector> [fields]")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	op := queryOp{Operation: dispatch.StatusOp{Transport: c.transport}}
	if len(args) == 2 {
		op.fields = parseFields(args[1])
	}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

func (c *Console) handleInfo(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		c.println("Usage: info <selector> [fields]")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	op := queryOp{Operation: dispatch.InfoOp{Transport: c.transport}}
	if len(args) == 2 {
		op.fields = parseFields(args[1])
	}
	c.printResult(op, c.runBulk(ctx, op, targets))
}

// handleGroup reassigns group membership. Purely local, so the retry
// state is cleared rather than recorded.
func (c *Console) handleGroup(args []string) {
	if len(args) != 2 {
		c.println("Usage: group <selector> <name>")
		c.println("Example: group 0-2 living_room")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	if err := c.registry.AssignGroup(targets, args[1]); err != nil {
		c.printError(err)
		return
	}

	c.session.Clear()
	c.showDevices()
}

// handleIdentify walks the selection lighting one device at a time,
// reading n/p/e from its own sub-prompt until the user exits.
func (c *Console) handleIdentify(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: id <selector>")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	c.session.Clear()

	power := walkPower{
		executor:  c.executor,
		transport: c.transport,
		retries:   c.session.Retries(),
	}

	c.println("Turning off all devices in range...")
	walk, err := identify.Start(ctx, power, targets)
	if err != nil {
		c.printError(err)
		return
	}

	c.println("")
	c.println("--- ID Mode ---")
	c.println("Commands: n(ext), p(rev), e(xit)")

	for {
		cur := walk.Current()
		c.printf("\nCurrent: %d. %s\n", cur.Index, cur.Name)

		line, ok := c.readLine("[id]> ")
		if !ok || ctx.Err() != nil {
			_ = walk.Exit(ctx)
			c.println("Exiting ID mode.")
			return
		}

		switch strings.ToLower(line) {
		case "e", "exit":
			_ = walk.Exit(ctx)
			c.println("Exiting ID mode.")
			return
		case "n", "next":
			_ = walk.Next(ctx)
		case "p", "prev":
			_ = walk.Prev(ctx)
		default:
			c.println("Unknown command. Use n(ext), p(rev), or e(xit).")
		}
	}
}

func (c *Console) handlePing(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: ping <selector>")
		return
	}
	targets, err := c.resolveTargets(args[0])
	if err != nil {
		c.printError(err)
		return
	}

	op := probe.NewOp(c.settings.RequestTimeout())
	c.printResult(op, c.runBulk(ctx, op, targets))
}

// handleWatch streams live state pushes from one device until the user
// interrupts or the connection drops. Watching is read-only, so the
// retry state is left alone.
func (c *Console) handleWatch(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.println("Usage: watch <index>")
		return
	}
	if c.registry.Len() == 0 {
		c.printError(fleet.ErrNoDevices)
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		c.println("Invalid index. Please enter a number.")
		return
	}
	dev, ok := c.registry.At(index)
	if !ok {
		c.printf("Invalid index. Valid indices: 0-%d\n", c.registry.Len()-1)
		return
	}

	c.printf("Watching %s at %s; press Ctrl-C to stop.\n", dev.Name, deviceAddr(dev))

	err = c.transport.Watch(ctx, wled.Endpoint{Host: dev.Key, Port: dev.Port}, func(doc wled.Document) {
		c.println(watchLine(dev, doc))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.printError(err)
	}
	c.println("Watch ended.")
}

func (c *Console) handleUI(args []string) {
	if len(args) != 1 {
		c.println("Usage: ui <index>")
		return
	}
	if c.registry.Len() == 0 {
		c.printError(fleet.ErrNoDevices)
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		c.println("Invalid index. Please enter a number.")
		return
	}
	dev, ok := c.registry.At(index)
	if !ok {
		c.printf("Invalid index. Valid indices: 0-%d\n", c.registry.Len()-1)
		return
	}

	url := "http://" + deviceAddr(dev)
	c.printf("Opening WLED UI for %s at %s\n", dev.Name, url)
	if err := c.openURL(url); err != nil {
		c.printError(err)
	}
}

func (c *Console) handleRetries(args []string) {
	if len(args) == 0 {
		c.printf("Current retry count: %d\n", c.session.Retries())
		c.println("Usage: retries <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		c.println("Invalid retry count. Please enter a number.")
		return
	}
	if n < 0 {
		c.println("Retry count must be non-negative.")
		return
	}

	c.session.SetRetries(n)
	c.session.Clear()
	c.printf("Retry count set to %d\n", n)
}

// handleRetry replays the last recorded command over exactly the
// devices that failed it. The new result replaces the old failure set,
// so retries can be chained until everything succeeds.
func (c *Console) handleRetry(ctx context.Context) {
	op, targets, err := c.session.RetryTarget(c.registry)
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrNothingToRetry):
			c.println("No previous command to retry.")
		case errors.Is(err, dispatch.ErrNoFailures):
			c.println("No failures in previous command.")
		default:
			c.printError(err)
		}
		return
	}

	c.printf("Retrying '%s' on %d device(s)...\n", op.Name(), len(targets))
	c.printResult(op, c.runBulk(ctx, op, targets))
}

// parseFields splits a comma-separated field filter, tolerating stray
// commas the same way the sync group parser does.
func parseFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
