// Package probe answers "is it even on the network?" for controllers
// that stop responding to HTTP, using ICMP echo requests.
package probe

import (
	"context"
	"fmt"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/wled"
)

// DefaultTimeout bounds one whole probe of a single device.
const DefaultTimeout = 2 * time.Second

// DefaultCount is how many echo requests each probe sends.
const DefaultCount = 1

// Op checks plain network reachability with ICMP echo requests. It
// satisfies the dispatch operation contract so pings run through the
// same executor, retry, and failure bookkeeping as the HTTP commands.
// Reachability says nothing about firmware state, so cached device
// fields are never touched.
type Op struct {
	// Count is how many echo requests each probe sends.
	Count int

	// Timeout bounds one whole probe, replies included.
	Timeout time.Duration
}

// NewOp returns a probe with the default count and timeout.
func NewOp(timeout time.Duration) Op {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Op{Count: DefaultCount, Timeout: timeout}
}

func (o Op) Name() string     { return "ping" }
func (o Op) Describe() string { return "reachability probe" }

func (o Op) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	pinger, err := probing.NewPinger(dev.Key)
	if err != nil {
		return nil, wled.NewValidationError(fmt.Sprintf("cannot probe %s: %v", dev.Key, err))
	}

	count := o.Count
	if count < 1 {
		count = DefaultCount
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pinger.Count = count
	pinger.Timeout = timeout
	// Windows has no unprivileged ICMP sockets.
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case runErr := <-done:
		if runErr != nil {
			return nil, wled.NewNetworkError("probe failed", runErr)
		}
	case <-ctx.Done():
		pinger.Stop()
		<-done
		return nil, ctx.Err()
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return nil, wled.NewNetworkError(fmt.Sprintf("no echo reply from %s", dev.Key), nil)
	}
	return report(stats), nil
}

// report shapes ping statistics into the same document form the HTTP
// queries return, so the console renders them through one path.
func report(stats *probing.Statistics) wled.Document {
	return wled.Document{
		"sent":     float64(stats.PacketsSent),
		"received": float64(stats.PacketsRecv),
		"loss_pct": stats.PacketLoss,
		"rtt_ms":   float64(stats.AvgRtt) / float64(time.Millisecond),
	}
}
