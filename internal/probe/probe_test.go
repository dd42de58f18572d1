package probe

import (
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

func TestNewOpDefaults(t *testing.T) {
	op := NewOp(0)
	if op.Count != DefaultCount {
		t.Errorf("Count = %d, want %d", op.Count, DefaultCount)
	}
	if op.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", op.Timeout, DefaultTimeout)
	}

	op = NewOp(5 * time.Second)
	if op.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", op.Timeout)
	}
}

func TestOpName(t *testing.T) {
	op := NewOp(0)
	if op.Name() != "ping" {
		t.Errorf("Name() = %q, want ping", op.Name())
	}
	if op.Describe() != "reachability probe" {
		t.Errorf("Describe() = %q", op.Describe())
	}
}

func TestReport(t *testing.T) {
	stats := &probing.Statistics{
		PacketsSent: 3,
		PacketsRecv: 2,
		PacketLoss:  33.3,
		AvgRtt:      1500 * time.Microsecond,
	}

	doc := report(stats)

	if sent, ok := doc.Number("sent"); !ok || sent != 3 {
		t.Errorf("sent = %v, want 3", sent)
	}
	if recv, ok := doc.Number("received"); !ok || recv != 2 {
		t.Errorf("received = %v, want 2", recv)
	}
	if loss, ok := doc.Number("loss_pct"); !ok || loss != 33.3 {
		t.Errorf("loss_pct = %v, want 33.3", loss)
	}
	if rtt, ok := doc.Number("rtt_ms"); !ok || rtt != 1.5 {
		t.Errorf("rtt_ms = %v, want 1.5", rtt)
	}
}

// Live ICMP requires raw socket privileges or a tuned ping_group_range,
// so reachability itself is exercised manually, not here.
