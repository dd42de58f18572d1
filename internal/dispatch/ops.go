package dispatch

import (
	"context"
	"fmt"

	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/wled"
)

// endpointOf builds the HTTP endpoint for a registry device. The device
// key is its network address.
func endpointOf(dev *fleet.Device) wled.Endpoint {
	return wled.Endpoint{Host: dev.Key, Port: dev.Port}
}

// refreshFromState folds a state document into a device's cached fields.
// Only fields the document actually carries are touched.
func refreshFromState(dev *fleet.Device, doc wled.Document) {
	if on, ok := doc.Bool("on"); ok {
		dev.Power = fleet.FromBool(on)
	}
	if send, ok := doc.Bool("udpn.send"); ok {
		dev.Sync.Enabled = fleet.FromBool(send)
	}
	if mask, ok := doc.Uint8("udpn.sgrp"); ok {
		dev.Sync.SendMask = &mask
	}
	if mask, ok := doc.Uint8("udpn.rgrp"); ok {
		dev.Sync.RecvMask = &mask
	}
}

// PowerOp switches targets on or off.
type PowerOp struct {
	Transport *wled.Transport
	On        bool
}

func (p PowerOp) Name() string {
	if p.On {
		return "on"
	}
	return "off"
}

func (p PowerOp) Describe() string {
	if p.On {
		return "power on"
	}
	return "power off"
}

func (p PowerOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	if err := p.Transport.SetPower(ctx, endpointOf(dev), p.On); err != nil {
		return nil, err
	}
	dev.Power = fleet.FromBool(p.On)
	return nil, nil
}

// SyncEnableOp switches UDP sync participation on or off. The cached
// group masks are left alone; only the enabled flag changes.
type SyncEnableOp struct {
	Transport *wled.Transport
	On        bool
}

func (s SyncEnableOp) Name() string {
	if s.On {
		return "sync on"
	}
	return "sync off"
}

func (s SyncEnableOp) Describe() string {
	if s.On {
		return "enable sync"
	}
	return "disable sync"
}

func (s SyncEnableOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	if err := s.Transport.SetSyncEnabled(ctx, endpointOf(dev), s.On); err != nil {
		return nil, err
	}
	dev.Sync.Enabled = fleet.FromBool(s.On)
	return nil, nil
}

// SyncGroupsOp sets the UDP sync send and receive group masks.
type SyncGroupsOp struct {
	Transport *wled.Transport
	Send      uint8
	Recv      uint8
}

func (s SyncGroupsOp) Name() string { return "syncgroups" }

func (s SyncGroupsOp) Describe() string {
	return fmt.Sprintf("sync groups send=%s recv=%s",
		wled.FormatGroupMask(s.Send), wled.FormatGroupMask(s.Recv))
}

func (s SyncGroupsOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	if err := s.Transport.SetSyncGroups(ctx, endpointOf(dev), s.Send, s.Recv); err != nil {
		return nil, err
	}
	send, recv := s.Send, s.Recv
	dev.Sync.SendMask = &send
	dev.Sync.RecvMask = &recv
	return nil, nil
}

// RebootOp restarts targets. Cached state is left alone; the next scan
// or state query picks up whatever the controller boots into.
type RebootOp struct {
	Transport *wled.Transport
}

func (r RebootOp) Name() string     { return "reboot" }
func (r RebootOp) Describe() string { return "reboot" }

func (r RebootOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	if err := r.Transport.Reboot(ctx, endpointOf(dev)); err != nil {
		return nil, err
	}
	return nil, nil
}

// StatusOp queries live state and refreshes the power and sync caches
// from the answer.
type StatusOp struct {
	Transport *wled.Transport
}

func (s StatusOp) Name() string     { return "state" }
func (s StatusOp) Describe() string { return "state query" }

func (s StatusOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	doc, err := s.Transport.State(ctx, endpointOf(dev))
	if err != nil {
		return nil, err
	}
	refreshFromState(dev, doc)
	return doc, nil
}

// InfoOp queries controller metadata (firmware, LED counts, uptime).
// Purely informational; no cached fields change.
type InfoOp struct {
	Transport *wled.Transport
}

func (i InfoOp) Name() string     { return "info" }
func (i InfoOp) Describe() string { return "info query" }

func (i InfoOp) Apply(ctx context.Context, dev *fleet.Device) (wled.Document, error) {
	return i.Transport.Info(ctx, endpointOf(dev))
}
