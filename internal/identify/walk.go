// Package identify implements the walk that lights up one controller
// at a time so a user can physically locate each device in a set.
package identify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/logging"
)

// ErrNoTargets is returned when a walk is started over zero devices.
var ErrNoTargets = errors.New("no devices to identify")

// ErrExited is returned by transitions attempted after the walk ended.
var ErrExited = errors.New("identify walk already exited")

// PowerSetter is the one device capability the walk needs. The console
// wires it to the retrying dispatcher; tests use a recorder.
type PowerSetter interface {
	SetPower(ctx context.Context, dev *fleet.Device, on bool) error
}

// Walk steps through a target set lighting exactly one device at a
// time. Moving forward or backward wraps around the set.
type Walk struct {
	power   PowerSetter
	targets []*fleet.Device
	pos     int
	exited  bool
	logger  *zap.Logger
}

// Start blacks out every target, lights the first one, and returns the
// running walk. Starting over an empty set is refused so the walk can
// never be entered without a device to show.
func Start(ctx context.Context, power PowerSetter, targets []*fleet.Device) (*Walk, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	w := &Walk{
		power:   power,
		targets: targets,
		logger:  logging.GetLogger(),
	}
	for _, dev := range targets {
		w.setPower(ctx, dev, false)
	}
	w.setPower(ctx, w.targets[0], true)
	return w, nil
}

// Current returns the device holding the spotlight.
func (w *Walk) Current() *fleet.Device {
	return w.targets[w.pos]
}

// Pos returns the zero-based position of the lit device.
func (w *Walk) Pos() int { return w.pos }

// Len returns the number of devices in the walk.
func (w *Walk) Len() int { return len(w.targets) }

// Next moves the spotlight to the following device, wrapping at the end.
func (w *Walk) Next(ctx context.Context) error {
	return w.move(ctx, 1)
}

// Prev moves the spotlight to the previous device, wrapping at the start.
func (w *Walk) Prev(ctx context.Context) error {
	return w.move(ctx, -1)
}

func (w *Walk) move(ctx context.Context, step int) error {
	if w.exited {
		return ErrExited
	}

	w.setPower(ctx, w.targets[w.pos], false)
	n := len(w.targets)
	w.pos = ((w.pos+step)%n + n) % n
	w.setPower(ctx, w.targets[w.pos], true)
	return nil
}

// Exit turns off the lit device and ends the walk. Further transitions
// return ErrExited.
func (w *Walk) Exit(ctx context.Context) error {
	if w.exited {
		return ErrExited
	}
	w.setPower(ctx, w.targets[w.pos], false)
	w.exited = true
	return nil
}

// Exited reports whether the walk has ended.
func (w *Walk) Exited() bool { return w.exited }

// setPower applies one transition edge. A device that misses its cue
// is logged and skipped; the walk keeps stepping either way.
func (w *Walk) setPower(ctx context.Context, dev *fleet.Device, on bool) {
	if err := w.power.SetPower(ctx, dev, on); err != nil {
		w.logger.Warn("identify transition failed",
			zap.String("device", dev.Key),
			zap.Bool("on", on),
			zap.Error(err),
		)
	}
}
