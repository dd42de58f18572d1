// Package dispatch runs idempotent commands against sets of WLED
// controllers and tracks which devices failed.
//
// An Operation is a single remote action (set power, set sync, reboot,
// query state). The Executor fans one operation out over a target set
// with bounded concurrency, gives every device its own retry budget
// with a fixed pause between attempts, and always produces a complete
// per-device outcome list: one slow or dead controller never stops the
// rest of the fleet from being handled.
//
//	exec := dispatch.NewExecutor(settings)
//	result := exec.Run(ctx, dispatch.PowerOp{Transport: tr, On: true}, targets, session.Retries())
//	for _, o := range result.Failed() {
//	    fmt.Println(o.Device.Name, wled.GetShortErrorMessage(o.Err))
//	}
//
// Devices cache their last successfully applied power and sync state.
// Operations write those caches only on success, and each device is
// owned by exactly one worker per dispatch, so cache writes never race.
//
// A Session remembers the last bulk command and its failure set so the
// user can replay just the devices that failed. An error-free run
// clears that state, as do interactions with no deterministic replay
// (scans, group edits, the identify walk).
package dispatch
