// Package bridge routes decoded host messages and companion lines to the
// subsystems they drive: fan control, the menu mirror, the animation
// engine and the status topics published back to the host.
//
// The Router is single-threaded: the owning loop calls HandleHostMessage,
// HandleDeviceLine and Tick from one goroutine and passes explicit
// timestamps, so liveness and telemetry expiry are deterministic and the
// router needs no locking.
package bridge
