// Package persistence provides runtime state persistence for the visor router.
//
// This package handles the JSON serialization of state that must survive
// restarts: the fan control mode and curves. Device-side parameters are
// persisted by the device processors themselves via the SAVE command.
package persistence
