// Package menu models the companion device's configurable parameters.
//
// The companion microcontroller owns the authoritative menu (face,
// brightness, color and so on); this package keeps the controller's
// mirror of it. The Registry maps host-facing parameter names to the
// companion's protocol tokens, value ranges and option labels, and the
// State holds the last known value of each parameter.
//
// The registry is static and immutable after Default(); State is
// mutated only by the bridge router's single loop.
package menu
