// Package fancurve holds the cooling fan's control configuration.
//
// The fan is driven either manually (a fixed percentage set by the host)
// or automatically from two interpolated curves, one over temperature and
// one over humidity; the louder requirement wins. The configuration is
// exchanged with the host as JSON and survives restarts via the
// persistence package.
//
// The actual PWM drive and sensor acquisition are external collaborators;
// this package only owns the curves and the mode.
package fancurve
