// Package animation renders the visor LED frames.
//
// The engine owns a pixel buffer spanning all strip segments and computes
// one target frame per update from the active parameters: boop state, face
// index, color mode and hues. Parameter changes crossfade from a snapshot
// of the previous frame over a fixed duration with cosine easing; static
// frames are drawn once and then skipped until something changes.
//
// The color helpers reproduce the hue wheel and blend arithmetic used by
// the LED hardware libraries, so hues chosen on the badge look the same
// on the visor.
package animation
