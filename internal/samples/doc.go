// Package samples holds the normalized (x, y) signal shared by the decoders
// and the catalog, together with the compressed container the catalog uses to
// persist it.
//
// A sample file is a zstd stream wrapping a small fixed header followed by
// the x values and then the y values as little-endian float64s. The container
// is written once per spectrum and never rewritten when only metadata changes.
package samples
