// Package decode turns instrument files into normalized samples.
//
// Two input formats are supported. The "xyd" text format is two
// whitespace-separated numeric columns per row and is passed through in its
// native x units. The "raw" format is a fixed-layout little-endian binary dump
// written by two diffractometer variants ("POLY II" and "Powdat"); its angle
// axis is converted to the scattering vector Q using the wavelength recorded
// in the header.
//
// Every decoder is pure: it reads bytes and returns samples or an error, and
// may run concurrently with any other decoder. Intensities are always divided
// by their maximum; a non-positive maximum is rejected with ErrFormat rather
// than producing NaN or Inf values.
package decode
