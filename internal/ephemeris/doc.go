// Package ephemeris computes heliocentric positions for the eight major
// planets from Keplerian orbital elements referenced to J2000.0.
//
// The engine is a pure function of Julian Date: it holds a read-only
// element catalog, solves Kepler's equation per planet, rotates the
// perifocal position into the ecliptic frame, and scales the result into
// scene units for the rendering layer. It keeps no mutable state between
// calls and is safe for concurrent use.
package ephemeris
