// internal/geo/geohash.go
// Coarse, privacy-preserving location bucketing for candidate search.
// Profiles store a geohash cell instead of exact coordinates being exposed
// to other users; the prefix property makes the column usable for indexed
// proximity lookups.

package geo

import (
	"errors"
	"fmt"
)

const (
	// base32 alphabet used by geohash encoding (no a, i, l, o)
	base32Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

	// DefaultPrecision yields cells of roughly 5 km, the coarseness used
	// for profile bucketing.
	DefaultPrecision = 5

	// MaxPrecision is the longest geohash the store accepts.
	MaxPrecision = 12
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// ValidateCoordinates checks that a latitude/longitude pair is within the
// valid domain. Callers must validate before encoding or storing; Encode
// itself is total and does not re-check.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %f", ErrInvalidLatitude, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: %f", ErrInvalidLongitude, lon)
	}
	return nil
}

// Encode returns the geohash of the given coordinates at the requested
// precision. Bits alternate between longitude and latitude bisection,
// longitude first, packed five per output character.
//
// Encoding is deterministic, and a geohash at a higher precision always
// has the lower-precision geohash of the same point as a prefix.
// Precision values outside [1, MaxPrecision] fall back to DefaultPrecision.
func Encode(lat, lon float64, precision int) string {
	if precision < 1 || precision > MaxPrecision {
		precision = DefaultPrecision
	}

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	var (
		hash    = make([]byte, 0, precision)
		ch      int
		bits    int
		evenBit = true // longitude first
	)

	for len(hash) < precision {
		if evenBit {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				ch = ch<<1 | 1
				lonMin = mid
			} else {
				ch <<= 1
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				ch = ch<<1 | 1
				latMin = mid
			} else {
				ch <<= 1
				latMax = mid
			}
		}
		evenBit = !evenBit

		bits++
		if bits == 5 {
			hash = append(hash, base32Alphabet[ch])
			bits = 0
			ch = 0
		}
	}

	return string(hash)
}
