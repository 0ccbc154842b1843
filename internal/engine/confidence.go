package engine

import (
	"time"

	"uex-hauler/internal/uex"
)

const (
	// ageFloor is the residual confidence of arbitrarily old data.
	ageFloor = 0.2
	// volFloor is the residual confidence at or beyond the volatility ceiling.
	volFloor = 0.3
	// missingVolFactor treats an unreported volatility as moderate
	// uncertainty rather than ignoring the point.
	missingVolFactor = 0.8
)

// Confidence derives a trust score in [0, 1] for a price point set.
//
// Two independent multiplicative factors, each in (0, 1]:
//   - age: 1.0 while the freshest observation is younger than ttl/2, then a
//     linear decay to 0.2 at 3x ttl, clamped beyond. Age is measured against
//     the freshest individual ObservedAt, not the cache fetch time: an
//     entry can be fresh by TTL yet carry old per-location observations.
//   - volatility: 1.0 at zero, linear to 0.3 at volCeiling.
//
// The per-point products are averaged. No points at all scores exactly 0.
func Confidence(points []uex.PricePoint, now time.Time, ttl time.Duration, volCeiling float64) float64 {
	if len(points) == 0 {
		return 0.0
	}

	freshest := points[0].ObservedAt
	for _, p := range points[1:] {
		if p.ObservedAt.After(freshest) {
			freshest = p.ObservedAt
		}
	}
	af := ageFactor(now.Sub(freshest), ttl)

	var sum float64
	for _, p := range points {
		sum += af * volatilityFactor(p.Volatility, volCeiling)
	}
	return sum / float64(len(points))
}

func ageFactor(age, ttl time.Duration) float64 {
	if ttl <= 0 {
		return ageFloor
	}
	half := ttl / 2
	if age <= half {
		return 1.0
	}
	// Linear from 1.0 at ttl/2 down to the floor at 3×ttl.
	f := 1.0 - float64(age-half)/float64(3*ttl-half)*(1.0-ageFloor)
	if f < ageFloor {
		return ageFloor
	}
	return f
}

func volatilityFactor(vol *float64, ceiling float64) float64 {
	if vol == nil {
		return missingVolFactor
	}
	v := *vol
	if v < 0 {
		v = -v
	}
	if v == 0 {
		return 1.0
	}
	if ceiling <= 0 {
		return volFloor
	}
	f := 1.0 - v/ceiling*(1.0-volFloor)
	if f < volFloor {
		return volFloor
	}
	return f
}
