// Package geofence gates code issuance on physical proximity to the
// warehouse being inspected.
package geofence

import "math"

// earthRadiusM is the mean Earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

// Fence is a circular boundary around a target coordinate. Zero value is not
// usable; construct with New.
type Fence struct {
	targetLat    float64
	targetLong   float64
	radiusMeters float64
}

// New builds a fence around the target point with the given radius in meters.
func New(targetLat, targetLong, radiusMeters float64) *Fence {
	return &Fence{
		targetLat:    targetLat,
		targetLong:   targetLong,
		radiusMeters: radiusMeters,
	}
}

// Allowed reports whether the presented coordinate lies within the fence.
// Identical points yield distance 0 and are always allowed.
func (f *Fence) Allowed(lat, long float64) bool {
	return f.Distance(lat, long) <= f.radiusMeters
}

// Distance returns the great-circle distance in meters between the presented
// coordinate and the fence target.
func (f *Fence) Distance(lat, long float64) float64 {
	phi1 := radians(lat)
	phi2 := radians(f.targetLat)
	deltaPhi := radians(f.targetLat - lat)
	deltaLambda := radians(f.targetLong - long)

	a := math.Pow(math.Sin(deltaPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(deltaLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// Radius returns the configured radius in meters.
func (f *Fence) Radius() float64 { return f.radiusMeters }

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
