package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference deployment target: Mumbai warehouse.
const (
	targetLat  = 19.073892
	targetLong = 72.845470
)

func TestAllowedAtExactTarget(t *testing.T) {
	fence := New(targetLat, targetLong, 500)

	assert.Zero(t, fence.Distance(targetLat, targetLong))
	assert.True(t, fence.Allowed(targetLat, targetLong))
}

func TestDeniedBeyondRadius(t *testing.T) {
	fence := New(targetLat, targetLong, 500)

	// ~0.0055 degrees of latitude is roughly 610 meters.
	lat := targetLat + 0.0055
	dist := fence.Distance(lat, targetLong)
	assert.Greater(t, dist, 500.0)
	assert.Less(t, dist, 700.0)
	assert.False(t, fence.Allowed(lat, targetLong))
}

func TestAllowedJustInsideRadius(t *testing.T) {
	fence := New(targetLat, targetLong, 500)

	// ~0.0040 degrees of latitude is roughly 445 meters.
	lat := targetLat + 0.0040
	dist := fence.Distance(lat, targetLong)
	assert.Greater(t, dist, 400.0)
	assert.Less(t, dist, 500.0)
	assert.True(t, fence.Allowed(lat, targetLong))
}

func TestDistanceIsSymmetricInLongitude(t *testing.T) {
	fence := New(targetLat, targetLong, 500)

	east := fence.Distance(targetLat, targetLong+0.003)
	west := fence.Distance(targetLat, targetLong-0.003)
	assert.InDelta(t, east, west, 0.001)
}

func TestKnownDistance(t *testing.T) {
	// Gateway of India to CSMT is about 2 km great-circle.
	fence := New(18.921984, 72.834654, 500)
	dist := fence.Distance(18.940094, 72.835363)
	assert.InDelta(t, 2015, dist, 50)
	assert.False(t, fence.Allowed(18.940094, 72.835363))
}
