// Package physics provides the narrow-phase overlap test used by the detector.
package physics

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	// Explicit conversions keep each product rounded to float32 (no FMA).
	return float32(dx*dx) + float32(dy*dy)
}

// CirclesOverlap checks if two circles overlap.
// Circles that exactly touch do not overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float32) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < float32(minDist*minDist)
}
