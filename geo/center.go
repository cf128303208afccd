package geo

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// CalcCenter returns the centroid of points by averaging their unit vectors
// on the sphere and projecting the mean back to latitude and longitude.
//
// points must not be empty; the result for an empty slice is NaN.
func CalcCenter(points []Point) Point {
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(s2.PointFromLatLng(p.LatLng()).Vector)
	}
	mean := sum.Mul(1 / float64(len(points)))

	// LatLngFromPoint is atan2(z, hypot(x, y)) and atan2(y, x), so the mean
	// does not need to be normalised first.
	ll := s2.LatLngFromPoint(s2.Point{Vector: mean})
	return Point{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()}
}
