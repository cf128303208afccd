// Package geo provides geographic points and the math used to animate them.
package geo

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Point is a geographic location in degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewPoint creates a Point from a latitude and longitude in degrees.
func NewPoint(lat, lon float64) Point {
	return Point{Latitude: lat, Longitude: lon}
}

// LatLng converts the Point into an s2.LatLng.
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Latitude, p.Longitude)
}

// Orb converts the Point into an orb.Point, which is ordered longitude first.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// Lerp moves from towards to by the fraction t. Latitude and longitude are
// interpolated independently as plain scalars.
func Lerp(from, to Point, t float64) Point {
	return Point{
		Latitude:  from.Latitude + t*(to.Latitude-from.Latitude),
		Longitude: from.Longitude + t*(to.Longitude-from.Longitude),
	}
}
