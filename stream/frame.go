package stream

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb/geojson"

	"github.com/matt-g-everett/clusteranim/geo"
	"github.com/matt-g-everett/clusteranim/mapobj"
)

type framePlacemark struct {
	id     string
	point  geo.Point
	colour colorful.Color
}

// Frame is a snapshot of placemark positions.
type Frame struct {
	Version    uint64
	placemarks []framePlacemark
}

// NewFrame captures the placemarks in c.
func NewFrame(c *mapobj.Collection) *Frame {
	f := new(Frame)
	f.Version = c.Version()
	for _, p := range c.Placemarks() {
		f.placemarks = append(f.placemarks, framePlacemark{p.ID(), p.Geometry(), p.Colour()})
	}
	return f
}

// FeatureCollection converts the Frame to GeoJSON, one point feature per
// placemark with its id and simplestyle marker-color.
func (f *Frame) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range f.placemarks {
		feature := geojson.NewFeature(p.point.Orb())
		feature.ID = p.id
		feature.Properties["id"] = p.id
		feature.Properties["marker-color"] = p.colour.Clamped().Hex()
		fc.Append(feature)
	}
	return fc
}

// MarshalBinary encodes the Frame as a GeoJSON FeatureCollection.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	return f.FeatureCollection().MarshalJSON()
}
