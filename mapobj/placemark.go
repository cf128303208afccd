// Package mapobj holds the placemarks shown on a map.
package mapobj

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/clusteranim/geo"
)

// ErrRemoved is returned when moving a placemark that is no longer on the map.
var ErrRemoved = errors.New("mapobj: placemark removed from map")

// Placemark is a marker on the map with a mutable position.
type Placemark struct {
	id     string
	colour colorful.Color

	mu      sync.RWMutex
	point   geo.Point
	removed bool
	version *atomic.Uint64
}

// ID returns the placemark identifier.
func (p *Placemark) ID() string {
	return p.id
}

// Colour returns the colour the placemark is drawn in.
func (p *Placemark) Colour() colorful.Color {
	return p.colour
}

// Geometry returns the current position.
func (p *Placemark) Geometry() geo.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.point
}

// SetGeometry moves the placemark to point.
func (p *Placemark) SetGeometry(point geo.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.removed {
		return fmt.Errorf("%s: %w", p.id, ErrRemoved)
	}
	p.point = point
	p.version.Add(1)
	return nil
}

// Collection is an ordered set of placemarks.
type Collection struct {
	mu         sync.RWMutex
	placemarks map[string]*Placemark
	order      []string
	version    atomic.Uint64
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	c := new(Collection)
	c.placemarks = make(map[string]*Placemark)
	return c
}

// AddPlacemark adds a placemark at point.
func (c *Collection) AddPlacemark(id string, point geo.Point, colour colorful.Color) (*Placemark, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.placemarks[id]; found {
		return nil, fmt.Errorf("mapobj: duplicate placemark %q", id)
	}

	p := &Placemark{id: id, colour: colour, point: point, version: &c.version}
	c.placemarks[id] = p
	c.order = append(c.order, id)
	c.version.Add(1)
	return p, nil
}

// Placemark returns the placemark with the given id.
func (c *Collection) Placemark(id string) (*Placemark, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, found := c.placemarks[id]
	return p, found
}

// Remove takes a placemark off the map. Later calls to its SetGeometry fail
// with ErrRemoved.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, found := c.placemarks[id]
	if !found {
		return false
	}

	p.mu.Lock()
	p.removed = true
	p.mu.Unlock()

	delete(c.placemarks, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.version.Add(1)
	return true
}

// Placemarks returns the placemarks in insertion order.
func (c *Collection) Placemarks() []*Placemark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Placemark, len(c.order))
	for i, id := range c.order {
		out[i] = c.placemarks[id]
	}
	return out
}

// Len returns the number of placemarks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Version changes whenever a placemark is added, removed or moved.
func (c *Collection) Version() uint64 {
	return c.version.Load()
}
