/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// The geojson spec says that coordinates are specified as [long, lat]. Everything converted
// to and from go-geom here follows that order.

// Polygon returns the outline of c as a closed ring. Edges are straight segments between corners.
func (c Cell) Polygon() *geom.Polygon {
	ring := make([]geom.Coord, 0, 5)
	for _, ll := range c.Corners() {
		ring = append(ring, geom.Coord{ll.Lng, ll.Lat})
	}
	ring = append(ring, ring[0])
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{ring})
}

// LatLngFromGeom converts a go-geom point into a LatLng.
func LatLngFromGeom(g geom.T) (LatLng, error) {
	p, ok := g.(*geom.Point)
	if !ok {
		return LatLng{}, errors.Errorf("Cannot use a geometry of type %T as a point", g)
	}
	if p.Stride() < 2 || p.Empty() {
		return LatLng{}, errors.Errorf("Point has no coordinates")
	}
	return LatLng{Lat: p.Y(), Lng: p.X()}, nil
}

// Circle returns a closed ring of n vertices lying the given number of meters away from center.
func Circle(center LatLng, meters float64, n int) []LatLng {
	loop := s2.RegularLoop(s2.PointFromLatLng(center.toS2()), EarthAngle(meters), n)
	out := make([]LatLng, 0, n+1)
	for _, v := range loop.Vertices() {
		ll := s2.LatLngFromPoint(v)
		out = append(out, LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()})
	}
	return append(out, out[0])
}
