/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Bounds is a latitude/longitude rectangle, typically the visible part of a map. Longitude ranges
// may cross the antimeridian.
type Bounds struct {
	rect s2.Rect
}

var poles = [2]LatLng{{Lat: 90}, {Lat: -90}}

// NewBounds builds the rectangle spanning south..north and west..east (eastwards from west).
// Longitudes outside [-180, 180] are wrapped, a span of 360 degrees or more covers every longitude.
func NewBounds(south, west, north, east float64) Bounds {
	lat := r1.Interval{Lo: clampLat(south) * d2r, Hi: clampLat(north) * d2r}
	lng := s1.FullInterval()
	if east-west < 360 {
		lng = s1.IntervalFromEndpoints(wrapLng(west)*d2r, wrapLng(east)*d2r)
	}
	return Bounds{rect: s2.Rect{Lat: lat, Lng: lng}}
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func wrapLng(lng float64) float64 {
	return math.Remainder(lng, 360)
}

// CellBounds returns the rectangle spanned by the corners of c. A cell holding a pole has no
// corner at the pole, so its rectangle is stretched to reach it.
func CellBounds(c Cell) Bounds {
	corners := c.Corners()
	rect := s2.RectFromLatLng(corners[0].toS2())
	for _, ll := range corners[1:] {
		rect = rect.AddPoint(ll.toS2())
	}
	for _, pole := range poles {
		if FromLatLng(pole, c.level) == c {
			rect = s2.Rect{Lat: rect.Lat.AddPoint(pole.Lat * d2r), Lng: s1.FullInterval()}
		}
	}
	return Bounds{rect: rect}
}

func (b Bounds) South() float64 { return b.rect.Lat.Lo * r2d }
func (b Bounds) North() float64 { return b.rect.Lat.Hi * r2d }
func (b Bounds) West() float64  { return b.rect.Lng.Lo * r2d }
func (b Bounds) East() float64  { return b.rect.Lng.Hi * r2d }

func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

func (b Bounds) Center() LatLng {
	c := b.rect.Center()
	return LatLng{Lat: c.Lat.Degrees(), Lng: c.Lng.Degrees()}
}

func (b Bounds) Intersects(o Bounds) bool {
	return b.rect.Intersects(o.rect)
}

func (b Bounds) Contains(o Bounds) bool {
	return b.rect.Contains(o.rect)
}

func (b Bounds) ContainsPoint(ll LatLng) bool {
	return b.rect.ContainsLatLng(ll.toS2())
}

// IntersectsCell reports whether any part of the corner rectangle of c is inside b. This is the
// test used to decide whether a cell should be drawn.
func (b Bounds) IntersectsCell(c Cell) bool {
	return b.Intersects(CellBounds(c))
}

// ContainsCell reports whether the corner rectangle of c lies entirely inside b.
func (b Bounds) ContainsCell(c Cell) bool {
	return b.Contains(CellBounds(c))
}
