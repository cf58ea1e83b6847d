/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Lengths and areas on a spherical earth. Cell sizes shown to users go through these so they
// print in km, m or cm as fits.

// EarthRadiusMeters is the mean radius of the sphere the grid is projected onto.
const EarthRadiusMeters = 6371e3

// Length is a distance on the earth surface in meters.
type Length float64

// Area is an area on the earth surface in square meters.
type Area float64

// EarthDistance scales a central angle to meters.
func EarthDistance(angle s1.Angle) Length {
	return Length(angle.Radians() * EarthRadiusMeters)
}

// EarthAngle is the central angle spanning dist meters.
func EarthAngle(dist float64) s1.Angle {
	return s1.Angle(dist / EarthRadiusMeters)
}

// EarthArea scales an area on the unit sphere, in steradians, to square meters.
func EarthArea(a float64) Area {
	return Area(a * EarthRadiusMeters * EarthRadiusMeters)
}

// Distance is the great circle distance between a and b.
func Distance(a, b LatLng) Length {
	return EarthDistance(a.toS2().Distance(b.toS2()))
}

// EdgeLengths returns the great circle length of each cell edge, edge k running from corner k to
// corner k+1.
func (c Cell) EdgeLengths() [4]Length {
	corners := c.Corners()
	var out [4]Length
	for k := range corners {
		out[k] = Distance(corners[k], corners[(k+1)%4])
	}
	return out
}

// ApproxArea is the area of the spherical quadrilateral through the cell corners.
func (c Cell) ApproxArea() Area {
	var pts [4]s2.Point
	for k, ll := range c.Corners() {
		pts[k] = s2.PointFromLatLng(ll.toS2())
	}
	return EarthArea(s2.PointArea(pts[0], pts[1], pts[2]) + s2.PointArea(pts[0], pts[2], pts[3]))
}

// String prints l in km above a kilometre and in cm below a metre.
func (l Length) String() string {
	switch {
	case l > 1e3:
		return fmt.Sprintf("%.3f km", l/1e3)
	case l < 1:
		return fmt.Sprintf("%.3f cm", l*1e2)
	}
	return fmt.Sprintf("%.3f m", l)
}

// String prints a in km^2 above a square kilometre and in cm^2 below a square metre.
func (a Area) String() string {
	switch {
	case a > 1e6:
		return fmt.Sprintf("%.3f km^2", a/1e6)
	case a < 1:
		return fmt.Sprintf("%.3f cm^2", a*1e4)
	}
	return fmt.Sprintf("%.3f m^2", a)
}

// Info describes a cell for display.
type Info struct {
	Cell    Descriptor `json:"cell"`
	Key     string     `json:"key"`
	Center  LatLng     `json:"center"`
	Corners [4]LatLng  `json:"corners"`
	Edge    string     `json:"edge"`
	Area    string     `json:"area"`
}

// Info returns the description of c. Edge is the mean edge length.
func (c Cell) Info() Info {
	var edge Length
	for _, l := range c.EdgeLengths() {
		edge += l
	}
	return Info{
		Cell:    c.Descriptor(),
		Key:     c.Key(),
		Center:  c.Center(),
		Corners: c.Corners(),
		Edge:    (edge / 4).String(),
		Area:    c.ApproxArea().String(),
	}
}
