/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

const (
	d2r = math.Pi / 180.0
	r2d = 180.0 / math.Pi
)

// LatLng is a point on the earth in decimal degrees. The earth is treated as a sphere, no datum
// or ellipsoid correction is applied.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (ll LatLng) String() string {
	return fmt.Sprintf("[%.7f, %.7f]", ll.Lat, ll.Lng)
}

func (ll LatLng) toS2() s2.LatLng {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lng)
}

func latLngToXYZ(ll LatLng) r3.Vector {
	phi := ll.Lat * d2r
	theta := ll.Lng * d2r
	cosphi := math.Cos(phi)
	return r3.Vector{X: math.Cos(theta) * cosphi, Y: math.Sin(theta) * cosphi, Z: math.Sin(phi)}
}

// xyzToLatLng is undefined for the zero vector, which the cell pipeline never produces.
func xyzToLatLng(v r3.Vector) LatLng {
	return LatLng{
		Lat: math.Atan2(v.Z, math.Hypot(v.X, v.Y)) * r2d,
		Lng: math.Atan2(v.Y, v.X) * r2d,
	}
}
