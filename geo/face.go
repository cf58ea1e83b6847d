/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NumFaces is the number of cube faces. Faces 0-2 sit on the positive x, y and z axes, faces 3-5
// on the negative ones.
const NumFaces = 6

// ErrInvalidFace is raised when face dependent projection code is handed a face outside
// [0, NumFaces). It signals a programming error and is delivered through a panic.
var ErrInvalidFace = errors.New("invalid face")

// faceAxes describes one cube face: the axis the face is normal to and the axes (with signs) that
// increasing u and v run along. Both projection directions read this table.
type faceAxes struct {
	normal, u, v        r3.Axis
	nSign, uSign, vSign float64
}

var faces = [NumFaces]faceAxes{
	{normal: r3.XAxis, nSign: 1, u: r3.YAxis, uSign: 1, v: r3.ZAxis, vSign: 1},
	{normal: r3.YAxis, nSign: 1, u: r3.XAxis, uSign: -1, v: r3.ZAxis, vSign: 1},
	{normal: r3.ZAxis, nSign: 1, u: r3.XAxis, uSign: -1, v: r3.YAxis, vSign: -1},
	{normal: r3.XAxis, nSign: -1, u: r3.ZAxis, uSign: -1, v: r3.YAxis, vSign: -1},
	{normal: r3.YAxis, nSign: -1, u: r3.ZAxis, uSign: -1, v: r3.XAxis, vSign: 1},
	{normal: r3.ZAxis, nSign: -1, u: r3.YAxis, uSign: 1, v: r3.XAxis, vSign: 1},
}

func axesOf(face int) faceAxes {
	if face < 0 || face >= NumFaces {
		panic(errors.Wrapf(ErrInvalidFace, "face %d", face))
	}
	return faces[face]
}

func component(v r3.Vector, a r3.Axis) float64 {
	switch a {
	case r3.XAxis:
		return v.X
	case r3.YAxis:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(v *r3.Vector, a r3.Axis, val float64) {
	switch a {
	case r3.XAxis:
		v.X = val
	case r3.YAxis:
		v.Y = val
	default:
		v.Z = val
	}
}

// largestAbsComponent returns the axis of the component with the largest magnitude. z wins ties
// against either other axis, x only beats y when strictly larger.
func largestAbsComponent(v r3.Vector) r3.Axis {
	t := v.Abs()
	if t.X > t.Y {
		if t.X > t.Z {
			return r3.XAxis
		}
		return r3.ZAxis
	}
	if t.Y > t.Z {
		return r3.YAxis
	}
	return r3.ZAxis
}

func xyzToFaceUV(v r3.Vector) (int, r2.Point) {
	axis := largestAbsComponent(v)
	face := int(axis)
	if component(v, axis) < 0 {
		face += 3
	}
	return face, faceXYZToUV(face, v)
}

// faceXYZToUV projects v onto the plane of the given face. v does not need to lie on that face,
// the neighbour code relies on this to place points just past a face edge.
func faceXYZToUV(face int, v r3.Vector) r2.Point {
	f := axesOf(face)
	n := component(v, f.normal) * f.nSign
	return r2.Point{
		X: component(v, f.u) / (f.uSign * n),
		Y: component(v, f.v) / (f.vSign * n),
	}
}

// faceUVToXYZ is the inverse of faceXYZToUV. The result is scaled so the normal component is ±1,
// it is not normalised.
func faceUVToXYZ(face int, uv r2.Point) r3.Vector {
	f := axesOf(face)
	var v r3.Vector
	setComponent(&v, f.normal, f.nSign)
	setComponent(&v, f.u, f.uSign*uv.X)
	setComponent(&v, f.v, f.vSign*uv.Y)
	return v
}
