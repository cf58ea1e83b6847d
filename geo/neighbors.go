/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/r2"
)

// Delta is a step in grid index space.
type Delta struct {
	DI int `json:"di"`
	DJ int `json:"dj"`
}

var (
	// DefaultDeltas are the four axis aligned unit steps.
	DefaultDeltas = []Delta{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	// AllDeltas is the eight-neighbourhood, walking around the cell.
	AllDeltas = []Delta{{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}}
)

// Neighbors returns the cell reached by each delta, DefaultDeltas when none are given. A step that
// leaves the face is re-anchored on the face it lands on.
//
// Re-anchoring is reliable for steps of one cell past an edge. Larger steps, and diagonal steps at
// a cube corner where three faces meet, resolve to some valid cell near the target but not
// necessarily the one a reader would pick.
func (c Cell) Neighbors(deltas ...Delta) []Cell {
	if len(deltas) == 0 {
		deltas = DefaultDeltas
	}
	out := make([]Cell, len(deltas))
	for k, d := range deltas {
		out[k] = fromFaceIJWrap(c.face, c.i+d.DI, c.j+d.DJ, c.level)
	}
	return out
}

// fromFaceIJWrap builds a cell from an index that may lie just outside the face. The centre of
// that virtual cell sits just past the face edge; it is projected into space and mapped back onto
// whichever face it actually falls on.
func fromFaceIJWrap(face, i, j, level int) Cell {
	size := sizeIJ(level)
	if i >= 0 && j >= 0 && i < size && j < size {
		return FromFaceIJ(face, i, j, level)
	}
	st := r2.Point{X: ijToST(i, level, 0.5), Y: ijToST(j, level, 0.5)}
	xyz := faceUVToXYZ(face, stToUVPoint(st))
	nface, uv := xyzToFaceUV(xyz)
	st = uvToSTPoint(uv)
	return FromFaceIJ(nface, stToIJ(st.X, level), stToIJ(st.Y, level), level)
}
