/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// MaxLevel is the deepest subdivision supported. 1<<MaxLevel cells per face axis is far below a
// centimetre, and keeps every index comfortably inside an int.
const MaxLevel = 30

// cornerOffsets are the offsets inside a cell of its four corners. The order is the winding used
// when the corners are drawn as a closed polygon.
var cornerOffsets = [4]r2.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

var centerOffset = r2.Point{X: 0.5, Y: 0.5}

// sizeIJ is the number of cells along one face axis at the given level.
func sizeIJ(level int) int {
	return 1 << uint(level)
}

// stToIJ discretises s. The clamp maps s == 1 onto the last cell.
func stToIJ(s float64, level int) int {
	size := sizeIJ(level)
	ij := int(math.Floor(s * float64(size)))
	return max(0, min(size-1, ij))
}

func ijToST(i, level int, offset float64) float64 {
	return (float64(i) + offset) / float64(sizeIJ(level))
}
