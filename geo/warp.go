/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// The quadratic transform between the linear face coordinate u in [-1, 1] and s in [0, 1]. It
// keeps cells of one level closer to equal area than a linear split of the face would.

func uvToST(u float64) float64 {
	if u >= 0 {
		return 0.5 * math.Sqrt(1+3*u)
	}
	return 1 - 0.5*math.Sqrt(1-3*u)
}

func stToUV(s float64) float64 {
	if s >= 0.5 {
		return (1 / 3.0) * (4*s*s - 1)
	}
	return (1 / 3.0) * (1 - 4*(1-s)*(1-s))
}

func uvToSTPoint(uv r2.Point) r2.Point {
	return r2.Point{X: uvToST(uv.X), Y: uvToST(uv.Y)}
}

func stToUVPoint(st r2.Point) r2.Point {
	return r2.Point{X: stToUV(st.X), Y: stToUV(st.Y)}
}
