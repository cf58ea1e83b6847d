/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundsEdges(t *testing.T) {
	b := NewBounds(10, 20, 30, 40)
	require.InDelta(t, 10, b.South(), 1e-12)
	require.InDelta(t, 20, b.West(), 1e-12)
	require.InDelta(t, 30, b.North(), 1e-12)
	require.InDelta(t, 40, b.East(), 1e-12)
	require.False(t, b.IsEmpty())

	c := b.Center()
	require.InDelta(t, 20, c.Lat, 1e-12)
	require.InDelta(t, 30, c.Lng, 1e-12)

	require.True(t, b.ContainsPoint(LatLng{20, 30}))
	require.False(t, b.ContainsPoint(LatLng{20, 50}))
	require.False(t, b.ContainsPoint(LatLng{-20, 30}))
}

func TestBoundsAntimeridian(t *testing.T) {
	b := NewBounds(-10, 170, 10, -170)
	require.True(t, b.ContainsPoint(LatLng{0, 180}))
	require.True(t, b.ContainsPoint(LatLng{0, 175}))
	require.True(t, b.ContainsPoint(LatLng{0, -175}))
	require.False(t, b.ContainsPoint(LatLng{0, 0}))

	// Wrapped longitudes.
	b = NewBounds(-10, 530, 10, 550)
	require.True(t, b.ContainsPoint(LatLng{0, 175}))

	b = NewBounds(-10, -200, 10, 200)
	require.True(t, b.ContainsPoint(LatLng{0, 0}))
	require.True(t, b.ContainsPoint(LatLng{0, 179.9}))
}

func TestBoundsCells(t *testing.T) {
	b := NewBounds(-1, -1, 1, 1)

	small := FromLatLng(LatLng{0.1, 0.1}, 10)
	require.True(t, b.ContainsCell(small))
	require.True(t, b.IntersectsCell(small))

	big := FromFaceIJ(0, 1, 1, 1)
	require.False(t, b.ContainsCell(big))
	require.True(t, b.IntersectsCell(big))

	far := FromLatLng(LatLng{40, 100}, 10)
	require.False(t, b.IntersectsCell(far))
	require.False(t, b.ContainsCell(far))
}

func TestCellBoundsCoverCell(t *testing.T) {
	for _, ll := range samplePoints(200) {
		c := FromLatLng(ll, 8)
		cb := CellBounds(c)
		require.True(t, cb.ContainsPoint(c.Center()), "%v", c)
		for _, corner := range c.Corners() {
			require.True(t, cb.ContainsPoint(corner), "%v", c)
		}
	}
}

func TestCellBoundsPole(t *testing.T) {
	c := FromLatLng(LatLng{90, 0}, 3)
	require.Equal(t, 2, c.Face())
	cb := CellBounds(c)
	require.InDelta(t, 90, cb.North(), 1e-9)
	require.True(t, cb.ContainsPoint(LatLng{89.9, 100}))
	require.True(t, cb.ContainsPoint(LatLng{89.9, -100}))

	c = FromLatLng(LatLng{-90, 0}, 4)
	require.Equal(t, 5, c.Face())
	require.InDelta(t, -90, CellBounds(c).South(), 1e-9)
}
