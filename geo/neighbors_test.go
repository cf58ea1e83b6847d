/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"sort"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"
)

func TestDefaultNeighbors(t *testing.T) {
	c := FromFaceIJ(0, 5, 5, 4)
	want := []Cell{
		FromFaceIJ(0, 4, 5, 4),
		FromFaceIJ(0, 5, 4, 4),
		FromFaceIJ(0, 6, 5, 4),
		FromFaceIJ(0, 5, 6, 4),
	}
	require.Equal(t, want, c.Neighbors())
	require.Equal(t, want, c.Neighbors(DefaultDeltas...))

	for _, ll := range samplePoints(100) {
		c := FromLatLng(ll, 14)
		ns := c.Neighbors()
		require.Len(t, ns, 4)
		size := sizeIJ(c.Level())
		for k, n := range ns {
			d := DefaultDeltas[k]
			i, j := c.I()+d.DI, c.J()+d.DJ
			if i < 0 || j < 0 || i >= size || j >= size {
				continue
			}
			require.Equal(t, FromFaceIJ(c.Face(), i, j, c.Level()), n)
		}
	}
}

func TestNeighborsCustomDeltas(t *testing.T) {
	c := FromFaceIJ(3, 10, 10, 6)
	got := c.Neighbors(Delta{DI: 2, DJ: -3}, Delta{})
	require.Equal(t, []Cell{FromFaceIJ(3, 12, 7, 6), c}, got)
	require.Len(t, c.Neighbors(AllDeltas...), 8)
}

func TestNeighborsStayInRange(t *testing.T) {
	for level := 0; level <= 3; level++ {
		size := sizeIJ(level)
		for face := 0; face < NumFaces; face++ {
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					c := FromFaceIJ(face, i, j, level)
					for _, n := range c.Neighbors(AllDeltas...) {
						require.NoError(t, n.Validate(), "neighbour of %v", c)
						require.Equal(t, level, n.Level())
					}
				}
			}
		}
	}
}

func TestNeighborAcrossFace(t *testing.T) {
	c := FromFaceIJ(0, 3, 2, 2)
	n := c.Neighbors(Delta{DI: 1})[0]
	require.Equal(t, FromFaceIJ(1, 0, 2, 2), n)
	require.Equal(t, c, n.Neighbors(Delta{DI: -1})[0])

	c = FromFaceIJ(0, 1, 0, 1)
	n = c.Neighbors(Delta{DI: 1})[0]
	require.Equal(t, FromFaceIJ(1, 0, 0, 1), n)
	require.Equal(t, c, n.Neighbors(Delta{DI: -1})[0])
}

// edgeCells calls fn for every cell on the rim of every face whose position along that edge lies
// in the middle half, together with the delta that steps off the face.
func edgeCells(level int, fn func(c Cell, d Delta)) {
	size := sizeIJ(level)
	for face := 0; face < NumFaces; face++ {
		for k := size / 4; k < 3*size/4; k++ {
			fn(FromFaceIJ(face, 0, k, level), Delta{DI: -1})
			fn(FromFaceIJ(face, size-1, k, level), Delta{DI: 1})
			fn(FromFaceIJ(face, k, 0, level), Delta{DJ: -1})
			fn(FromFaceIJ(face, k, size-1, level), Delta{DJ: 1})
		}
	}
}

func TestNeighborSymmetryAcrossFaces(t *testing.T) {
	for level := 2; level <= 6; level++ {
		edgeCells(level, func(c Cell, d Delta) {
			n := c.Neighbors(d)[0]
			require.NotEqual(t, c.Face(), n.Face(), "%v %v", c, d)
			require.NoError(t, n.Validate())
			require.Contains(t, n.Neighbors(), c, "%v -> %v", c, n)
		})
	}
}

func sortedKeys(cells []Cell) []string {
	keys := make([]string, len(cells))
	for k, c := range cells {
		keys[k] = c.Key()
	}
	sort.Strings(keys)
	return keys
}

func s2Neighbors(c Cell) []Cell {
	id := s2.CellIDFromLatLng(c.Center().toS2()).Parent(c.Level())
	var out []Cell
	for _, n := range id.EdgeNeighbors() {
		ll := n.LatLng()
		out = append(out, FromLatLng(LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()},
			c.Level()))
	}
	return out
}

func TestNeighborsAgreeWithS2(t *testing.T) {
	for level := 2; level <= 5; level++ {
		edgeCells(level, func(c Cell, _ Delta) {
			require.Equal(t, sortedKeys(s2Neighbors(c)), sortedKeys(c.Neighbors()), "%v", c)
		})
	}
	for _, ll := range samplePoints(100) {
		c := FromLatLng(ll, 13)
		size := sizeIJ(13)
		if c.I() == 0 || c.J() == 0 || c.I() == size-1 || c.J() == size-1 {
			continue
		}
		require.Equal(t, sortedKeys(s2Neighbors(c)), sortedKeys(c.Neighbors()), "%v", c)
	}
}
