/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWalkWholeSphere(t *testing.T) {
	seen := make(map[Cell]int)
	n := Walk(FromLatLng(LatLng{0, 0}, 3), nil, func(c Cell) bool {
		seen[c]++
		return true
	})
	require.Equal(t, NumFaces*64, n)
	require.Len(t, seen, NumFaces*64)
	for c, cnt := range seen {
		require.Equal(t, 1, cnt, "%v visited more than once", c)
	}
}

func TestWalkPredicate(t *testing.T) {
	var rejected int
	n := Walk(FromFaceIJ(0, 1, 1, 2), DefaultDeltas, func(c Cell) bool {
		if c.Face() != 0 {
			rejected++
			return false
		}
		return true
	})
	require.Equal(t, 16, n)
	// Each of the four face edges holds four cells, each stepping onto a distinct outside cell.
	require.Equal(t, 16, rejected)
}

func TestWalkBounds(t *testing.T) {
	b := NewBounds(-0.05, -0.05, 0.05, 0.05)
	var cells []Cell
	n := Walk(FromLatLng(b.Center(), 14), AllDeltas, func(c Cell) bool {
		if !b.IntersectsCell(c) {
			return false
		}
		cells = append(cells, c)
		return true
	})
	require.Equal(t, len(cells), n)
	require.Greater(t, n, 4)
	for _, c := range cells {
		require.True(t, b.IntersectsCell(c))
	}
}

func TestWalkLimit(t *testing.T) {
	n, err := WalkContext(context.Background(), FromLatLng(LatLng{10, 10}, 10), AllDeltas, 25,
		func(Cell) bool { return true })
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrWalkLimit))
	require.Equal(t, 25, n)
}

func TestWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := WalkContext(ctx, FromLatLng(LatLng{10, 10}, 10), nil, 0,
		func(Cell) bool { return true })
	require.Equal(t, context.Canceled, err)
	require.Zero(t, n)
}
