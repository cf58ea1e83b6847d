/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWarpInverse(t *testing.T) {
	for k := 0; k <= 100; k++ {
		s := float64(k) / 100
		require.InDelta(t, s, uvToST(stToUV(s)), 1e-9, "s=%v", s)

		u := -1 + 2*float64(k)/100
		require.InDelta(t, u, stToUV(uvToST(u)), 1e-9, "u=%v", u)
	}
}

func TestWarpEndpoints(t *testing.T) {
	require.Equal(t, 0.0, uvToST(-1))
	require.Equal(t, 0.5, uvToST(0))
	require.Equal(t, 1.0, uvToST(1))
	require.Equal(t, -1.0, stToUV(0))
	require.Equal(t, 0.0, stToUV(0.5))
	require.Equal(t, 1.0, stToUV(1))
}

func TestWarpMonotonic(t *testing.T) {
	prev := uvToST(-1)
	for k := 1; k <= 200; k++ {
		cur := uvToST(-1 + float64(k)/100)
		require.Greater(t, cur, prev)
		prev = cur
	}
}

func TestGridIndex(t *testing.T) {
	require.Equal(t, 0, stToIJ(0, 3))
	require.Equal(t, 7, stToIJ(1, 3))
	require.Equal(t, 0, stToIJ(-0.1, 3))
	require.Equal(t, 7, stToIJ(1.2, 3))
	require.Equal(t, 1, stToIJ(0.5, 1))
	require.Equal(t, 0, stToIJ(0.49, 1))
	require.Equal(t, 0, stToIJ(0.99, 0))

	require.Equal(t, 0.875, ijToST(3, 2, 0.5))
	require.Equal(t, 0.75, ijToST(3, 2, 0))
	require.Equal(t, 1.0, ijToST(3, 2, 1))
	require.Equal(t, 1<<MaxLevel, sizeIJ(MaxLevel))
}
