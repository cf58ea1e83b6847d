/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/thm-tools/cellgrid/x"
)

const (
	// MinIndexLevel is the coarsest level a point is indexed at. Approx 600m x 600m.
	MinIndexLevel = 14
	// MaxIndexLevel is the finest level a point is indexed at. Approx 75m x 75m.
	MaxIndexLevel = 17

	// ScoreLevel is the level cell scores are computed and exported at.
	ScoreLevel = 15
	// AnalysisLevel is the level used to match stored points against freshly seen ones.
	AnalysisLevel = 17
)

// IndexCells returns the cells containing ll from minLevel to maxLevel, both inclusive. The finest
// cell is computed once and the coarser ones are its parents.
func IndexCells(ll LatLng, minLevel, maxLevel int) []Cell {
	x.AssertTruef(minLevel >= 0 && maxLevel <= MaxLevel && minLevel <= maxLevel,
		"invalid index levels [%d, %d]", minLevel, maxLevel)
	leaf := FromLatLng(ll, maxLevel)
	cells := make([]Cell, maxLevel-minLevel+1)
	for l := minLevel; l <= maxLevel; l++ {
		cells[l-minLevel] = leaf.Parent(l)
	}
	return cells
}

// IndexTokens returns the canonical keys of IndexCells.
func IndexTokens(ll LatLng, minLevel, maxLevel int) []string {
	cells := IndexCells(ll, minLevel, maxLevel)
	toks := make([]string, len(cells))
	for i, c := range cells {
		toks[i] = c.Key()
	}
	return toks
}
