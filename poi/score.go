/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"strconv"

	"github.com/thm-tools/cellgrid/geo"
)

// Score estimates how many signal posts a cell is worth: its own plus the average over the
// neighbouring cells that hold any.
type Score struct {
	Cell       geo.Cell `json:"cell"`
	Value      float64  `json:"score"`
	HasUnknown bool     `json:"hasUnknown"`
}

// Label formats the score with one decimal, followed by ? when unclassified points are close.
func (s Score) Label() string {
	l := strconv.FormatFloat(s.Value, 'f', 1, 64)
	if s.HasUnknown {
		l += "?"
	}
	return l
}

// CellScore scores c from groups built at the level of c.
func CellScore(groups Groups, c geo.Cell) Score {
	var cellsWithSignalPosts, totalSignalPosts int
	var hasUnknown bool
	for _, n := range c.Neighbors(geo.AllDeltas...) {
		g, ok := groups[n.Key()]
		if !ok {
			continue
		}
		if len(g.SignalPosts) > 0 {
			cellsWithSignalPosts++
			totalSignalPosts += len(g.SignalPosts)
		}
		if len(g.NotClassified) > 0 {
			hasUnknown = true
		}
	}

	var score float64
	if g, ok := groups[c.Key()]; ok {
		score = float64(len(g.SignalPosts))
		if len(g.NotClassified) > 0 {
			hasUnknown = true
		}
	}
	if totalSignalPosts > 0 {
		score += float64(totalSignalPosts) / float64(cellsWithSignalPosts)
	}
	return Score{Cell: c, Value: score, HasUnknown: hasUnknown}
}

// Scores returns the positive scores of the cells of groups that lie fully within b, ordered by
// cell key.
func Scores(groups Groups, b geo.Bounds) []Score {
	within := FilterWithin(groups, b)
	var out []Score
	for _, key := range within.Keys() {
		if s := CellScore(groups, within[key].Cell); s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

// FilterWithin keeps the groups whose cell lies entirely inside b. Points near the edge of a view
// may belong to cells that were only partly loaded, those are dropped.
func FilterWithin(groups Groups, b geo.Bounds) Groups {
	out := make(Groups)
	for key, g := range groups {
		if b.ContainsCell(g.Cell) {
			out[key] = g
		}
	}
	return out
}

// FilterPoints keeps the points of set that lie inside b.
func FilterPoints(set Set, b geo.Bounds) Set {
	out := make(Set)
	for guid, p := range set {
		if b.ContainsPoint(p.LatLng()) {
			out[guid] = p
		}
	}
	return out
}
