/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"github.com/golang/glog"

	"github.com/thm-tools/cellgrid/geo"
)

// NearbyRadius is the radius in meters of the circle drawn around every point. Two points closer
// than this are too close to both be accepted.
const NearbyRadius = 20

// Move pairs a stored point with the freshly seen point it now corresponds to.
type Move struct {
	Kind   Kind `json:"kind"`
	Stored POI  `json:"stored"`
	Seen   POI  `json:"seen"`
}

// Analysis is the outcome of comparing stored points against freshly seen ones.
type Analysis struct {
	// Missing holds stored signal posts and raids that were not seen, keyed by kind.
	Missing map[Kind][]POI `json:"missing"`
	// Moved holds stored points that were seen at another position or under another GUID.
	Moved []Move `json:"moved"`
	// Skipped holds unclassified points in cells that already hold a signal post or a raid.
	Skipped []POI `json:"skipped"`
	// ToClassify holds, per cell, the unclassified points that need a decision.
	ToClassify [][]POI `json:"toClassify"`
}

// Total is the number of entries that need attention.
func (a *Analysis) Total() int {
	n := len(a.Moved) + len(a.Skipped) + len(a.ToClassify)
	for _, m := range a.Missing {
		n += len(m)
	}
	return n
}

func findKind(stored map[Kind]Set, guid string) (Kind, bool) {
	for _, k := range Kinds {
		if _, ok := stored[k][guid]; ok {
			return k, true
		}
	}
	return "", false
}

// Analyze compares the stored points with the points seen inside b. Only cells fully inside b are
// considered for the missing and classification checks, since the data of partly visible cells
// may be incomplete. stored is not modified.
func (c *Classifier) Analyze(stored map[Kind]Set, seen Set, b geo.Bounds) *Analysis {
	a := &Analysis{Missing: make(map[Kind][]POI)}

	// Work on copies, the Exists and NewGUID marks are local to this analysis.
	cur := make(map[Kind]Set, len(Kinds))
	for _, k := range Kinds {
		cur[k] = make(Set, len(stored[k]))
		for guid, p := range stored[k] {
			cur[k][guid] = p
		}
	}

	unclassified := make(Set)
	for _, p := range seen.Sorted() {
		kind, ok := findKind(cur, p.GUID)
		if !ok {
			unclassified[p.GUID] = p
			continue
		}
		item := cur[kind][p.GUID]
		if !item.Exists {
			item.Exists = true
			if item.Lat != p.Lat || item.Lng != p.Lng {
				a.Moved = append(a.Moved, Move{Kind: kind, Stored: item, Seen: p})
			}
		}
		if item.Name == "" && p.Name != "" {
			item.Name = p.Name
		}
		cur[kind][p.GUID] = item
	}

	groups := c.Group(geo.AnalysisLevel, cur, unclassified)
	within := FilterWithin(groups, b)
	for _, key := range within.Keys() {
		g := within[key]
		a.checkMissing(SignalPosts, g.SignalPosts, g.NotClassified)
		a.checkMissing(Raids, g.Raids, g.NotClassified)

		if len(g.NotClassified) == 0 {
			continue
		}
		if len(g.SignalPosts) > 0 || len(g.Raids) > 0 {
			// The cell already holds a classified point, the rest are not needed.
			a.Skipped = append(a.Skipped, g.NotClassified...)
			continue
		}
		a.ToClassify = append(a.ToClassify, g.NotClassified)
	}
	SortByName(a.Skipped)
	glog.V(2).Infof("Analysis over %d of %d cells: %d moved, %d skipped, %d to classify",
		len(within), len(groups), len(a.Moved), len(a.Skipped), len(a.ToClassify))
	return a
}

// checkMissing flags the stored items that were not seen. When an unclassified point with the same
// name sits in the cell the item is taken to have changed GUID and is reported as moved instead.
func (a *Analysis) checkMissing(kind Kind, items, notClassified []POI) {
	for _, item := range items {
		if item.Exists || item.NewGUID != "" {
			continue
		}
		if seen, ok := findCorrectGUID(item, notClassified); ok {
			item.NewGUID = seen.GUID
			a.Moved = append(a.Moved, Move{Kind: kind, Stored: item, Seen: seen})
			continue
		}
		a.Missing[kind] = append(a.Missing[kind], item)
	}
}

func findCorrectGUID(item POI, candidates []POI) (POI, bool) {
	for _, p := range candidates {
		if p.Name == item.Name && p.GUID != item.GUID {
			return p, true
		}
	}
	return POI{}, false
}
