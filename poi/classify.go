/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"fmt"
	"sort"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/x"
)

// CellGroup is the content of one cell.
type CellGroup struct {
	Cell          geo.Cell `json:"cell"`
	SignalPosts   []POI    `json:"signalposts"`
	Raids         []POI    `json:"raids"`
	NotClassified []POI    `json:"notClassified"`
	NotTHM        []POI    `json:"notTHM"`
}

// Empty reports whether no point of any kind sits in the group.
func (g *CellGroup) Empty() bool {
	return len(g.SignalPosts)+len(g.Raids)+len(g.NotClassified)+len(g.NotTHM) == 0
}

func (g *CellGroup) sort() {
	SortByName(g.SignalPosts)
	SortByName(g.Raids)
	SortByName(g.NotClassified)
	SortByName(g.NotTHM)
}

// Groups maps canonical cell keys to the points inside each cell.
type Groups map[string]*CellGroup

// Keys returns the cell keys in sorted order.
func (gs Groups) Keys() []string {
	keys := make([]string, 0, len(gs))
	for k := range gs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Classifier assigns points to cells. The cell key of a point at a level is computed once and
// remembered, so regrouping the same points, as a map view does on every move, stays cheap.
type Classifier struct {
	keys *ristretto.Cache[string, string]
}

// NewClassifier returns a classifier remembering up to maxItems cell keys.
func NewClassifier(maxItems int64) (*Classifier, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, x.Wrapf(err, "while creating cell key cache")
	}
	return &Classifier{keys: cache}, nil
}

func (c *Classifier) Close() {
	if m := c.keys.Metrics; m != nil {
		glog.V(2).Infof("Cell key cache: %s", m)
	}
	c.keys.Close()
}

// The memo key holds the position as well as the GUID, a point that moved gets a fresh key.
func memoKey(p POI, level int) string {
	return fmt.Sprintf("%s@%d|%v,%v", p.GUID, level, p.Lat, p.Lng)
}

// CellKey returns the canonical key of the cell holding p at level.
func (c *Classifier) CellKey(p POI, level int) string {
	mk := memoKey(p, level)
	if key, ok := c.keys.Get(mk); ok {
		return key
	}
	key := geo.FromLatLng(p.LatLng(), level).Key()
	c.keys.Set(mk, key, 1)
	return key
}

type keyed struct {
	key string
	poi POI
}

// keysOf resolves the cell keys of every point of the given sets, one goroutine per set.
func (c *Classifier) keysOf(level int, sets []Set) [][]keyed {
	out := make([][]keyed, len(sets))
	var g errgroup.Group
	for idx, set := range sets {
		g.Go(func() error {
			ks := make([]keyed, 0, len(set))
			for _, p := range set {
				ks = append(ks, keyed{key: c.CellKey(p, level), poi: p})
			}
			out[idx] = ks
			return nil
		})
	}
	x.Check(g.Wait())
	return out
}

// Group buckets the stored points and the unclassified ones into cells of the given level.
// Cells without points are absent. Points inside a group are sorted by name.
func (c *Classifier) Group(level int, stored map[Kind]Set, unclassified Set) Groups {
	sets := []Set{stored[SignalPosts], stored[Raids], unclassified, stored[NotTHM]}
	adders := []func(*CellGroup, POI){
		func(g *CellGroup, p POI) { g.SignalPosts = append(g.SignalPosts, p) },
		func(g *CellGroup, p POI) { g.Raids = append(g.Raids, p) },
		func(g *CellGroup, p POI) { g.NotClassified = append(g.NotClassified, p) },
		func(g *CellGroup, p POI) { g.NotTHM = append(g.NotTHM, p) },
	}

	groups := make(Groups)
	for idx, ks := range c.keysOf(level, sets) {
		for _, k := range ks {
			g, ok := groups[k.key]
			if !ok {
				g = &CellGroup{Cell: geo.FromLatLng(k.poi.LatLng(), level)}
				groups[k.key] = g
			}
			adders[idx](g, k.poi)
		}
	}
	for _, g := range groups {
		g.sort()
	}
	return groups
}

// FindCellItems returns the points of items that fall in the cell with the given key.
func (c *Classifier) FindCellItems(key string, level int, items Set) []POI {
	var out []POI
	for _, p := range items {
		if c.CellKey(p, level) == key {
			out = append(out, p)
		}
	}
	SortByName(out)
	return out
}
