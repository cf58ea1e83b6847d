/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package poi buckets points of interest into grid cells, scores cells and works out which stored
// points are missing, moved or still waiting to be classified.
package poi

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/thm-tools/cellgrid/geo"
)

// Kind is the classification of a stored point.
type Kind string

const (
	SignalPosts Kind = "signalposts"
	Raids       Kind = "raids"
	NotTHM      Kind = "notthm"
)

// Kinds lists every kind in storage order.
var Kinds = []Kind{SignalPosts, Raids, NotTHM}

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown kind")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case SignalPosts, Raids, NotTHM:
		return k, nil
	case "signalpost":
		return SignalPosts, nil
	case "raid":
		return Raids, nil
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// POI is a point of interest. Exists and NewGUID are only meaningful during an analysis and are
// never persisted.
type POI struct {
	GUID      string  `json:"guid"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Name      string  `json:"name,omitempty"`
	Sponsored bool    `json:"sponsored,omitempty"`
	Image     string  `json:"image,omitempty"`
	Exists    bool    `json:"exists,omitempty"`
	NewGUID   string  `json:"newGuid,omitempty"`
}

func (p POI) LatLng() geo.LatLng {
	return geo.LatLng{Lat: p.Lat, Lng: p.Lng}
}

// Minimal drops everything but the fields that are stored.
func (p POI) Minimal() POI {
	return POI{GUID: p.GUID, Lat: p.Lat, Lng: p.Lng, Name: p.Name, Sponsored: p.Sponsored}
}

// Set holds points keyed by GUID.
type Set map[string]POI

// Minimal returns a copy of s with every point reduced by POI.Minimal.
func (s Set) Minimal() Set {
	out := make(Set, len(s))
	for guid, p := range s {
		out[guid] = p.Minimal()
	}
	return out
}

// Sorted returns the points ordered by name, nameless points first.
func (s Set) Sorted() []POI {
	out := make([]POI, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	SortByName(out)
	return out
}

// SortByName orders points by name, nameless points first. Ties are broken by GUID so the order
// is stable across runs.
func SortByName(pois []POI) {
	sort.Slice(pois, func(a, b int) bool {
		pa, pb := pois[a], pois[b]
		if pa.Name != pb.Name {
			return pa.Name < pb.Name
		}
		return pa.GUID < pb.GUID
	})
}
