/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package exchange

import (
	"encoding/json"
	"io"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/store"
)

// rawItem is one entry of a storage blob as written by older tools: coordinates may be strings
// and any field may be missing.
type rawItem struct {
	GUID      string      `json:"guid"`
	Lat       interface{} `json:"lat"`
	Lng       interface{} `json:"lng"`
	Name      string      `json:"name"`
	Sponsored interface{} `json:"sponsored"`
	Image     string      `json:"image"`
}

// Blob is a decoded storage blob: kind name -> entry id -> entry.
type Blob map[string]map[string]rawItem

// ReadBlob decodes a storage blob {"signalposts": {...}, "raids": {...}, "notthm": {...}}.
func ReadBlob(r io.Reader) (Blob, error) {
	var b Blob
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrapf(err, "while decoding storage blob")
	}
	return b, nil
}

// WriteBlob writes sets as a storage blob keeping only the stored fields of each point.
func WriteBlob(w io.Writer, sets map[poi.Kind]poi.Set) error {
	out := make(map[poi.Kind]poi.Set, len(poi.Kinds))
	for _, k := range poi.Kinds {
		out[k] = sets[k].Minimal()
	}
	return errors.Wrapf(json.NewEncoder(w).Encode(out), "while writing storage blob")
}

// ImportStats counts what happened to the entries of an import.
type ImportStats struct {
	Added   int `json:"added"`
	Exists  int `json:"exists"`
	Invalid int `json:"invalid"`
}

// Points converts the blob into points by kind. Entries without coordinates or name are counted as
// invalid. The GUID falls back to the entry id, then to a fresh random one.
func (b Blob) Points() (map[poi.Kind][]poi.POI, int) {
	out := make(map[poi.Kind][]poi.POI)
	var invalid int
	for name, items := range b {
		kind, err := poi.ParseKind(name)
		if err != nil {
			glog.Warningf("Skipping %d entries of unknown kind %q", len(items), name)
			invalid += len(items)
			continue
		}
		for id, item := range items {
			p, ok := item.toPOI(id)
			if !ok {
				glog.V(2).Infof("Skipping entry %q of %s without coordinates or name", id, name)
				invalid++
				continue
			}
			out[kind] = append(out[kind], p)
		}
	}
	for _, pois := range out {
		poi.SortByName(pois)
	}
	return out, invalid
}

func (item rawItem) toPOI(id string) (poi.POI, bool) {
	if item.Lat == nil || item.Lng == nil || item.Name == "" {
		return poi.POI{}, false
	}
	lat, err := cast.ToFloat64E(item.Lat)
	if err != nil {
		return poi.POI{}, false
	}
	lng, err := cast.ToFloat64E(item.Lng)
	if err != nil {
		return poi.POI{}, false
	}
	guid := item.GUID
	if guid == "" {
		guid = id
	}
	if guid == "" {
		guid = uuid.NewString()
	}
	return poi.POI{
		GUID:      guid,
		Lat:       lat,
		Lng:       lng,
		Name:      item.Name,
		Sponsored: cast.ToBool(item.Sponsored),
		Image:     item.Image,
	}, true
}

// Import adds the entries of b to s. Entries whose GUID is already stored, under any kind, are
// left alone.
func Import(s *store.Store, b Blob) (ImportStats, error) {
	var st ImportStats
	points, invalid := b.Points()
	st.Invalid = invalid
	for _, kind := range poi.Kinds {
		var fresh []poi.POI
		for _, p := range points[kind] {
			ok, err := s.Has(p.GUID)
			if err != nil {
				return st, err
			}
			if ok {
				st.Exists++
				continue
			}
			fresh = append(fresh, p)
		}
		if err := s.PutMany(kind, fresh); err != nil {
			return st, errors.Wrapf(err, "while importing %s", kind)
		}
		st.Added += len(fresh)
	}
	return st, nil
}

// ImportPoints adds pois under kind, skipping GUIDs that are already stored.
func ImportPoints(s *store.Store, kind poi.Kind, pois []poi.POI) (ImportStats, error) {
	return Import(s, blobOf(kind, pois))
}

func blobOf(kind poi.Kind, pois []poi.POI) Blob {
	items := make(map[string]rawItem, len(pois))
	for _, p := range pois {
		items[p.GUID] = rawItem{GUID: p.GUID, Lat: p.Lat, Lng: p.Lng, Name: p.Name,
			Sponsored: p.Sponsored, Image: p.Image}
	}
	return Blob{string(kind): items}
}
