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
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
)

// PointFeature returns p as a GeoJSON point feature. The GUID is the feature id.
func PointFeature(p poi.POI, kind poi.Kind) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{p.Lng, p.Lat})
	f.ID = p.GUID
	f.SetProperty("guid", p.GUID)
	f.SetProperty("name", p.Name)
	if kind != "" {
		f.SetProperty("kind", string(kind))
	}
	if p.Sponsored {
		f.SetProperty("sponsored", true)
	}
	return f
}

// WriteGeoJSON writes every point of sets as one FeatureCollection.
func WriteGeoJSON(w io.Writer, sets map[poi.Kind]poi.Set) error {
	fc := geojson.NewFeatureCollection()
	for _, k := range poi.Kinds {
		for _, p := range sets[k].Sorted() {
			fc.AddFeature(PointFeature(p, k))
		}
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "while encoding GeoJSON")
	}
	_, err = w.Write(data)
	return err
}

// ReadGeoJSON reads the point features of a FeatureCollection. Features that are not points are
// skipped. The GUID comes from the feature id or a guid property and is generated when both are
// missing; the name comes from a name or title property.
func ReadGeoJSON(r io.Reader) ([]poi.POI, error) {
	var fc geomjson.FeatureCollection
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "while decoding GeoJSON")
	}

	var out []poi.POI
	for idx, f := range fc.Features {
		ll, err := geo.LatLngFromGeom(f.Geometry)
		if err != nil {
			glog.V(2).Infof("Skipping feature %d: %v", idx, err)
			continue
		}
		p := poi.POI{GUID: f.ID, Lat: ll.Lat, Lng: ll.Lng}
		if p.GUID == "" {
			p.GUID = cast.ToString(f.Properties["guid"])
		}
		if p.GUID == "" {
			p.GUID = uuid.NewString()
		}
		p.Name = cast.ToString(f.Properties["name"])
		if p.Name == "" {
			p.Name = cast.ToString(f.Properties["title"])
		}
		p.Sponsored = cast.ToBool(f.Properties["sponsored"])
		p.Image = cast.ToString(f.Properties["image"])
		out = append(out, p)
	}
	return out, nil
}

// CellExport is one cell of the per cell export.
type CellExport struct {
	Cell        geo.Descriptor     `json:"cell"`
	Center      geo.LatLng         `json:"center"`
	Corners     [4]geo.LatLng      `json:"corners"`
	Polygon     *geomjson.Geometry `json:"polygon"`
	SignalPosts []poi.POI          `json:"signalposts"`
	Raids       []poi.POI          `json:"raids"`
}

// WriteCells writes the groups that hold signal posts or raids, keyed by cell key.
func WriteCells(w io.Writer, groups poi.Groups) error {
	out := make(map[string]CellExport)
	for key, g := range groups {
		if len(g.SignalPosts) == 0 && len(g.Raids) == 0 {
			continue
		}
		polygon, err := geomjson.Encode(g.Cell.Polygon())
		if err != nil {
			return errors.Wrapf(err, "while encoding cell %s", key)
		}
		out[key] = CellExport{
			Cell:        g.Cell.Descriptor(),
			Center:      g.Cell.Center(),
			Corners:     g.Cell.Corners(),
			Polygon:     polygon,
			SignalPosts: minimal(g.SignalPosts),
			Raids:       minimal(g.Raids),
		}
	}
	return errors.Wrapf(json.NewEncoder(w).Encode(out), "while writing cells")
}

func minimal(pois []poi.POI) []poi.POI {
	out := make([]poi.POI, len(pois))
	for i, p := range pois {
		out[i] = p.Minimal()
	}
	return out
}
