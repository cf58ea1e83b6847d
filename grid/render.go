/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package grid renders the map overlay: grid lines of the configured levels, score labels of the
// level 15 cells and the nearby circles around points, as a GeoJSON FeatureCollection.
package grid

import (
	"context"

	"github.com/golang/glog"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/settings"
	"github.com/thm-tools/cellgrid/x"
)

const (
	// MinZoom is the lowest map zoom anything is drawn at.
	MinZoom = 5
	// MinLevel is the coarsest grid level that is drawn.
	MinLevel = 6
	// CircleZoom is the zoom above which nearby circles are drawn.
	CircleZoom = 16
	// MaxCells caps the cells drawn for one grid.
	MaxCells = 1 << 15

	circleVertices = 32
)

// Values of the "kind" property of the rendered features.
const (
	KindGrid   = "grid"
	KindFill   = "fill"
	KindText   = "text"
	KindCircle = "nearby"
)

// View is the visible part of the map.
type View struct {
	Bounds geo.Bounds
	Zoom   int
}

// Visible reports whether grid lines of the given level are drawn at the zoom of v.
func (v View) Visible(level int) bool {
	return v.Zoom >= MinZoom && level >= MinLevel && level < v.Zoom+2
}

// Render draws the overlay of view. groups must be grouped at geo.ScoreLevel: they feed the score
// labels, the fills of occupied cells and the nearby circles. Circles come first so they end up
// below the grid lines.
func Render(ctx context.Context, view View, s settings.Settings, groups poi.Groups) (
	*geojson.FeatureCollection, error) {

	fc := geojson.NewFeatureCollection()
	if view.Zoom < MinZoom {
		return fc, nil
	}
	if view.Zoom > CircleZoom {
		for _, f := range nearbyCircles(view, s, groups) {
			fc.AddFeature(f)
		}
	}

	for _, g := range s.Grids {
		if !view.Visible(g.Level) {
			continue
		}
		start := geo.FromLatLng(view.Bounds.Center(), g.Level)
		n, err := geo.WalkContext(ctx, start, geo.AllDeltas, MaxCells, func(c geo.Cell) bool {
			if !view.Bounds.IntersectsCell(c) {
				return false
			}
			fc.AddFeature(CellOutline(c, g.Color, g.Width, g.Opacity))
			if g.Level == geo.ScoreLevel {
				renderScore(fc, s, groups, c)
			}
			return true
		})
		stats.Record(ctx, x.NumWalkVisited.M(int64(n)))
		switch {
		case errors.Is(err, geo.ErrWalkLimit):
			glog.Warningf("Grid of level %d truncated at zoom %d: %v", g.Level, view.Zoom, err)
		case err != nil:
			return nil, errors.Wrapf(err, "while drawing grid of level %d", g.Level)
		}
		glog.V(3).Infof("Drew %d cells of level %d", n, g.Level)
	}
	return fc, nil
}

func renderScore(fc *geojson.FeatureCollection, s settings.Settings, groups poi.Groups,
	c geo.Cell) {

	if g, ok := groups[c.Key()]; ok && (len(g.SignalPosts) > 0 || len(g.Raids) > 0) {
		color := s.Color(settings.Cell16Filled)
		fc.AddFeature(FillCell(c, color.Color, color.Opacity))
	}
	score := poi.CellScore(groups, c)
	if score.Value <= 0 {
		return
	}
	f := TextInCell(c, score.Label())
	f.SetProperty("score", score.Value)
	f.SetProperty("unknown", score.HasUnknown)
	fc.AddFeature(f)
}

func nearbyCircles(view View, s settings.Settings, groups poi.Groups) []*geojson.Feature {
	border := s.Color(settings.NearbyCircleBorder)
	fill := s.Color(settings.NearbyCircleFill)

	var out []*geojson.Feature
	for _, key := range groups.Keys() {
		g := groups[key]
		for _, list := range [][]poi.POI{g.SignalPosts, g.Raids, g.NotClassified, g.NotTHM} {
			for _, p := range list {
				if !view.Bounds.ContainsPoint(p.LatLng()) {
					continue
				}
				f := NearbyCircle(p, border, fill)
				out = append(out, f)
			}
		}
	}
	return out
}

func coords(lls []geo.LatLng) [][]float64 {
	out := make([][]float64, len(lls))
	for i, ll := range lls {
		out[i] = []float64{ll.Lng, ll.Lat}
	}
	return out
}

func ring(c geo.Cell) [][]float64 {
	corners := c.Corners()
	return coords([]geo.LatLng{corners[0], corners[1], corners[2], corners[3], corners[0]})
}

// CellOutline is the closed border of c as a line string.
func CellOutline(c geo.Cell, color string, width int, opacity float64) *geojson.Feature {
	f := geojson.NewLineStringFeature(ring(c))
	f.SetProperty("kind", KindGrid)
	f.SetProperty("cell", c.Key())
	f.SetProperty("level", c.Level())
	f.SetProperty("color", color)
	f.SetProperty("width", width)
	f.SetProperty("opacity", opacity)
	return f
}

// FillCell is c as a filled polygon without border.
func FillCell(c geo.Cell, color string, opacity float64) *geojson.Feature {
	f := geojson.NewPolygonFeature([][][]float64{ring(c)})
	f.SetProperty("kind", KindFill)
	f.SetProperty("cell", c.Key())
	f.SetProperty("fillColor", color)
	f.SetProperty("fillOpacity", opacity)
	f.SetProperty("width", 0)
	return f
}

// TextInCell places text at the centre of c.
func TextInCell(c geo.Cell, text string) *geojson.Feature {
	center := c.Center()
	f := geojson.NewPointFeature([]float64{center.Lng, center.Lat})
	f.SetProperty("kind", KindText)
	f.SetProperty("cell", c.Key())
	f.SetProperty("text", text)
	return f
}

// NearbyCircle is the area within poi.NearbyRadius of p.
func NearbyCircle(p poi.POI, border, fill settings.Color) *geojson.Feature {
	f := geojson.NewPolygonFeature([][][]float64{
		coords(geo.Circle(p.LatLng(), poi.NearbyRadius, circleVertices)),
	})
	f.SetProperty("kind", KindCircle)
	f.SetProperty("guid", p.GUID)
	f.SetProperty("color", border.Color)
	f.SetProperty("opacity", border.Opacity)
	f.SetProperty("fillColor", fill.Color)
	f.SetProperty("fillOpacity", fill.Opacity)
	f.SetProperty("width", 1)
	return f
}
