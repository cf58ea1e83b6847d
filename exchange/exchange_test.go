/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package exchange

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/store"
)

var sample = map[poi.Kind]poi.Set{
	poi.SignalPosts: {
		"a": {GUID: "a", Lat: 51.5007292, Lng: -0.1246254, Name: "Big Ben, \"the\" clock",
			Image: "http://img/a"},
		"b": {GUID: "b", Lat: 51.5032973, Lng: -0.1195537, Name: "Eye"},
	},
	poi.Raids: {
		"c": {GUID: "c", Lat: 51.5138453, Lng: -0.0983506, Name: "St Paul's", Sponsored: true},
	},
	poi.NotTHM: {
		"d": {GUID: "d", Lat: 1, Lng: 2, Name: "Elsewhere"},
	},
}

func withStore(t *testing.T, test func(s *store.Store)) {
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	defer s.Close()
	test(s)
}

func TestParse(t *testing.T) {
	require.Equal(t, SignalPosts, ParseDataType("signalposts"))
	require.Equal(t, Raids, ParseDataType("RAIDS"))
	require.Equal(t, All, ParseDataType("whatever"))

	f, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, JSON, f)
	_, err = ParseFormat("xml")
	require.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFilename(t *testing.T) {
	now := time.Date(2019, 6, 21, 9, 5, 7, 0, time.UTC)
	require.Equal(t, "signalposts_2019_06_21_09_05_07.csv", Filename(SignalPosts, CSV, now))
	require.Equal(t, "all_2019_06_21_09_05_07.json", Filename(All, JSON, now))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample, All, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		`"Name","Latitude","Longitude","Type"`,
		`"Big Ben, ""the"" clock",51.5007292,-0.1246254,signalpost`,
		`Eye,51.5032973,-0.1195537,signalpost`,
		`St Paul's,51.5138453,-0.0983506,raid`,
	}, lines)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, `Big Ben, "the" clock`, rows[1][0])

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, sample, Raids, false))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"St Paul's", "51.5138453", "-0.0983506", "raid"}}, rows)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, SignalPosts, JSON, false))
	var got map[poi.Kind]poi.Set
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "http://img/a", got[poi.SignalPosts]["a"].Image)

	buf.Reset()
	require.NoError(t, Write(&buf, sample, All, JSON, true))
	var wuw []WUWPoint
	require.NoError(t, json.Unmarshal(buf.Bytes(), &wuw))
	require.Len(t, wuw, 3)
	require.Equal(t, WUWPoint{Name: "St Paul's", Latitude: 51.5138453, Longitude: -0.0983506,
		Type: "raid"}, wuw[2])

	require.True(t, errors.Is(Write(&buf, sample, All, "xml", false), ErrUnknownFormat))
}

func TestSelect(t *testing.T) {
	b := geo.NewBounds(51.5, -0.13, 51.505, -0.11)
	got := Select(sample, All, &b)
	require.Len(t, got, 2)
	require.Len(t, got[poi.SignalPosts], 2)
	require.Empty(t, got[poi.Raids])

	got = Select(sample, Raids, nil)
	require.Equal(t, map[poi.Kind]poi.Set{poi.Raids: sample[poi.Raids]}, got)
}

func TestBlobRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlob(&buf, sample))
	require.NotContains(t, buf.String(), "http://img/a")

	b, err := ReadBlob(&buf)
	require.NoError(t, err)
	points, invalid := b.Points()
	require.Zero(t, invalid)
	for _, k := range poi.Kinds {
		require.Len(t, points[k], len(sample[k]))
		for _, p := range points[k] {
			require.Equal(t, sample[k][p.GUID].Minimal(), p)
		}
	}
}

func TestImport(t *testing.T) {
	blob := `{
		"signalposts": {
			"id1": {"guid": "g1", "lat": 10.5, "lng": 20.25, "name": "One"},
			"id2": {"lat": "11.5", "lng": "21.25", "name": "Two"},
			"id3": {"guid": "g3", "lat": 12, "name": "No longitude"},
			"id4": {"guid": "g4", "lat": 12, "lng": 13}
		},
		"raids": {
			"id5": {"guid": "g5", "lat": 1, "lng": 2, "name": "Five", "sponsored": true}
		},
		"gyms": {
			"id6": {"guid": "g6", "lat": 1, "lng": 2, "name": "Six"}
		}
	}`
	withStore(t, func(s *store.Store) {
		require.NoError(t, s.Put(poi.NotTHM, poi.POI{GUID: "g5", Lat: 1, Lng: 2, Name: "Five"}))

		b, err := ReadBlob(strings.NewReader(blob))
		require.NoError(t, err)
		st, err := Import(s, b)
		require.NoError(t, err)
		require.Equal(t, ImportStats{Added: 2, Exists: 1, Invalid: 3}, st)

		kind, p, err := s.Get("id2")
		require.NoError(t, err)
		require.Equal(t, poi.SignalPosts, kind)
		require.Equal(t, poi.POI{GUID: "id2", Lat: 11.5, Lng: 21.25, Name: "Two"}, p)

		kind, _, err = s.Get("g5")
		require.NoError(t, err)
		require.Equal(t, poi.NotTHM, kind)

		// Importing again adds nothing.
		st, err = Import(s, b)
		require.NoError(t, err)
		require.Equal(t, 0, st.Added)
		require.Equal(t, 3, st.Exists)
	})
}

func TestGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, sample))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 4)
	require.Equal(t, "notthm", fc.Features[3].Properties["kind"])

	pois, err := ReadGeoJSON(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, pois, 4)
	byGUID := make(map[string]poi.POI)
	for _, p := range pois {
		byGUID[p.GUID] = p
	}
	for _, k := range poi.Kinds {
		for guid, p := range sample[k] {
			require.Equal(t, p.Minimal(), byGUID[guid])
		}
	}
}

func TestReadGeoJSONFallbacks(t *testing.T) {
	in := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [2.5, 48.5]},
		 "properties": {"title": "Titled"}},
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
		 "properties": {"name": "Line"}}
	]}`
	pois, err := ReadGeoJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pois, 1)
	require.Equal(t, "Titled", pois[0].Name)
	require.Equal(t, 48.5, pois[0].Lat)
	require.Equal(t, 2.5, pois[0].Lng)
	require.Len(t, pois[0].GUID, 36)

	_, err = ReadGeoJSON(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestImportPoints(t *testing.T) {
	withStore(t, func(s *store.Store) {
		st, err := ImportPoints(s, poi.Raids, []poi.POI{
			{GUID: "x", Lat: 1, Lng: 1, Name: "X"},
			{GUID: "y", Lat: 1, Lng: 1},
		})
		require.NoError(t, err)
		require.Equal(t, ImportStats{Added: 1, Invalid: 1}, st)
	})
}

func TestWriteCells(t *testing.T) {
	c, err := poi.NewClassifier(100)
	require.NoError(t, err)
	defer c.Close()
	groups := c.Group(geo.ScoreLevel, sample, poi.Set{"u": {GUID: "u", Lat: -10, Lng: -10}})

	var buf bytes.Buffer
	require.NoError(t, WriteCells(&buf, groups))
	var got map[string]CellExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	want := make(map[string]bool)
	for _, k := range []poi.Kind{poi.SignalPosts, poi.Raids} {
		for _, p := range sample[k] {
			want[geo.FromLatLng(p.LatLng(), geo.ScoreLevel).Key()] = true
		}
	}
	require.Len(t, got, len(want))
	key := geo.FromLatLng(geo.LatLng{Lat: 51.5138453, Lng: -0.0983506}, geo.ScoreLevel).Key()
	require.Len(t, got[key].Raids, 1)
	require.Equal(t, geo.ScoreLevel, got[key].Cell.Level)

	require.NotNil(t, got[key].Polygon)
	require.Equal(t, "Polygon", got[key].Polygon.Type)
	g, err := got[key].Polygon.Decode()
	require.NoError(t, err)
	ring := g.(*geom.Polygon).LinearRing(0)
	require.Equal(t, 5, ring.NumCoords())
	require.Equal(t, ring.Coord(0), ring.Coord(4))
	corner := got[key].Corners[0]
	require.InDelta(t, corner.Lng, ring.Coord(0).X(), 1e-12)
	require.InDelta(t, corner.Lat, ring.Coord(0).Y(), 1e-12)
}
