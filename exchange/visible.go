/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package exchange

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/thm-tools/cellgrid/poi"
)

// wuwHeader is the header row the WUW map expects on CSV files.
const wuwHeader = `"Name","Latitude","Longitude","Type"` + "\n"

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteCSV writes one row name,lat,lng,type per point of the kinds selected by dt, signal posts
// first. wuw adds the header row.
func WriteCSV(w io.Writer, sets map[poi.Kind]poi.Set, dt DataType, wuw bool) error {
	if wuw {
		if _, err := io.WriteString(w, wuwHeader); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	for _, k := range dt.Kinds() {
		for _, p := range sets[k].Sorted() {
			row := []string{p.Name, formatCoord(p.Lat), formatCoord(p.Lng), singular(k)}
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "while writing %q", p.GUID)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WUWPoint is one entry of the JSON export in WUW layout.
type WUWPoint struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
}

// WriteWUW writes the points of the kinds selected by dt as a flat JSON array.
func WriteWUW(w io.Writer, sets map[poi.Kind]poi.Set, dt DataType) error {
	out := []WUWPoint{}
	for _, k := range dt.Kinds() {
		for _, p := range sets[k].Sorted() {
			out = append(out, WUWPoint{Name: p.Name, Latitude: p.Lat, Longitude: p.Lng,
				Type: singular(k)})
		}
	}
	return errors.Wrapf(json.NewEncoder(w).Encode(out), "while writing WUW export")
}

// WriteJSON writes the kinds selected by dt as {"<kind>": {guid: poi}}. Stored fields and the
// image are kept. wuw switches to the WUW layout.
func WriteJSON(w io.Writer, sets map[poi.Kind]poi.Set, dt DataType, wuw bool) error {
	if wuw {
		return WriteWUW(w, sets, dt)
	}
	out := make(map[poi.Kind]poi.Set)
	for _, k := range dt.Kinds() {
		set := make(poi.Set, len(sets[k]))
		for guid, p := range sets[k] {
			m := p.Minimal()
			m.Image = p.Image
			set[guid] = m
		}
		out[k] = set
	}
	return errors.Wrapf(json.NewEncoder(w).Encode(out), "while writing JSON export")
}

// Write dispatches on f.
func Write(w io.Writer, sets map[poi.Kind]poi.Set, dt DataType, f Format, wuw bool) error {
	switch f {
	case CSV:
		return WriteCSV(w, sets, dt, wuw)
	case JSON:
		return WriteJSON(w, sets, dt, wuw)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", f)
}
