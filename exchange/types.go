/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package exchange reads and writes point data: the storage blob, the visible data export in CSV
// or JSON (optionally in the layout the WUW map expects), GeoJSON and the per cell export.
package exchange

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
)

// DataType selects which kinds an export holds.
type DataType string

const (
	SignalPosts DataType = "SignalPosts"
	Raids       DataType = "Raids"
	All         DataType = "All"
)

// ParseDataType is case insensitive. Anything unknown selects All.
func ParseDataType(s string) DataType {
	for _, dt := range []DataType{SignalPosts, Raids, All} {
		if strings.EqualFold(string(dt), strings.TrimSpace(s)) {
			return dt
		}
	}
	return All
}

// Kinds returns the point kinds selected by dt.
func (dt DataType) Kinds() []poi.Kind {
	switch dt {
	case SignalPosts:
		return []poi.Kind{poi.SignalPosts}
	case Raids:
		return []poi.Kind{poi.Raids}
	default:
		return []poi.Kind{poi.SignalPosts, poi.Raids}
	}
}

// Format is the file format of an export.
type Format string

const (
	CSV  Format = "CSV"
	JSON Format = "JSON"
)

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{CSV, JSON} {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Filename returns the name an export is saved under: <type>_<yyyy_mm_dd_hh_mm_ss>.<ext>, in UTC.
func Filename(dt DataType, f Format, now time.Time) string {
	return strings.ToLower(string(dt)) + "_" + now.UTC().Format("2006_01_02_15_04_05") + "." +
		strings.ToLower(string(f))
}

// Select returns the sets of the kinds selected by dt, restricted to the points inside b when b
// is not nil.
func Select(sets map[poi.Kind]poi.Set, dt DataType, b *geo.Bounds) map[poi.Kind]poi.Set {
	out := make(map[poi.Kind]poi.Set)
	for _, k := range dt.Kinds() {
		set := sets[k]
		if b != nil {
			set = poi.FilterPoints(set, *b)
		}
		if set == nil {
			set = make(poi.Set)
		}
		out[k] = set
	}
	return out
}

// singular is the type label of one point of kind k in the visible data export.
func singular(k poi.Kind) string {
	return strings.TrimSuffix(string(k), "s")
}
