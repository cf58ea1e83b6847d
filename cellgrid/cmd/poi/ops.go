/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/thm-tools/cellgrid/exchange"
	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/store"
	"github.com/thm-tools/cellgrid/x"
)

// Formats handled by import and export on top of the visible data export ones.
const (
	formatBlob    = "blob"
	formatGeoJSON = "geojson"
	formatCells   = "cells"
)

// classifierSize is the number of cell keys the classifier remembers.
const classifierSize = 1 << 20

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runAdd(st *store.Store, w io.Writer) error {
	kind, err := poi.ParseKind(opt.kind)
	if err != nil {
		return err
	}
	if opt.lat < -90 || opt.lat > 90 {
		return errors.Wrapf(geo.ErrOutOfRange, "latitude %v", opt.lat)
	}
	p := poi.POI{GUID: opt.guid, Lat: opt.lat, Lng: opt.lng, Name: opt.name,
		Sponsored: opt.sponsored}
	if p.GUID == "" {
		p.GUID = uuid.NewString()
	}
	if err := st.Put(kind, p); err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored %s %q as %s in %s\n", p.GUID, p.Name, kind,
		geo.FromLatLng(p.LatLng(), geo.ScoreLevel))
	return nil
}

func runRm(st *store.Store, w io.Writer) error {
	if opt.guid == "" {
		return errors.New("--guid is required")
	}
	if err := st.Delete(opt.guid); err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %s\n", opt.guid)
	return nil
}

func runLs(st *store.Store, w io.Writer) error {
	if opt.counts {
		counts, err := st.RecordCounts(x.MetricsContext())
		if err != nil {
			return err
		}
		for _, k := range poi.Kinds {
			fmt.Fprintf(w, "%-12s %s\n", k, humanize.Comma(int64(counts[k])))
		}
		lsm, vlog := st.Size()
		fmt.Fprintf(w, "%-12s %s\n", "size", humanize.IBytes(uint64(lsm+vlog)))
		return nil
	}
	if opt.cell != "" {
		return lsCell(st, w)
	}
	kind, err := poi.ParseKind(opt.kind)
	if err != nil {
		return err
	}
	set, err := st.List(kind)
	if err != nil {
		return err
	}
	return writeJSON(w, set.Sorted())
}

// lsCell lists the points of every kind inside the cell named by --cell, read through the cell
// index.
func lsCell(st *store.Store, w io.Writer) error {
	cell, err := geo.ParseKey(opt.cell)
	if err != nil {
		return err
	}
	guids, err := st.InCell(cell)
	if err != nil {
		return err
	}
	out := make([]poi.POI, 0, len(guids))
	for _, guid := range guids {
		_, p, err := st.Get(guid)
		if err != nil {
			return errors.Wrapf(err, "while reading %s of cell %s", guid, cell)
		}
		out = append(out, p)
	}
	poi.SortByName(out)
	return writeJSON(w, out)
}

// readPoints reads the points of a storage blob, of every kind, or of a GeoJSON file.
func readPoints(path, format string) ([]poi.POI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(format) {
	case formatGeoJSON:
		return exchange.ReadGeoJSON(f)
	case formatBlob:
		b, err := exchange.ReadBlob(f)
		if err != nil {
			return nil, err
		}
		points, invalid := b.Points()
		if invalid > 0 {
			glog.Warningf("Skipped %d invalid entries of %s", invalid, path)
		}
		var out []poi.POI
		for _, k := range poi.Kinds {
			out = append(out, points[k]...)
		}
		return out, nil
	}
	return nil, errors.Wrapf(exchange.ErrUnknownFormat, "%q", format)
}

// formatOf guesses the format of a file of points from its extension.
func formatOf(path string) string {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".geojson" {
		return formatGeoJSON
	}
	return formatBlob
}

func runImport(st *store.Store, w io.Writer) error {
	if opt.file == "" {
		return errors.New("--file is required")
	}
	start := time.Now()
	var stats exchange.ImportStats
	switch strings.ToLower(opt.format) {
	case formatBlob:
		f, err := os.Open(opt.file)
		if err != nil {
			return err
		}
		defer f.Close()
		b, err := exchange.ReadBlob(f)
		if err != nil {
			return err
		}
		if stats, err = exchange.Import(st, b); err != nil {
			return err
		}
	case formatGeoJSON:
		kind, err := poi.ParseKind(opt.kind)
		if err != nil {
			return err
		}
		pois, err := readPoints(opt.file, formatGeoJSON)
		if err != nil {
			return err
		}
		if stats, err = exchange.ImportPoints(st, kind, pois); err != nil {
			return err
		}
	default:
		return errors.Wrapf(exchange.ErrUnknownFormat, "%q", opt.format)
	}
	fmt.Fprintf(w, "Imported %s points, %s already stored, %s invalid in %s\n",
		humanize.Comma(int64(stats.Added)), humanize.Comma(int64(stats.Exists)),
		humanize.Comma(int64(stats.Invalid)), x.Round(time.Since(start)))
	_, err := st.RecordCounts(x.MetricsContext())
	return err
}

func exportTo(w io.Writer, now time.Time, dt exchange.DataType, format string,
	fn func(io.Writer) error) error {

	if opt.file == "" {
		return fn(w)
	}
	path := opt.file
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		name := exchange.Filename(dt, exchange.Format(strings.ToUpper(format)), now)
		path = filepath.Join(path, name)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		x.Ignore(f.Close())
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported to %s\n", path)
	return nil
}

func runExport(st *store.Store, w io.Writer) error {
	all, err := st.All()
	if err != nil {
		return err
	}
	bounds := geo.NewBounds(opt.south, opt.west, opt.north, opt.east)
	for _, k := range poi.Kinds {
		all[k] = poi.FilterPoints(all[k], bounds)
	}
	dt := exchange.ParseDataType(opt.dataType)
	now := time.Now()

	switch format := strings.ToLower(opt.format); format {
	case formatBlob:
		return exportTo(w, now, exchange.All, format, func(out io.Writer) error {
			return exchange.WriteBlob(out, all)
		})
	case formatGeoJSON:
		return exportTo(w, now, dt, format, func(out io.Writer) error {
			return exchange.WriteGeoJSON(out, exchange.Select(all, dt, nil))
		})
	case formatCells:
		c, err := poi.NewClassifier(classifierSize)
		if err != nil {
			return err
		}
		defer c.Close()
		groups := c.Group(geo.ScoreLevel, all, nil)
		return exportTo(w, now, exchange.All, format, func(out io.Writer) error {
			return exchange.WriteCells(out, groups)
		})
	default:
		f, err := exchange.ParseFormat(format)
		if err != nil {
			return err
		}
		return exportTo(w, now, dt, format, func(out io.Writer) error {
			return exchange.Write(out, all, dt, f, opt.wuw)
		})
	}
}

// seenSet reads the points named by --seen, an empty set when it is not given.
func seenSet() (poi.Set, error) {
	set := make(poi.Set)
	if opt.seen == "" {
		return set, nil
	}
	pois, err := readPoints(opt.seen, formatOf(opt.seen))
	if err != nil {
		return nil, err
	}
	for _, p := range pois {
		set[p.GUID] = p
	}
	return set, nil
}

func runClassify(st *store.Store, w io.Writer) error {
	if opt.level < 0 || opt.level > geo.MaxLevel {
		return errors.Wrapf(geo.ErrOutOfRange, "level %d", opt.level)
	}
	stored, err := st.All()
	if err != nil {
		return err
	}
	seen, err := seenSet()
	if err != nil {
		return err
	}
	// Seen points that are stored already have a kind.
	for guid := range seen {
		if ok, err := st.Has(guid); err != nil {
			return err
		} else if ok {
			delete(seen, guid)
		}
	}

	c, err := poi.NewClassifier(classifierSize)
	if err != nil {
		return err
	}
	defer c.Close()
	if opt.cell != "" {
		cell, err := geo.ParseKey(opt.cell)
		if err != nil {
			return err
		}
		items := c.FindCellItems(cell.Key(), cell.Level(), seen)
		if items == nil {
			items = []poi.POI{}
		}
		return writeJSON(w, items)
	}
	groups := c.Group(opt.level, stored, seen)
	if opt.scores {
		bounds := geo.NewBounds(opt.south, opt.west, opt.north, opt.east)
		return writeJSON(w, poi.Scores(groups, bounds))
	}
	out := make([]*poi.CellGroup, 0, len(groups))
	for _, key := range groups.Keys() {
		out = append(out, groups[key])
	}
	return writeJSON(w, out)
}

func runAnalyze(st *store.Store, w io.Writer) error {
	stored, err := st.All()
	if err != nil {
		return err
	}
	seen, err := seenSet()
	if err != nil {
		return err
	}
	c, err := poi.NewClassifier(classifierSize)
	if err != nil {
		return err
	}
	defer c.Close()

	bounds := geo.NewBounds(opt.south, opt.west, opt.north, opt.east)
	a := c.Analyze(stored, seen, bounds)
	glog.Infof("Analysis found %d entries that need attention", a.Total())
	if opt.apply {
		for _, m := range a.Moved {
			if err := st.Move(m.Stored.GUID, m.Seen); err != nil {
				return errors.Wrapf(err, "while moving %s", m.Stored.GUID)
			}
		}
	}
	return writeJSON(w, a)
}

func runReset(st *store.Store, w io.Writer) error {
	if err := st.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(w, "Removed every stored point")
	_, err := st.RecordCounts(x.MetricsContext())
	return err
}
