/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package serve

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/thm-tools/cellgrid/cellgrid/cmd/cell"
	cmdgrid "github.com/thm-tools/cellgrid/cellgrid/cmd/grid"
	"github.com/thm-tools/cellgrid/exchange"
	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/grid"
	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/settings"
	"github.com/thm-tools/cellgrid/store"
	"github.com/thm-tools/cellgrid/x"
)

// server holds what the handlers share. Every field is safe for concurrent use.
type server struct {
	st       *store.Store
	c        *poi.Classifier
	settings settings.Settings
}

// newMux routes the API of srv.
func newMux(srv *server) (*http.ServeMux, error) {
	metrics, err := x.RegisterMetrics()
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/cell", srv.cellHandler)
	mux.HandleFunc("/neighbors", srv.neighborsHandler)
	mux.HandleFunc("/grid", srv.gridHandler)
	mux.HandleFunc("/pois", srv.poisHandler)
	mux.HandleFunc("/cells", srv.cellsHandler)
	mux.HandleFunc("/health", healthCheck)
	mux.Handle("/debug/prometheus_metrics", metrics)
	return mux, nil
}

func commonHandler(w http.ResponseWriter, r *http.Request) bool {
	x.AddCorsHeaders(w)
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		return true
	} else if r.Method != http.MethodGet {
		x.SetStatusWithCode(w, http.StatusMethodNotAllowed, x.ErrorInvalidMethod, "Invalid method")
		return true
	}
	return false
}

func badRequest(w http.ResponseWriter, err error) {
	x.SetStatusWithCode(w, http.StatusBadRequest, x.ErrorInvalidRequest, err.Error())
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	f, err := cast.ToFloat64E(s)
	return f, errors.Wrapf(err, "while parsing %s", name)
}

func intParam(q url.Values, name string, def int) (int, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	i, err := cast.ToIntE(s)
	return i, errors.Wrapf(err, "while parsing %s", name)
}

func boolParam(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	b, err := cast.ToBoolE(s)
	return b, errors.Wrapf(err, "while parsing %s", name)
}

// cellParam reads the cell named by key, or by lat, lng and level.
func cellParam(q url.Values) (geo.Cell, error) {
	lat, err := floatParam(q, "lat", 0)
	if err != nil {
		return geo.Cell{}, err
	}
	lng, err := floatParam(q, "lng", 0)
	if err != nil {
		return geo.Cell{}, err
	}
	level, err := intParam(q, "level", geo.ScoreLevel)
	if err != nil {
		return geo.Cell{}, err
	}
	if q.Get("key") == "" && (q.Get("lat") == "" || q.Get("lng") == "") {
		return geo.Cell{}, errors.New("either key or lat and lng are required")
	}
	return cell.Resolve(q.Get("key"), lat, lng, level)
}

// boundsParam reads the view bounds, the whole world when none are given.
func boundsParam(q url.Values) (geo.Bounds, error) {
	var edges [4]float64
	for k, p := range []struct {
		name string
		def  float64
	}{{"south", -90}, {"west", -180}, {"north", 90}, {"east", 180}} {
		var err error
		if edges[k], err = floatParam(q, p.name, p.def); err != nil {
			return geo.Bounds{}, err
		}
	}
	return geo.NewBounds(edges[0], edges[1], edges[2], edges[3]), nil
}

func (srv *server) cellHandler(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	start := time.Now()
	c, err := cellParam(r.URL.Query())
	x.RecordLatency(r.Context(), "cell", start, err)
	if err != nil {
		badRequest(w, err)
		return
	}
	x.Reply(w, c.Info())
}

func (srv *server) neighborsHandler(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	q := r.URL.Query()
	c, err := cellParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	all, err := boolParam(q, "all")
	if err != nil {
		badRequest(w, err)
		return
	}
	x.Reply(w, cell.NeighborInfos(x.WithMethod(r.Context(), "neighbors"), c, all))
}

func (srv *server) gridHandler(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	q := r.URL.Query()
	b, err := boundsParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	zoom, err := intParam(q, "zoom", 15)
	if err != nil {
		badRequest(w, err)
		return
	}

	start := time.Now()
	ctx := x.WithMethod(r.Context(), "grid")
	fc, err := cmdgrid.Overlay(ctx, srv.st, srv.c, grid.View{Bounds: b, Zoom: zoom}, srv.settings)
	x.RecordLatency(ctx, "grid", start, err)
	if err != nil {
		glog.Errorf("While rendering grid: %v", err)
		x.SetStatusWithCode(w, http.StatusInternalServerError, x.Error, err.Error())
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		x.SetStatusWithCode(w, http.StatusInternalServerError, x.Error, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	x.Ignore2(w.Write(data))
}

func (srv *server) poisHandler(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	q := r.URL.Query()
	b, err := boundsParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	dt := exchange.ParseDataType(q.Get("type"))
	if q.Get("type") == "" {
		dt = srv.settings.SaveDataType
	}
	format := srv.settings.SaveDataFormat
	if s := q.Get("format"); s != "" {
		if format, err = exchange.ParseFormat(s); err != nil {
			badRequest(w, err)
			return
		}
	}
	wuw := srv.settings.SaveForWUW
	if q.Get("wuw") != "" {
		if wuw, err = boolParam(q, "wuw"); err != nil {
			badRequest(w, err)
			return
		}
	}

	all, err := srv.st.All()
	if err != nil {
		x.SetStatusWithCode(w, http.StatusInternalServerError, x.Error, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := exchange.Write(&buf, exchange.Select(all, dt, &b), dt, format, wuw); err != nil {
		x.SetStatusWithCode(w, http.StatusInternalServerError, x.Error, err.Error())
		return
	}
	if format == exchange.CSV {
		w.Header().Set("Content-Type", "text/csv")
	}
	w.Header().Set("Content-Disposition",
		"attachment; filename="+exchange.Filename(dt, format, time.Now()))
	x.Ignore2(w.Write(buf.Bytes()))
}

func (srv *server) cellsHandler(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	q := r.URL.Query()
	level, err := intParam(q, "level", geo.ScoreLevel)
	if err == nil && (level < 0 || level > geo.MaxLevel) {
		err = errors.Wrapf(geo.ErrOutOfRange, "level %d", level)
	}
	if err != nil {
		badRequest(w, err)
		return
	}
	b, err := boundsParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	all, err := srv.st.All()
	if err != nil {
		x.SetStatusWithCode(w, http.StatusInternalServerError, x.Error, err.Error())
		return
	}
	groups := poi.FilterWithin(srv.c.Group(level, all, nil), b)
	out := make([]*poi.CellGroup, 0, len(groups))
	for _, key := range groups.Keys() {
		out = append(out, groups[key])
	}
	x.Reply(w, out)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	if commonHandler(w, r) {
		return
	}
	x.Reply(w, map[string]string{"status": "healthy", "version": x.Version()})
}
