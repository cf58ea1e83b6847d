/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package grid

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/grid"
	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/settings"
	"github.com/thm-tools/cellgrid/store"
	"github.com/thm-tools/cellgrid/x"
)

// Grid is the sub-command invoked when running "cellgrid grid".
var Grid x.SubCommand

func init() {
	Grid.Cmd = &cobra.Command{
		Use:   "grid",
		Short: "Render the grid overlay of a map view as GeoJSON",
		Long: `
Grid renders the overlay of the view bounded by --south, --west, --north, --east at map zoom
--zoom: the lines of every grid in the settings that is visible at that zoom, the scores of
the level 15 cells and the nearby circles around stored points. Points are read from the store
in --dir when given.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defer x.StartProfile(Grid.Conf).Stop()
			x.Check(run(cmd.OutOrStdout()))
		},
	}
	Grid.EnvPrefix = "CELLGRID_GRID"

	flag := Grid.Cmd.Flags()
	flag.Float64("south", 0, "Southern edge of the view in degrees.")
	flag.Float64("west", 0, "Western edge of the view in degrees.")
	flag.Float64("north", 0, "Northern edge of the view in degrees.")
	flag.Float64("east", 0, "Eastern edge of the view in degrees.")
	flag.Int("zoom", 15, "Map zoom level of the view.")
	flag.String("settings", "", "Settings file. Defaults are used when empty or missing.")
	flag.StringP("dir", "d", "", "Directory of the point store.")
}

// Overlay renders view with the points of st, which may be nil. Points are grouped at the score
// level.
func Overlay(ctx context.Context, st *store.Store, c *poi.Classifier, view grid.View,
	s settings.Settings) (*geojson.FeatureCollection, error) {

	var groups poi.Groups
	if st != nil {
		stored, err := st.All()
		if err != nil {
			return nil, errors.Wrapf(err, "while reading points")
		}
		groups = c.Group(geo.ScoreLevel, stored, nil)
	}
	return grid.Render(ctx, view, s, groups)
}

func run(w io.Writer) error {
	conf := Grid.Conf
	s := settings.Default()
	if path := conf.GetString("settings"); path != "" {
		var err error
		if s, err = settings.LoadFile(path); err != nil {
			return err
		}
	}
	var st *store.Store
	if dir := conf.GetString("dir"); dir != "" {
		var err error
		if st, err = store.Open(dir); err != nil {
			return err
		}
		defer func() { x.Ignore(st.Close()) }()
	}
	c, err := poi.NewClassifier(1 << 20)
	if err != nil {
		return err
	}
	defer c.Close()

	view := grid.View{
		Bounds: geo.NewBounds(conf.GetFloat64("south"), conf.GetFloat64("west"),
			conf.GetFloat64("north"), conf.GetFloat64("east")),
		Zoom: conf.GetInt("zoom"),
	}
	start := time.Now()
	ctx := x.WithMethod(x.MetricsContext(), "grid")
	fc, err := Overlay(ctx, st, c, view, s)
	x.RecordLatency(ctx, "grid", start, err)
	if err != nil {
		return err
	}
	glog.V(2).Infof("Rendered %d features in %s", len(fc.Features), x.Round(time.Since(start)))

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
