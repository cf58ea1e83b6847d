/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cell

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opencensus.io/stats"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/x"
)

var (
	// Cell is the sub-command invoked when running "cellgrid cell".
	Cell x.SubCommand
	// Neighbors is the sub-command invoked when running "cellgrid neighbors".
	Neighbors x.SubCommand
)

func init() {
	Cell.Cmd = &cobra.Command{
		Use:   "cell",
		Short: "Resolve a point to the cell containing it",
		Long: `
Cell prints the cell containing the point at --lat, --lng for the grid of --level: its
canonical key, centre, corners, mean edge length and area.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defer x.StartProfile(Cell.Conf).Stop()
			x.CheckfNoTrace(runCell(cmd.OutOrStdout()))
		},
	}
	Cell.EnvPrefix = "CELLGRID_CELL"
	flag := Cell.Cmd.Flags()
	addPointFlags(flag)

	Neighbors.Cmd = &cobra.Command{
		Use:   "neighbors",
		Short: "List the neighbours of a cell",
		Long: `
Neighbors prints the cells next to the cell named by --key, or to the cell containing
--lat, --lng at --level. By default the four cells sharing an edge are listed, --all adds the
diagonal ones. Neighbours across a cube face edge are re-projected onto the adjacent face.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defer x.StartProfile(Neighbors.Conf).Stop()
			x.CheckfNoTrace(runNeighbors(cmd.OutOrStdout()))
		},
	}
	Neighbors.EnvPrefix = "CELLGRID_NEIGHBORS"
	flag = Neighbors.Cmd.Flags()
	addPointFlags(flag)
	flag.String("key", "", "Canonical key of the cell, F<face>ij[<i>,<j>]@<level>.")
	flag.Bool("all", false, "Include the diagonal neighbours.")
}

func addPointFlags(flag *pflag.FlagSet) {
	flag.Float64("lat", 0, "Latitude of the point in degrees.")
	flag.Float64("lng", 0, "Longitude of the point in degrees.")
	flag.Int("level", geo.ScoreLevel, "Level of the grid.")
}

// Resolve returns the cell named by key, or the cell containing lat, lng at level when key is
// empty.
func Resolve(key string, lat, lng float64, level int) (geo.Cell, error) {
	if key != "" {
		return geo.ParseKey(key)
	}
	if level < 0 || level > geo.MaxLevel {
		return geo.Cell{}, errors.Wrapf(geo.ErrOutOfRange, "level %d", level)
	}
	if lat < -90 || lat > 90 {
		return geo.Cell{}, errors.Wrapf(geo.ErrOutOfRange, "latitude %v", lat)
	}
	c := geo.FromLatLng(geo.LatLng{Lat: lat, Lng: lng}, level)
	stats.Record(context.Background(), x.NumCellsResolved.M(1))
	return c, nil
}

// NeighborInfos describes the neighbours of c, the diagonal ones as well when all is set.
func NeighborInfos(ctx context.Context, c geo.Cell, all bool) []geo.Info {
	deltas := geo.DefaultDeltas
	if all {
		deltas = geo.AllDeltas
	}
	var crossings int64
	out := make([]geo.Info, 0, len(deltas))
	for _, n := range c.Neighbors(deltas...) {
		if n.Face() != c.Face() {
			crossings++
		}
		out = append(out, n.Info())
	}
	stats.Record(ctx, x.NumFaceCrossings.M(crossings))
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// point reads the point flags of sc, falling back to the flag defaults.
func point(sc x.SubCommand) (lat, lng float64, level int) {
	return sc.GetFloat64P("lat", "", 0), sc.GetFloat64P("lng", "", 0),
		sc.GetIntP("level", "", geo.ScoreLevel)
}

func runCell(w io.Writer) error {
	start := time.Now()
	lat, lng, level := point(Cell)
	c, err := Resolve("", lat, lng, level)
	x.RecordLatency(x.MetricsContext(), "cell", start, err)
	if err != nil {
		return err
	}
	glog.V(2).Infof("Resolved %s in %s", c, x.Round(time.Since(start)))
	return writeJSON(w, c.Info())
}

func runNeighbors(w io.Writer) error {
	lat, lng, level := point(Neighbors)
	c, err := Resolve(Neighbors.GetStringP("key", "", ""), lat, lng, level)
	if err != nil {
		return err
	}
	return writeJSON(w, NeighborInfos(x.WithMethod(x.MetricsContext(), "neighbors"), c,
		Neighbors.GetBoolP("all", "", false)))
}
