/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/thm-tools/cellgrid/store"
	"github.com/thm-tools/cellgrid/x"
)

// POI is the sub-command invoked when running "cellgrid poi".
var POI x.SubCommand

var opt struct {
	kind      string
	guid      string
	name      string
	lat, lng  float64
	sponsored bool

	file   string
	format string
	seen   string
	counts bool
	level  int
	apply  bool
	scores bool
	cell   string

	dataType string
	wuw      bool

	south, west, north, east float64
}

func init() {
	POI.Cmd = &cobra.Command{
		Use:   "poi",
		Short: "Manage the stored points of interest",
		Long: `
Poi manages the points of interest kept in the store in --dir. Points are classified as signal
posts, raids or points that are not part of the game (notthm).`,
	}
	POI.EnvPrefix = "CELLGRID_POI"
	POI.Cmd.PersistentFlags().StringP("dir", "d", "p", "Directory of the point store.")
	POI.Cmd.AddCommand(subcmds...)
	flagInit()
}

// withStore opens the store named by --dir and runs fn on it.
func withStore(fn func(st *store.Store) error) error {
	defer x.StartProfile(POI.Conf).Stop()
	dir := POI.Conf.GetString("dir")
	st, err := store.Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			glog.Errorf("While closing store at %s: %v", dir, err)
		}
	}()
	return fn(st)
}

var subcmds = []*cobra.Command{
	{
		Use:   "add",
		Short: "Store a point, replacing any point stored under its GUID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error { return runAdd(st, cmd.OutOrStdout()) })
		},
	},
	{
		Use:   "rm",
		Short: "Remove a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error { return runRm(st, cmd.OutOrStdout()) })
		},
	},
	{
		Use:   "ls",
		Short: "List the stored points of a kind, or count them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error { return runLs(st, cmd.OutOrStdout()) })
		},
	},
	{
		Use:   "import",
		Short: "Import points from a storage blob or a GeoJSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return runImport(st, cmd.OutOrStdout())
			})
		},
	},
	{
		Use:   "export",
		Short: "Export the stored points",
		Long: `
Export writes the stored points to --file, or to stdout when it is empty. When --file is a
directory the file is named after the data type and the current time. Formats are csv and json
for the visible data export, blob for the storage blob, geojson, and cells for the points
grouped by level 15 cell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return runExport(st, cmd.OutOrStdout())
			})
		},
	},
	{
		Use:   "classify",
		Short: "Group the stored and the seen points by cell",
		Long: `
Classify groups the stored points and the points in --seen that are not stored yet by the cell of
--level holding them. --scores prints the score of every cell inside the bounds instead, --cell
lists the unstored seen points inside a single cell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return runClassify(st, cmd.OutOrStdout())
			})
		},
	},
	{
		Use:   "analyze",
		Short: "Compare the stored points with the points seen in a view",
		Long: `
Analyze compares the stored points with the points in --seen that lie in the view bounded by
--south, --west, --north, --east. It reports stored points that were not seen, points that
moved, seen points that can be skipped and the cells whose points still need to be classified.
--apply stores the moved points under their new GUID and position.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return runAnalyze(st, cmd.OutOrStdout())
			})
		},
	},
	{
		Use:   "reset",
		Short: "Remove every stored point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return runReset(st, cmd.OutOrStdout())
			})
		},
	},
}

func flagInit() {
	for _, cmd := range subcmds {
		flag := cmd.Flags()
		switch cmd.Use {
		case "add":
			flag.StringVar(&opt.kind, "kind", "signalposts", "One of signalposts, raids, notthm.")
			flag.StringVar(&opt.guid, "guid", "", "GUID of the point. Generated when empty.")
			flag.StringVar(&opt.name, "name", "", "Name of the point.")
			flag.Float64Var(&opt.lat, "lat", 0, "Latitude of the point in degrees.")
			flag.Float64Var(&opt.lng, "lng", 0, "Longitude of the point in degrees.")
			flag.BoolVar(&opt.sponsored, "sponsored", false, "Whether the point is sponsored.")
		case "rm":
			flag.StringVar(&opt.guid, "guid", "", "GUID of the point.")
		case "ls":
			flag.StringVar(&opt.kind, "kind", "signalposts", "One of signalposts, raids, notthm.")
			flag.BoolVar(&opt.counts, "counts", false, "Only print the number of points per kind.")
			flag.StringVar(&opt.cell, "cell", "",
				"List the points of every kind inside the cell with this key, levels 14 to 17.")
		case "import":
			flag.StringVarP(&opt.file, "file", "f", "", "File to import.")
			flag.StringVar(&opt.format, "format", "blob", "One of blob, geojson.")
			flag.StringVar(&opt.kind, "kind", "signalposts",
				"Kind of the imported points for geojson files.")
		case "export":
			flag.StringVarP(&opt.file, "file", "f", "", "File or directory to export to.")
			flag.StringVar(&opt.format, "format", "csv", "One of csv, json, blob, geojson, cells.")
			flag.StringVar(&opt.dataType, "type", "SignalPosts",
				"Kinds in csv and json exports, one of SignalPosts, Raids, All.")
			flag.BoolVar(&opt.wuw, "wuw", false, "Use the layout of the WUW map.")
			boundsFlags(cmd)
		case "classify":
			flag.StringVar(&opt.seen, "seen", "", "Storage blob or GeoJSON file of seen points.")
			flag.IntVar(&opt.level, "level", 15, "Level of the cells.")
			flag.BoolVar(&opt.scores, "scores", false,
				"Print the scores of the cells inside the bounds instead of the groups.")
			flag.StringVar(&opt.cell, "cell", "",
				"Only print the unclassified seen points inside the cell with this key.")
			boundsFlags(cmd)
		case "analyze":
			flag.StringVar(&opt.seen, "seen", "", "Storage blob or GeoJSON file of seen points.")
			flag.BoolVar(&opt.apply, "apply", false, "Store the moved points.")
			boundsFlags(cmd)
		}
	}
}

func boundsFlags(cmd *cobra.Command) {
	flag := cmd.Flags()
	flag.Float64Var(&opt.south, "south", -90, "Southern edge of the view in degrees.")
	flag.Float64Var(&opt.west, "west", -180, "Western edge of the view in degrees.")
	flag.Float64Var(&opt.north, "north", 90, "Northern edge of the view in degrees.")
	flag.Float64Var(&opt.east, "east", 180, "Eastern edge of the view in degrees.")
}
