/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package settings holds the user settings of the overlay and the exports: which grids to draw,
// their colours and the defaults of the save dialog.
package settings

import (
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/thm-tools/cellgrid/exchange"
)

// Names of the entries of Settings.Colors.
const (
	Cell16Filled       = "cell16Filled"
	Cell14Filled       = "cell14Filled"
	NearbyCircleBorder = "nearbyCircleBorder"
	NearbyCircleFill   = "nearbyCircleFill"
)

// Grid is one grid drawn by the overlay. Level 0 disables it.
type Grid struct {
	Level   int     `json:"level"`
	Width   int     `json:"width"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

type Color struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

type Settings struct {
	ThisIsTHM             bool              `json:"thisIsTHM"`
	AnalyzeForMissingData bool              `json:"analyzeForMissingData"`
	Grids                 []Grid            `json:"grids"`
	Colors                map[string]Color  `json:"colors"`
	SaveDataType          exchange.DataType `json:"saveDataType"`
	SaveDataFormat        exchange.Format   `json:"saveDataFormat"`
	SaveForWUW            bool              `json:"saveForWUW"`
}

func defaultGrids() []Grid {
	return []Grid{
		{Level: 6, Width: 5, Color: "#004D40", Opacity: 0.5},
		{Level: 0, Width: 2, Color: "#388E3C", Opacity: 0.5},
	}
}

func defaultColors() map[string]Color {
	return map[string]Color{
		Cell16Filled:       {Color: "#000000", Opacity: 0.6},
		Cell14Filled:       {Color: "#000000", Opacity: 0.5},
		NearbyCircleBorder: {Color: "#000000", Opacity: 0.6},
		NearbyCircleFill:   {Color: "#000000", Opacity: 0.4},
	}
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		AnalyzeForMissingData: true,
		Grids:                 defaultGrids(),
		Colors:                defaultColors(),
		SaveDataType:          exchange.SignalPosts,
		SaveDataFormat:        exchange.CSV,
	}
}

// ResetColors restores the default colour and opacity of the grids and of every colour entry.
// Levels and widths are kept.
func (s *Settings) ResetColors() {
	for i, g := range defaultGrids() {
		if i >= len(s.Grids) {
			break
		}
		s.Grids[i].Color = g.Color
		s.Grids[i].Opacity = g.Opacity
	}
	s.Colors = defaultColors()
}

// Color returns the colour entry with the given name, falling back to its default.
func (s Settings) Color(name string) Color {
	if c, ok := s.Colors[name]; ok {
		return c
	}
	return defaultColors()[name]
}

// Load reads the settings held by v. Values written by older versions are migrated: a missing
// analyzeForMissingData turns analysis on, missing colours reset every colour, and a missing save
// type or format falls back to signal posts as CSV.
func Load(v *viper.Viper) (Settings, error) {
	s := Default()
	if v == nil {
		return s, nil
	}

	s.ThisIsTHM = cast.ToBool(v.Get("thisIsTHM"))
	s.SaveForWUW = cast.ToBool(v.Get("saveForWUW"))
	if v.IsSet("analyzeForMissingData") {
		s.AnalyzeForMissingData = cast.ToBool(v.Get("analyzeForMissingData"))
	}
	if v.IsSet("grids") {
		grids, err := parseGrids(v.Get("grids"))
		if err != nil {
			return s, err
		}
		s.Grids = grids
	}
	if v.IsSet("colors") {
		colors, err := parseColors(v.Get("colors"))
		if err != nil {
			return s, err
		}
		s.Colors = colors
	} else {
		s.ResetColors()
	}
	if v.IsSet("saveDataType") {
		s.SaveDataType = exchange.ParseDataType(cast.ToString(v.Get("saveDataType")))
	}
	if v.IsSet("saveDataFormat") {
		f, err := exchange.ParseFormat(cast.ToString(v.Get("saveDataFormat")))
		if err != nil {
			glog.Warningf("Ignoring saved data format: %v", err)
			f = exchange.CSV
		}
		s.SaveDataFormat = f
	}
	return s, nil
}

// LoadFile reads the settings file at path. A missing file yields the defaults.
func LoadFile(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		glog.V(2).Infof("No settings at %s, using defaults", path)
		return Default(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Default(), errors.Wrapf(err, "while reading settings from %s", path)
	}
	return Load(v)
}

// Save stores s in v and writes v to path. The file type follows the extension of path.
func Save(s Settings, v *viper.Viper, path string) error {
	grids := make([]map[string]interface{}, 0, len(s.Grids))
	for _, g := range s.Grids {
		grids = append(grids, map[string]interface{}{
			"level": g.Level, "width": g.Width, "color": g.Color, "opacity": g.Opacity,
		})
	}
	colors := make(map[string]interface{}, len(s.Colors))
	for name, c := range s.Colors {
		colors[name] = map[string]interface{}{"color": c.Color, "opacity": c.Opacity}
	}

	v.Set("thisIsTHM", s.ThisIsTHM)
	v.Set("analyzeForMissingData", s.AnalyzeForMissingData)
	v.Set("grids", grids)
	v.Set("colors", colors)
	v.Set("saveDataType", string(s.SaveDataType))
	v.Set("saveDataFormat", string(s.SaveDataFormat))
	v.Set("saveForWUW", s.SaveForWUW)
	return errors.Wrapf(v.WriteConfigAs(path), "while saving settings to %s", path)
}

// lookup finds key in m ignoring case, viper lowercases the keys it reads from files.
func lookup(m map[string]interface{}, key string) (interface{}, bool) {
	if val, ok := m[key]; ok {
		return val, true
	}
	for k, val := range m {
		if strings.EqualFold(k, key) {
			return val, true
		}
	}
	return nil, false
}

func parseGrids(raw interface{}) ([]Grid, error) {
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading grids")
	}
	grids := make([]Grid, 0, len(items))
	for idx, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, errors.Wrapf(err, "while reading grid %d", idx)
		}
		var g Grid
		if val, ok := lookup(m, "level"); ok {
			g.Level = cast.ToInt(val)
		}
		if val, ok := lookup(m, "width"); ok {
			g.Width = cast.ToInt(val)
		}
		if val, ok := lookup(m, "color"); ok {
			g.Color = cast.ToString(val)
		}
		if val, ok := lookup(m, "opacity"); ok {
			g.Opacity = cast.ToFloat64(val)
		}
		grids = append(grids, g)
	}
	return grids, nil
}

func parseColors(raw interface{}) (map[string]Color, error) {
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading colors")
	}
	colors := defaultColors()
	for name := range colors {
		val, ok := lookup(m, name)
		if !ok {
			continue
		}
		cm, err := cast.ToStringMapE(val)
		if err != nil {
			return nil, errors.Wrapf(err, "while reading color %s", name)
		}
		c := colors[name]
		if val, ok := lookup(cm, "color"); ok {
			c.Color = cast.ToString(val)
		}
		if val, ok := lookup(cm, "opacity"); ok {
			c.Opacity = cast.ToFloat64(val)
		}
		colors[name] = c
	}
	return colors, nil
}
