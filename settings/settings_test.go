/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/thm-tools/cellgrid/exchange"
)

func fromJSON(t *testing.T, in string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	require.NoError(t, v.ReadConfig(strings.NewReader(in)))
	return v
}

func TestDefault(t *testing.T) {
	s := Default()
	require.True(t, s.AnalyzeForMissingData)
	require.False(t, s.ThisIsTHM)
	require.Equal(t, []Grid{
		{Level: 6, Width: 5, Color: "#004D40", Opacity: 0.5},
		{Level: 0, Width: 2, Color: "#388E3C", Opacity: 0.5},
	}, s.Grids)
	require.Len(t, s.Colors, 4)
	require.Equal(t, Color{Color: "#000000", Opacity: 0.4}, s.Color(NearbyCircleFill))
	require.Equal(t, exchange.SignalPosts, s.SaveDataType)
	require.Equal(t, exchange.CSV, s.SaveDataFormat)

	s, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), s)
}

func TestLoadLegacy(t *testing.T) {
	// Written before colours, analysis and the save dialog existed. Opacity used to be saved as the
	// string value of the select box.
	v := fromJSON(t, `{
		"thisIsTHM": true,
		"promptForMissingData": false,
		"grids": [
			{"level": 14, "width": 3, "color": "#FF0000", "opacity": "0.9"},
			{"level": 17, "width": 1, "color": "#00FF00", "opacity": 0.2}
		]
	}`)
	s, err := Load(v)
	require.NoError(t, err)
	require.True(t, s.ThisIsTHM)
	require.True(t, s.AnalyzeForMissingData)
	require.Equal(t, []Grid{
		{Level: 14, Width: 3, Color: "#004D40", Opacity: 0.5},
		{Level: 17, Width: 1, Color: "#388E3C", Opacity: 0.5},
	}, s.Grids)
	require.Equal(t, Default().Colors, s.Colors)
	require.Equal(t, exchange.SignalPosts, s.SaveDataType)
	require.Equal(t, exchange.CSV, s.SaveDataFormat)
}

func TestLoadCurrent(t *testing.T) {
	v := fromJSON(t, `{
		"analyzeForMissingData": false,
		"grids": [{"level": 15, "width": 2, "color": "#123456", "opacity": "0.7"}],
		"colors": {"nearbyCircleBorder": {"color": "#FFFFFF", "opacity": 1}},
		"saveDataType": "Raids",
		"saveDataFormat": "JSON",
		"saveForWUW": true
	}`)
	s, err := Load(v)
	require.NoError(t, err)
	require.False(t, s.AnalyzeForMissingData)
	require.Equal(t, []Grid{{Level: 15, Width: 2, Color: "#123456", Opacity: 0.7}}, s.Grids)
	require.Equal(t, Color{Color: "#FFFFFF", Opacity: 1}, s.Color(NearbyCircleBorder))
	require.Equal(t, Color{Color: "#000000", Opacity: 0.6}, s.Color(Cell16Filled))
	require.Equal(t, exchange.Raids, s.SaveDataType)
	require.Equal(t, exchange.JSON, s.SaveDataFormat)
	require.True(t, s.SaveForWUW)
}

func TestLoadBadFormat(t *testing.T) {
	s, err := Load(fromJSON(t, `{"saveDataFormat": "xml", "saveDataType": "gyms"}`))
	require.NoError(t, err)
	require.Equal(t, exchange.CSV, s.SaveDataFormat)
	require.Equal(t, exchange.All, s.SaveDataType)

	_, err = Load(fromJSON(t, `{"grids": 5}`))
	require.Error(t, err)
}

func TestResetColors(t *testing.T) {
	s := Default()
	s.Grids[0].Color = "#FFFFFF"
	s.Grids[0].Level = 12
	s.Colors[Cell14Filled] = Color{Color: "#FFFFFF", Opacity: 1}
	s.ResetColors()
	require.Equal(t, Grid{Level: 12, Width: 5, Color: "#004D40", Opacity: 0.5}, s.Grids[0])
	require.Equal(t, Default().Colors, s.Colors)

	s.Grids = nil
	s.ResetColors()
	require.Empty(t, s.Grids)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	s, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, Default(), s)

	s.ThisIsTHM = true
	s.Grids[1].Level = 17
	s.Colors[Cell16Filled] = Color{Color: "#ABCDEF", Opacity: 0.3}
	s.SaveDataType = exchange.All
	s.SaveDataFormat = exchange.JSON
	require.NoError(t, Save(s, viper.New(), path))

	_, err = os.Stat(path)
	require.NoError(t, err)
	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, s, got)
}
