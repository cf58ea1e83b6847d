/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package poi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/thm-tools/cellgrid/geo"
)

var base = geo.LatLng{Lat: 40.4167754, Lng: -3.7037902}

// at returns a point at the centre of c.
func at(c geo.Cell, guid, name string) POI {
	ll := c.Center()
	return POI{GUID: guid, Lat: ll.Lat, Lng: ll.Lng, Name: name}
}

func newClassifier(t *testing.T) *Classifier {
	c, err := NewClassifier(1 << 10)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"signalposts": SignalPosts,
		"SignalPost":  SignalPosts,
		" raids ":     Raids,
		"raid":        Raids,
		"notthm":      NotTHM,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseKind("gym")
	require.True(t, errors.Is(err, ErrUnknownKind))
}

func TestMinimal(t *testing.T) {
	p := POI{GUID: "a", Lat: 1, Lng: 2, Name: "n", Sponsored: true, Image: "img", Exists: true,
		NewGUID: "b"}
	require.Equal(t, POI{GUID: "a", Lat: 1, Lng: 2, Name: "n", Sponsored: true}, p.Minimal())
	require.Equal(t, Set{"a": p.Minimal()}, Set{"a": p}.Minimal())
}

func TestSorted(t *testing.T) {
	s := Set{
		"3": {GUID: "3", Name: "Bench"},
		"1": {GUID: "1"},
		"2": {GUID: "2", Name: "Arch"},
		"0": {GUID: "0", Name: "Bench"},
	}
	var guids []string
	for _, p := range s.Sorted() {
		guids = append(guids, p.GUID)
	}
	require.Equal(t, []string{"1", "2", "0", "3"}, guids)
}
