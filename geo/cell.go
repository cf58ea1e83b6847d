/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidKey is returned when a string is not a canonical cell key.
	ErrInvalidKey = errors.New("invalid cell key")
	// ErrOutOfRange is returned when a level or index lies outside its valid range.
	ErrOutOfRange = errors.New("cell index out of range")
)

// Cell is one square of the grid: a face, an (i, j) index on that face and the level the face was
// subdivided to. Cells are values; two cells are equal iff all four fields are equal, so they can
// be compared with == and used as map keys directly.
//
// Unlike S2 cell ids, (face, i, j) is not linearised along a space filling curve. Cells carry no
// global ordering.
type Cell struct {
	face  int
	i, j  int
	level int
}

// Descriptor is the exported form of a cell, used for JSON output.
type Descriptor struct {
	Face  int `json:"face"`
	I     int `json:"i"`
	J     int `json:"j"`
	Level int `json:"level"`
}

// FromLatLng returns the cell containing ll at the given level.
func FromLatLng(ll LatLng, level int) Cell {
	face, uv := xyzToFaceUV(latLngToXYZ(ll))
	st := uvToSTPoint(uv)
	return FromFaceIJ(face, stToIJ(st.X, level), stToIJ(st.Y, level), level)
}

// FromFaceIJ builds a cell from its parts. The values are not checked, callers either pass
// in-range values or use Validate.
func FromFaceIJ(face, i, j, level int) Cell {
	return Cell{face: face, i: i, j: j, level: level}
}

func (c Cell) Face() int  { return c.face }
func (c Cell) I() int     { return c.i }
func (c Cell) J() int     { return c.j }
func (c Cell) Level() int { return c.level }

// IJ returns the grid index of the cell on its face.
func (c Cell) IJ() (int, int) { return c.i, c.j }

// String returns the canonical key F<face>ij[<i>,<j>]@<level>.
func (c Cell) String() string {
	return fmt.Sprintf("F%dij[%d,%d]@%d", c.face, c.i, c.j, c.level)
}

// Key is the canonical key of the cell. Points are grouped by this key.
func (c Cell) Key() string {
	return c.String()
}

func (c Cell) Descriptor() Descriptor {
	return Descriptor{Face: c.face, I: c.i, J: c.j, Level: c.level}
}

// Validate checks the face, level and index ranges of c.
func (c Cell) Validate() error {
	if c.face < 0 || c.face >= NumFaces {
		return errors.Wrapf(ErrInvalidFace, "face %d", c.face)
	}
	if c.level < 0 || c.level > MaxLevel {
		return errors.Wrapf(ErrOutOfRange, "level %d", c.level)
	}
	size := sizeIJ(c.level)
	if c.i < 0 || c.i >= size || c.j < 0 || c.j >= size {
		return errors.Wrapf(ErrOutOfRange, "ij [%d,%d] at level %d", c.i, c.j, c.level)
	}
	return nil
}

// ParseKey parses a canonical key as produced by Cell.String.
func ParseKey(key string) (Cell, error) {
	var face, i, j, level int
	if _, err := fmt.Sscanf(key, "F%dij[%d,%d]@%d", &face, &i, &j, &level); err != nil {
		return Cell{}, errors.Wrapf(ErrInvalidKey, "%q: %v", key, err)
	}
	c := FromFaceIJ(face, i, j, level)
	if c.String() != key {
		return Cell{}, errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	if err := c.Validate(); err != nil {
		return Cell{}, err
	}
	return c, nil
}

// MarshalText lets cells be used as JSON object keys.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parent returns the cell at a coarser level that contains c.
func (c Cell) Parent(level int) Cell {
	if level >= c.level {
		return c
	}
	shift := uint(c.level - level)
	return FromFaceIJ(c.face, c.i>>shift, c.j>>shift, max(level, 0))
}

func (c Cell) latLngAt(offset r2.Point) LatLng {
	st := r2.Point{
		X: ijToST(c.i, c.level, offset.X),
		Y: ijToST(c.j, c.level, offset.Y),
	}
	return xyzToLatLng(faceUVToXYZ(c.face, stToUVPoint(st)))
}

// Center returns the centre of the cell.
func (c Cell) Center() LatLng {
	return c.latLngAt(centerOffset)
}

// Corners returns the four corners of the cell in face order (low,low), (low,high), (high,high),
// (high,low). Joined in that order they form the cell outline.
func (c Cell) Corners() [4]LatLng {
	var out [4]LatLng
	for k, off := range cornerOffsets {
		out[k] = c.latLngAt(off)
	}
	return out
}
