/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package store persists classified points in badger, together with an index from grid cells to
// the points inside them.
//
// Keys:
//
//	p/<guid>               -> JSON record {kind, poi}
//	c/<cell key>/<guid>    -> empty, one entry per index level
package store

import (
	"bytes"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/thm-tools/cellgrid/geo"
	"github.com/thm-tools/cellgrid/poi"
)

var (
	// ErrNotFound is returned when no point is stored under a GUID.
	ErrNotFound = errors.New("poi not found")
	// ErrNoGUID is returned when a point without GUID is stored.
	ErrNoGUID = errors.New("poi has no guid")
	// ErrLevel is returned by InCell for levels that are not indexed.
	ErrLevel = errors.New("level is not indexed")
)

const (
	poiPrefix  = "p/"
	cellPrefix = "c/"

	// Number of writes per transaction in PutMany.
	batchSize = 1000
)

type record struct {
	Kind poi.Kind `json:"kind"`
	POI  poi.POI  `json:"poi"`
}

// Store is safe for concurrent use, badger transactions provide the isolation.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	opt := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.WARNING).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening store at %s", dir)
	}
	glog.V(2).Infof("Opened store at %s", dir)
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that lives in memory only.
func OpenInMemory() (*Store, error) {
	opt := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening in-memory store")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func poiKey(guid string) []byte {
	return []byte(poiPrefix + guid)
}

func cellKey(cell, guid string) []byte {
	return []byte(cellPrefix + cell + "/" + guid)
}

func cellKeys(p poi.POI) [][]byte {
	toks := geo.IndexTokens(p.LatLng(), geo.MinIndexLevel, geo.MaxIndexLevel)
	keys := make([][]byte, len(toks))
	for i, tok := range toks {
		keys[i] = cellKey(tok, p.GUID)
	}
	return keys
}

func getRecord(txn *badger.Txn, guid string) (record, error) {
	var rec record
	item, err := txn.Get(poiKey(guid))
	if err == badger.ErrKeyNotFound {
		return rec, errors.Wrapf(ErrNotFound, "guid %q", guid)
	}
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, errors.Wrapf(err, "while decoding %q", guid)
}

func deleteRecord(txn *badger.Txn, rec record) error {
	for _, k := range cellKeys(rec.POI) {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return txn.Delete(poiKey(rec.POI.GUID))
}

func putRecord(txn *badger.Txn, kind poi.Kind, p poi.POI) error {
	if p.GUID == "" {
		return ErrNoGUID
	}
	if _, err := poi.ParseKind(string(kind)); err != nil {
		return err
	}
	old, err := getRecord(txn, p.GUID)
	switch {
	case err == nil:
		if err := deleteRecord(txn, old); err != nil {
			return err
		}
	case !errors.Is(err, ErrNotFound):
		return err
	}

	rec := record{Kind: kind, POI: p.Minimal()}
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := txn.Set(poiKey(p.GUID), val); err != nil {
		return err
	}
	for _, k := range cellKeys(p) {
		if err := txn.Set(k, nil); err != nil {
			return err
		}
	}
	return nil
}

// Put stores p under kind, replacing whatever was stored under its GUID before.
func (s *Store) Put(kind poi.Kind, p poi.POI) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putRecord(txn, kind, p)
	})
}

// PutMany stores every point of pois under kind.
func (s *Store) PutMany(kind poi.Kind, pois []poi.POI) error {
	for start := 0; start < len(pois); start += batchSize {
		end := min(start+batchSize, len(pois))
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, p := range pois[start:end] {
				if err := putRecord(txn, kind, p); err != nil {
					return errors.Wrapf(err, "while storing %q", p.GUID)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Get returns the point stored under guid and its kind.
func (s *Store) Get(guid string) (poi.Kind, poi.POI, error) {
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, guid)
		return err
	})
	return rec.Kind, rec.POI, err
}

// Has reports whether a point is stored under guid.
func (s *Store) Has(guid string) (bool, error) {
	_, _, err := s.Get(guid)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	return false, err
}

// Delete removes the point stored under guid.
func (s *Store) Delete(guid string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, guid)
		if err != nil {
			return err
		}
		return deleteRecord(txn, rec)
	})
}

// Move replaces the point stored under guid by seen, keeping its kind. The stored name is kept when
// seen has none.
func (s *Store) Move(guid string, seen poi.POI) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, guid)
		if err != nil {
			return err
		}
		if err := deleteRecord(txn, rec); err != nil {
			return err
		}
		moved := seen.Minimal()
		if moved.Name == "" {
			moved.Name = rec.POI.Name
		}
		moved.Sponsored = rec.POI.Sponsored
		return putRecord(txn, rec.Kind, moved)
	})
}

func (s *Store) iterate(fn func(rec record)) error {
	return s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(poiPrefix)
		itr := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true})
		defer itr.Close()
		for itr.Seek(prefix); itr.ValidForPrefix(prefix); itr.Next() {
			var rec record
			err := itr.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "while decoding %s", itr.Item().Key())
			}
			fn(rec)
		}
		return nil
	})
}

// List returns the points stored under kind.
func (s *Store) List(kind poi.Kind) (poi.Set, error) {
	out := make(poi.Set)
	err := s.iterate(func(rec record) {
		if rec.Kind == kind {
			out[rec.POI.GUID] = rec.POI
		}
	})
	return out, err
}

// All returns every stored point by kind. Every kind is present, possibly empty.
func (s *Store) All() (map[poi.Kind]poi.Set, error) {
	out := make(map[poi.Kind]poi.Set, len(poi.Kinds))
	for _, k := range poi.Kinds {
		out[k] = make(poi.Set)
	}
	err := s.iterate(func(rec record) {
		if set, ok := out[rec.Kind]; ok {
			set[rec.POI.GUID] = rec.POI
		}
	})
	return out, err
}

// Counts returns the number of points stored per kind.
func (s *Store) Counts() (map[poi.Kind]int, error) {
	out := make(map[poi.Kind]int, len(poi.Kinds))
	err := s.iterate(func(rec record) {
		out[rec.Kind]++
	})
	return out, err
}

// InCell returns the GUIDs of the points inside c, sorted. c must be at an indexed level.
func (s *Store) InCell(c geo.Cell) ([]string, error) {
	if c.Level() < geo.MinIndexLevel || c.Level() > geo.MaxIndexLevel {
		return nil, errors.Wrapf(ErrLevel, "level %d not in [%d, %d]", c.Level(),
			geo.MinIndexLevel, geo.MaxIndexLevel)
	}
	var guids []string
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(cellPrefix + c.Key() + "/")
		itr := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer itr.Close()
		for itr.Seek(prefix); itr.ValidForPrefix(prefix); itr.Next() {
			key := itr.Item().Key()
			guids = append(guids, string(bytes.TrimPrefix(key, prefix)))
		}
		return nil
	})
	return guids, err
}

// Reset removes every stored point.
func (s *Store) Reset() error {
	return errors.Wrapf(s.db.DropAll(), "while resetting store")
}

