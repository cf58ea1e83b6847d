/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"

	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/x"
)

// Size returns the on disk size of the LSM tree and of the value log in bytes.
func (s *Store) Size() (lsm, vlog int64) {
	return s.db.Size()
}

// RecordCounts publishes the number of stored points per kind and returns the counts.
func (s *Store) RecordCounts(ctx context.Context) (map[poi.Kind]int, error) {
	counts, err := s.Counts()
	if err != nil {
		return nil, err
	}
	for _, k := range poi.Kinds {
		x.Ignore(stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(x.KeyKind, string(k))},
			x.NumPOIs.M(int64(counts[k]))))
	}
	return counts, nil
}
