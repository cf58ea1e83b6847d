/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"context"

	"github.com/pkg/errors"
)

// ErrWalkLimit is returned by WalkContext when it had to stop queueing cells because the limit
// was reached.
var ErrWalkLimit = errors.New("walk limit reached")

// Walk is WalkContext without cancellation or limit.
func Walk(start Cell, deltas []Delta, visit func(Cell) bool) int {
	n, _ := WalkContext(context.Background(), start, deltas, 0, visit)
	return n
}

// WalkContext flood fills the grid from start. Every cell is passed to visit at most once; when
// visit returns true the cell's neighbours (per deltas, DefaultDeltas when empty) are queued. Cells
// are tracked by their canonical key, so a walk with a bounded visit always terminates. limit caps
// the number of distinct cells seen, 0 means no cap.
//
// It returns the number of cells visit accepted. The walk stops early when ctx is done.
func WalkContext(ctx context.Context, start Cell, deltas []Delta, limit int,
	visit func(Cell) bool) (int, error) {

	seen := map[string]struct{}{start.Key(): {}}
	queue := []Cell{start}
	var accepted int
	var truncated bool
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		c := queue[0]
		queue = queue[1:]
		if !visit(c) {
			continue
		}
		accepted++
		for _, n := range c.Neighbors(deltas...) {
			key := n.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			if limit > 0 && len(seen) >= limit {
				truncated = true
				continue
			}
			seen[key] = struct{}{}
			queue = append(queue, n)
		}
	}
	if truncated {
		return accepted, errors.Wrapf(ErrWalkLimit, "after %d cells", limit)
	}
	return accepted, nil
}
