/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"context"
	"net/http"
	"sync"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// Cumulative metrics.
	NumCellsResolved = stats.Int64("cells_resolved_total",
		"Total number of points resolved to cells", stats.UnitDimensionless)
	NumFaceCrossings = stats.Int64("face_crossings_total",
		"Total number of neighbours that were re-anchored on another face", stats.UnitDimensionless)
	NumWalkVisited = stats.Int64("walk_visited_cells",
		"Number of cells accepted by a grid walk", stats.UnitDimensionless)
	LatencyMs = stats.Float64("latency",
		"Latency of the various methods", stats.UnitMilliseconds)

	// Point-in-time metrics.
	NumPOIs = stats.Int64("pois_total",
		"Number of stored points of interest", stats.UnitDimensionless)

	// Tag keys here
	KeyStatus, _ = tag.NewKey("status")
	KeyMethod, _ = tag.NewKey("method")
	KeyKind, _   = tag.NewKey("kind")

	// Tag values here
	TagValueStatusOK    = "ok"
	TagValueStatusError = "error"

	defaultLatencyMsDistribution = view.Distribution(
		0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16,
		20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500,
		650, 800, 1000, 2000, 5000, 10000, 20000, 50000, 100000)

	walkDistribution = view.Distribution(
		1, 4, 16, 64, 256, 1024, 4096, 16384, 65536)

	allTagKeys = []tag.Key{
		KeyStatus, KeyMethod,
	}

	allViews = []*view.View{
		{
			Name:        LatencyMs.Name(),
			Measure:     LatencyMs,
			Description: LatencyMs.Description(),
			Aggregation: defaultLatencyMsDistribution,
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumCellsResolved.Name(),
			Measure:     NumCellsResolved,
			Description: NumCellsResolved.Description(),
			Aggregation: view.Sum(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumFaceCrossings.Name(),
			Measure:     NumFaceCrossings,
			Description: NumFaceCrossings.Description(),
			Aggregation: view.Sum(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumWalkVisited.Name(),
			Measure:     NumWalkVisited,
			Description: NumWalkVisited.Description(),
			Aggregation: walkDistribution,
			TagKeys:     allTagKeys,
		},

		// Last value aggregations
		{
			Name:        NumPOIs.Name(),
			Measure:     NumPOIs,
			Description: NumPOIs.Description(),
			Aggregation: view.LastValue(),
			TagKeys:     []tag.Key{KeyKind},
		},
	}

	registerOnce sync.Once
	metricsHandler http.Handler
	errRegister    error
)

// RegisterMetrics registers the views and returns the handler serving them in the Prometheus
// text format. The Go runtime and process collectors are served alongside. Safe to call more than
// once; every call returns the same handler.
func RegisterMetrics() (http.Handler, error) {
	registerOnce.Do(func() {
		if err := view.Register(allViews...); err != nil {
			errRegister = errors.Wrapf(err, "while registering views")
			return
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pe, err := ocprom.NewExporter(ocprom.Options{
			Namespace: "cellgrid",
			Registry:  reg,
			OnError:   func(err error) { glog.Errorf("%v", err) },
		})
		if err != nil {
			errRegister = errors.Wrapf(err, "Failed to create OpenCensus Prometheus exporter")
			return
		}
		view.RegisterExporter(pe)
		metricsHandler = pe
	})
	return metricsHandler, errRegister
}

// MetricsContext returns a context with tags that are useful for
// distinguishing the state of the running system.
// This context will be used to derive other contexts.
func MetricsContext() context.Context {
	return context.Background()
}

// WithMethod returns a new updated context with the tag KeyMethod set to the given value.
func WithMethod(parent context.Context, method string) context.Context {
	ctx, err := tag.New(parent, tag.Upsert(KeyMethod, method))
	Check(err)
	return ctx
}

// RecordLatency records the time since start against LatencyMs, tagged with method and status.
func RecordLatency(ctx context.Context, method string, start time.Time, err error) {
	status := TagValueStatusOK
	if err != nil {
		status = TagValueStatusError
	}
	Ignore(stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyMethod, method), tag.Upsert(KeyStatus, status)},
		LatencyMs.M(SinceMs(start))))
}

// SinceMs returns the time since startTime in milliseconds (as a float).
func SinceMs(startTime time.Time) float64 {
	return float64(time.Since(startTime)) / 1e6
}
