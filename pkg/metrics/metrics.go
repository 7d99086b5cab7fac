// Package metrics collects operation counters and timings with
// opencensus measures.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	initOnce sync.Once

	// PushCount counts version pushes
	PushCount = stats.Int64("dddit/pushes", "number of version pushes", stats.UnitDimensionless)

	// PullCount counts version pulls
	PullCount = stats.Int64("dddit/pulls", "number of version pulls", stats.UnitDimensionless)

	// CompensationCount counts rollbacks of partially applied pushes
	CompensationCount = stats.Int64("dddit/compensations", "number of push rollbacks", stats.UnitDimensionless)

	// PushDuration measures the time spent pushing a version, in milliseconds
	PushDuration = stats.Float64("dddit/push_duration", "push duration", stats.UnitMilliseconds)

	// KeyOperation tags measurements with the operation name
	KeyOperation = tag.MustNewKey("operation")
)

// Init registers the metric views. It may be called multiple times:
// only the first time matters.
func Init() error {
	var err error
	initOnce.Do(func() {
		err = view.Register(
			&view.View{
				Name:        "dddit/pushes",
				Measure:     PushCount,
				Description: "number of version pushes",
				Aggregation: view.Count(),
				TagKeys:     []tag.Key{KeyOperation},
			},
			&view.View{
				Name:        "dddit/pulls",
				Measure:     PullCount,
				Description: "number of version pulls",
				Aggregation: view.Count(),
				TagKeys:     []tag.Key{KeyOperation},
			},
			&view.View{
				Name:        "dddit/compensations",
				Measure:     CompensationCount,
				Description: "number of push rollbacks",
				Aggregation: view.Count(),
				TagKeys:     []tag.Key{KeyOperation},
			},
			&view.View{
				Name:        "dddit/push_duration",
				Measure:     PushDuration,
				Description: "push duration",
				Aggregation: view.Distribution(10, 100, 1000, 10000, 60000),
				TagKeys:     []tag.Key{KeyOperation},
			},
		)
	})
	return err
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, operation string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)},
		counter.M(1))
}

// Since feeds a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, operation string) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)},
		measure.M(ms))
}
