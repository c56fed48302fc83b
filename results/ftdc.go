package results

import (
	"context"
	"io"
	"time"

	"github.com/mongodb/ftdc"
	"github.com/mongodb/ftdc/events"
	"github.com/pkg/errors"
)

const defaultSamplesPerChunk = 10 * 1000

// WriteFTDC converts measurements into a performance time series and
// writes the resulting FTDC payload to output. Each measurement becomes
// one sample, one second apart from start:
//
//	counters.n     units
//	counters.ops   processes (zero for flat layouts)
//	counters.size  workload size
//	timers.dur     wall time
//	timers.total   wall time multiplied by units
func WriteFTDC(ctx context.Context, output io.Writer, ms []Measurement, start time.Time, metadata interface{}) error {
	collector := ftdc.NewBatchCollector(defaultSamplesPerChunk)

	if metadata != nil {
		if err := collector.SetMetadata(metadata); err != nil {
			return errors.WithStack(err)
		}
	}

	for idx, m := range ms {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "operation canceled")
		}

		point := &events.Performance{
			Timestamp: start.Add(time.Duration(idx) * time.Second),
			ID:        int64(idx),
		}
		point.Counters.Number = int64(m.Units)
		point.Counters.Operations = int64(m.Procs)
		point.Counters.Size = int64(m.Size)
		point.Timers.Duration = secondsToDuration(m.Time)
		point.Timers.Total = secondsToDuration(m.Time * float64(m.Units))

		if err := collector.Add(point); err != nil {
			return errors.Wrap(err, "adding document to FTDC")
		}
	}

	payload, err := collector.Resolve()
	if err != nil {
		return errors.Wrap(err, "dumping FTDC data")
	}

	n, err := output.Write(payload)
	if err != nil {
		return errors.Wrap(err, "writing data")
	}
	if n != len(payload) {
		return errors.New("data improperly flushed")
	}

	return nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
