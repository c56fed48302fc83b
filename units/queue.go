package units

import (
	"context"
	"time"

	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// RunJobs submits the jobs, waits for the queue to drain and returns
// the combined errors of the jobs.
func RunJobs(ctx context.Context, q amboy.Queue, jobs []amboy.Job) error {
	catcher := grip.NewBasicCatcher()
	for _, j := range jobs {
		catcher.Wrapf(q.Put(ctx, j), "submitting job '%s'", j.ID())
	}
	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	logQueueStats(ctx, q, level.Debug, "submitted jobs")
	amboy.WaitInterval(ctx, q, 100*time.Millisecond)
	if err := ctx.Err(); err != nil {
		logQueueStats(context.Background(), q, level.Warning, "stopped waiting for jobs")
		return errors.Wrap(err, "waiting for jobs")
	}

	for _, j := range jobs {
		catcher.Add(j.Error())
	}
	grip.Debug(message.Fields{
		"message": "jobs complete",
		"jobs":    len(jobs),
		"errors":  catcher.Len(),
	})

	return catcher.Resolve()
}

// PointListSeed derives the seed of one list so that every list of a
// run is different but reproducible from the base seed.
func PointListSeed(base int64, size int) int64 {
	return base + int64(size)
}

// GeneratePointLists writes one point list per size using the queue's
// workers.
func GeneratePointLists(ctx context.Context, q amboy.Queue, sizes []int, fn points.Spec, opts points.GeneratorOptions, bucket storage.BucketOptions) error {
	jobs := make([]amboy.Job, 0, len(sizes))
	for _, size := range sizes {
		listOpts := opts
		listOpts.Seed = PointListSeed(opts.Seed, size)

		j, err := NewGeneratePointListJob(size, fn, listOpts, bucket)
		if err != nil {
			return errors.WithStack(err)
		}
		jobs = append(jobs, j)
	}

	return errors.WithStack(RunJobs(ctx, q, jobs))
}
