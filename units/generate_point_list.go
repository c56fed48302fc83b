package units

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const generatePointListJobName = "generate-point-list"

type generatePointListJob struct {
	Size     int                     `bson:"size" json:"size" yaml:"size"`
	Function points.Spec             `bson:"function" json:"function" yaml:"function"`
	Options  points.GeneratorOptions `bson:"options" json:"options" yaml:"options"`
	Bucket   storage.BucketOptions   `bson:"bucket" json:"bucket" yaml:"bucket"`

	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`
}

func init() {
	registry.AddJobType(generatePointListJobName, func() amboy.Job { return makeGeneratePointListJob() })
}

func makeGeneratePointListJob() *generatePointListJob {
	j := &generatePointListJob{
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    generatePointListJobName,
				Version: 1,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewGeneratePointListJob returns a job that writes size points sampled
// around fn to the bucket as points_<size>.txt.
func NewGeneratePointListJob(size int, fn points.Spec, opts points.GeneratorOptions, bucket storage.BucketOptions) (amboy.Job, error) {
	j := makeGeneratePointListJob()
	j.Size = size
	j.Function = fn
	j.Options = opts
	j.Bucket = bucket

	if err := j.validate(); err != nil {
		return nil, errors.Wrap(err, "failed to create new point list job")
	}

	j.SetID(fmt.Sprintf("%s.%d.%d.%d.%s", generatePointListJobName, size, opts.Seed, job.GetNumber(), time.Now().Format(time.RFC3339Nano)))
	return j, nil
}

func (j *generatePointListJob) validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(j.Size <= 0, "list size must be positive")
	catcher.Add(j.Options.Validate())
	catcher.Add(j.Bucket.Validate())
	_, err := j.Function.Function()
	catcher.Add(err)
	return catcher.Resolve()
}

func (j *generatePointListJob) Run(ctx context.Context) {
	defer j.MarkComplete()
	startAt := time.Now()

	fn, err := j.Function.Function()
	if err != nil {
		j.AddError(errors.Wrap(err, "problem resolving function"))
		return
	}

	gen, err := points.NewGenerator(fn, j.Options)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem creating generator"))
		return
	}

	sink, err := storage.NewSink(ctx, j.Bucket)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem resolving bucket"))
		return
	}

	key := points.ListFileName(j.Size)
	w, err := sink.Writer(ctx, key)
	if err != nil {
		j.AddError(errors.WithStack(err))
		return
	}

	err = gen.WriteTo(ctx, w, j.Size)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		j.AddError(errors.Wrapf(err, "problem writing point list of size %d", j.Size))
		return
	}

	grip.Info(message.Fields{
		"job_id":   j.ID(),
		"message":  "generated point list",
		"size":     humanize.Comma(int64(j.Size)),
		"output":   sink.Location(key),
		"seed":     j.Options.Seed,
		"dur_secs": time.Since(startAt).Seconds(),
	})
}
