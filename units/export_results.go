package units

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/evergreen-ci/speedup/results"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const exportResultsJobName = "export-results"

// ExportFormat names an archive format for benchmark results.
type ExportFormat string

const (
	ExportFTDC    ExportFormat = "ftdc"
	ExportParquet ExportFormat = "parquet"
)

func (f ExportFormat) Validate() error {
	switch f {
	case ExportFTDC, ExportParquet:
		return nil
	default:
		return errors.Errorf("unsupported export format '%s'", f)
	}
}

type exportResultsJob struct {
	Path    string                `bson:"path" json:"path" yaml:"path"`
	Layout  results.Layout        `bson:"layout" json:"layout" yaml:"layout"`
	Kind    results.Kind          `bson:"kind" json:"kind" yaml:"kind"`
	Format  ExportFormat          `bson:"format" json:"format" yaml:"format"`
	Key     string                `bson:"key" json:"key" yaml:"key"`
	Bucket  storage.BucketOptions `bson:"bucket" json:"bucket" yaml:"bucket"`
	Lenient bool                  `bson:"lenient" json:"lenient" yaml:"lenient"`

	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`
}

func init() {
	registry.AddJobType(exportResultsJobName, func() amboy.Job { return makeExportResultsJob() })
}

func makeExportResultsJob() *exportResultsJob {
	j := &exportResultsJob{
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    exportResultsJobName,
				Version: 1,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// ExportResultsOptions describe one results file conversion.
type ExportResultsOptions struct {
	Path    string
	Layout  results.Layout
	Kind    results.Kind
	Format  ExportFormat
	Key     string
	Bucket  storage.BucketOptions
	Lenient bool
}

// NewExportResultsJob returns a job that converts a results CSV into an
// FTDC or parquet archive stored under Key in the bucket.
func NewExportResultsJob(opts ExportResultsOptions) (amboy.Job, error) {
	j := makeExportResultsJob()
	j.Path = opts.Path
	j.Layout = opts.Layout
	j.Kind = opts.Kind
	j.Format = opts.Format
	j.Key = opts.Key
	j.Bucket = opts.Bucket
	j.Lenient = opts.Lenient

	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(j.Path == "", "must specify a results file")
	catcher.NewWhen(j.Key == "", "must specify an output key")
	catcher.Add(j.Format.Validate())
	catcher.Add(j.Bucket.Validate())
	if catcher.HasErrors() {
		return nil, errors.Wrap(catcher.Resolve(), "failed to create new export job")
	}

	j.SetID(fmt.Sprintf("%s.%s.%s.%d", exportResultsJobName, j.Format, j.Path, job.GetNumber()))
	return j, nil
}

func (j *exportResultsJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	ms, err := results.ReadFile(j.Path, j.Layout, j.Kind, results.ReadOptions{SkipInvalid: j.Lenient})
	if err != nil {
		j.AddError(errors.WithStack(err))
		return
	}

	sink, err := storage.NewSink(ctx, j.Bucket)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem resolving bucket"))
		return
	}

	err = sink.WriteTo(ctx, j.Key, storage.WriterFunc(func(w io.Writer) error {
		switch j.Format {
		case ExportParquet:
			return results.WriteParquet(w, ms)
		default:
			return results.WriteFTDC(ctx, w, ms, time.Now(), map[string]interface{}{
				"source": j.Path,
				"kind":   string(j.Kind),
				"layout": j.Layout.String(),
			})
		}
	}))
	if err != nil {
		j.AddError(errors.Wrapf(err, "problem exporting '%s'", j.Path))
		return
	}

	grip.Info(message.Fields{
		"job_id":       j.ID(),
		"message":      "exported results",
		"format":       j.Format,
		"measurements": len(ms),
		"output":       sink.Location(j.Key),
	})
}
