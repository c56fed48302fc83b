package units

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evergreen-ci/speedup/points"
	"github.com/evergreen-ci/speedup/results"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllRegisteredUnitsAreRemoteSafe(t *testing.T) {
	assert := assert.New(t)

	for _, id := range []string{generatePointListJobName, exportResultsJobName} {
		grip.Infoln("testing job is remote ready:", id)
		factory, err := registry.GetJobFactory(id)
		assert.NoError(err)
		assert.NotNil(factory)
		job := factory()

		assert.NotNil(job)
		assert.Equal(id, job.Type().Name)

		assert.NotPanics(func() {
			dbjob, err := registry.MakeJobInterchange(job, amboy.JSON)

			assert.NoError(err)
			assert.NotNil(dbjob)
			assert.NotNil(dbjob.Dependency)
			assert.Equal(id, dbjob.Type)
		}, id)
	}
}

func TestGeneratePointListJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	bucket := storage.BucketOptions{Type: storage.PailLocal, Name: dir}

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewGeneratePointListJob(0, points.Spec{}, points.GeneratorOptions{}, bucket)
		assert.Error(t, err)
		_, err = NewGeneratePointListJob(10, points.Spec{Preset: "nope"}, points.GeneratorOptions{}, bucket)
		assert.Error(t, err)
		_, err = NewGeneratePointListJob(10, points.Spec{}, points.GeneratorOptions{MatchRatio: 3}, bucket)
		assert.Error(t, err)
	})
	t.Run("Run", func(t *testing.T) {
		j, err := NewGeneratePointListJob(100, points.Spec{Preset: points.PresetCubic}, points.GeneratorOptions{Noise: 50, MatchRatio: 0.5, Seed: 3}, bucket)
		require.NoError(t, err)

		j.Run(ctx)
		require.NoError(t, j.Error())
		assert.True(t, j.Status().Completed)

		f, err := os.Open(filepath.Join(dir, points.ListFileName(100)))
		require.NoError(t, err)
		defer f.Close()
		pts, err := points.ReadPoints(f)
		require.NoError(t, err)
		assert.Len(t, pts, 100)
	})
}

func TestGeneratePointLists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	q := queue.NewLocalLimitedSize(2, 100)
	require.NoError(t, q.Start(ctx))

	sizes := []int{10, 20, 30}
	require.NoError(t, GeneratePointLists(ctx, q, sizes, points.Spec{}, points.GeneratorOptions{Seed: 1}, storage.BucketOptions{Name: dir}))

	for _, size := range sizes {
		data, err := os.ReadFile(filepath.Join(dir, points.ListFileName(size)))
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), size)
	}

	assert.NotEqual(t, PointListSeed(1, 10), PointListSeed(1, 20))
}

func TestLogQueueStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewLocalLimitedSize(1, 10)
	assert.NotPanics(t, func() { logQueueStats(ctx, q, level.Info, "not started") })
	assert.NotPanics(t, func() { logQueueStats(ctx, nil, level.Info, "no queue") })

	require.NoError(t, q.Start(ctx))
	assert.NotPanics(t, func() { logQueueStats(ctx, q, level.Info, "started") })
}

func TestExportResultsJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	input := filepath.Join(dir, "results.hybrid.csv")
	require.NoError(t, os.WriteFile(input, []byte("1,1,100,4.0\n2,2,100,1.1\n"), 0644))
	bucket := storage.BucketOptions{Name: filepath.Join(dir, "out")}

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewExportResultsJob(ExportResultsOptions{Key: "x", Format: ExportFTDC, Bucket: bucket})
		assert.Error(t, err)
		_, err = NewExportResultsJob(ExportResultsOptions{Path: input, Key: "x", Format: "csv", Bucket: bucket})
		assert.Error(t, err)
	})
	t.Run("Parquet", func(t *testing.T) {
		j, err := NewExportResultsJob(ExportResultsOptions{
			Path:   input,
			Layout: results.LayoutHybrid,
			Kind:   results.KindHybrid,
			Format: ExportParquet,
			Key:    "results.hybrid.parquet",
			Bucket: bucket,
		})
		require.NoError(t, err)
		j.Run(ctx)
		require.NoError(t, j.Error())

		f, err := os.Open(filepath.Join(dir, "out", "results.hybrid.parquet"))
		require.NoError(t, err)
		defer f.Close()
		ms, err := results.ReadParquet(f)
		require.NoError(t, err)
		require.Len(t, ms, 2)
		assert.Equal(t, 4, ms[1].Units)
	})
	t.Run("MissingInputThroughQueue", func(t *testing.T) {
		q := queue.NewLocalLimitedSize(1, 100)
		require.NoError(t, q.Start(ctx))

		j, err := NewExportResultsJob(ExportResultsOptions{
			Path:   filepath.Join(dir, "results.mpi.csv"),
			Format: ExportFTDC,
			Key:    "results.mpi.ftdc",
			Bucket: bucket,
		})
		require.NoError(t, err)

		err = RunJobs(ctx, q, []amboy.Job{j})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "results.mpi.csv")
	})
}
