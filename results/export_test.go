package results

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mongodb/ftdc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFTDC(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ms, err := Read(strings.NewReader(hybridFixture), LayoutHybrid, KindHybrid, ReadOptions{})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteFTDC(ctx, buf, ms, time.Now(), map[string]string{"kind": "Hybrid"}))
	require.NotZero(t, buf.Len())

	iter := ftdc.ReadChunks(ctx, bytes.NewReader(buf.Bytes()))
	defer iter.Close()

	found := map[string][]int64{}
	for iter.Next() {
		for _, metric := range iter.Chunk().Metrics {
			found[metric.Key()] = append(found[metric.Key()], metric.Values...)
		}
	}
	require.NoError(t, iter.Err())

	assert.Equal(t, []int64{1, 2, 2, 4}, found["counters.n"])
	assert.Equal(t, []int64{1, 1, 2, 2}, found["counters.ops"])
	assert.Equal(t, []int64{1600000, 1600000, 1600000, 1600000}, found["counters.size"])
	assert.Equal(t, int64(40*time.Second), found["timers.dur"][0])

	t.Run("Canceled", func(t *testing.T) {
		canceled, stop := context.WithCancel(ctx)
		stop()
		assert.Error(t, WriteFTDC(canceled, &bytes.Buffer{}, ms, time.Now(), nil))
	})
}

func TestParquet(t *testing.T) {
	ms, err := Read(strings.NewReader(hybridFixture), LayoutHybrid, KindHybrid, ReadOptions{})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteParquet(buf, ms))

	out, err := ReadParquet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, ms, out)
}
