package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatFixture = `1,100000,10.0
2,100000,5.5
4,100000,3.0
1,200000,20
2,200000,10.5
`

const hybridFixture = `1,1,1600000,40.0
1,2,1600000,21.0
2,1,1600000,20.0
2,2,1600000,11.0
`

func TestRead(t *testing.T) {
	t.Run("Flat", func(t *testing.T) {
		ms, err := Read(strings.NewReader(flatFixture), LayoutFlat, KindOpenMP, ReadOptions{})
		require.NoError(t, err)
		require.Len(t, ms, 5)
		assert.Equal(t, Measurement{Kind: KindOpenMP, Units: 2, Size: 100000, Time: 5.5}, ms[1])
	})
	t.Run("Hybrid", func(t *testing.T) {
		ms, err := Read(strings.NewReader(hybridFixture), LayoutHybrid, KindHybrid, ReadOptions{})
		require.NoError(t, err)
		require.Len(t, ms, 4)
		assert.Equal(t, Measurement{Kind: KindHybrid, Procs: 2, Threads: 2, Units: 4, Size: 1600000, Time: 11}, ms[3])
	})
	t.Run("WhitespaceAndFloatIntegers", func(t *testing.T) {
		ms, err := Read(strings.NewReader("4.0, 100, 0.25\n\n"), LayoutFlat, KindMPI, ReadOptions{})
		require.NoError(t, err)
		require.Len(t, ms, 1)
		assert.Equal(t, 4, ms[0].Units)
		assert.Equal(t, 0.25, ms[0].Time)
	})
	t.Run("StrictRejectsMalformedRows", func(t *testing.T) {
		for name, input := range map[string]string{
			"WrongColumns": "1,2\n",
			"NotANumber":   "1,100,fast\n",
			"Fractional":   "1.5,100,2\n",
			"HybridInFlat": "1,1,100,2\n",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := Read(strings.NewReader(input), LayoutFlat, KindMPI, ReadOptions{})
				assert.Error(t, err)
			})
		}
	})
	t.Run("LenientDropsMalformedRows", func(t *testing.T) {
		input := "units,size,time\n1,100,2.0\n2,100,nan?\n2,100,1.0\n"
		ms, err := Read(strings.NewReader(input), LayoutFlat, KindMPI, ReadOptions{SkipInvalid: true})
		require.NoError(t, err)
		require.Len(t, ms, 2)
		assert.Equal(t, 1, ms[0].Units)
		assert.Equal(t, 2, ms[1].Units)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "results.mpi.csv"), LayoutFlat, KindMPI, ReadOptions{})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.False(t, IsNotFound(nil))
	})
	t.Run("Present", func(t *testing.T) {
		path := filepath.Join(dir, "results.opm.csv")
		require.NoError(t, os.WriteFile(path, []byte(flatFixture), 0644))

		ms, err := ReadFile(path, LayoutFlat, KindOpenMP, ReadOptions{})
		require.NoError(t, err)
		assert.Len(t, ms, 5)
	})
	t.Run("ParseErrorIsNotMissing", func(t *testing.T) {
		path := filepath.Join(dir, "broken.csv")
		require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

		_, err := ReadFile(path, LayoutFlat, KindOpenMP, ReadOptions{})
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
	})
}

func TestFilters(t *testing.T) {
	ms, err := Read(strings.NewReader(flatFixture), LayoutFlat, KindMPI, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []int{100000, 200000}, Sizes(ms))
	assert.Equal(t, 100000, MinSize(ms))
	assert.Equal(t, 0, MinSize(nil))
	assert.Len(t, FilterSize(ms, 200000), 2)
	assert.Empty(t, FilterSize(ms, 5))
	assert.Len(t, FilterUnits(ms, []int{1, 4}), 3)
}
