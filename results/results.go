// Package results reads the headerless benchmark CSV files produced by
// the parallel runs and converts them to other archive formats.
package results

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// Kind names the parallel implementation that produced a measurement.
type Kind string

const (
	KindMPI    Kind = "MPI"
	KindOpenMP Kind = "OpenMP"
	KindHybrid Kind = "Hybrid"
)

// Layout describes the column order of a results file.
type Layout int

const (
	// LayoutFlat rows are units,size,time.
	LayoutFlat Layout = iota
	// LayoutHybrid rows are procs,threads,size,time.
	LayoutHybrid
)

func (l Layout) columns() int {
	if l == LayoutHybrid {
		return 4
	}
	return 3
}

func (l Layout) String() string {
	if l == LayoutHybrid {
		return "hybrid"
	}
	return "flat"
}

// Measurement is one timed run. Units is the total number of parallel
// units; for hybrid runs it is Procs*Threads.
type Measurement struct {
	Kind    Kind
	Procs   int
	Threads int
	Units   int
	Size    int
	Time    float64
}

// ReadOptions control how malformed rows are handled.
type ReadOptions struct {
	// SkipInvalid drops rows that do not parse instead of failing.
	SkipInvalid bool
}

// Read parses a headerless results file.
func Read(r io.Reader, layout Layout, kind Kind, opts ReadOptions) ([]Measurement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	out := []Measurement{}
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s results", kind)
		}
		m, err := parseRecord(record, layout)
		if err != nil {
			if opts.SkipInvalid {
				skipped++
				continue
			}
			line, _ := reader.FieldPos(0)
			return nil, errors.Wrapf(err, "line %d", line)
		}
		m.Kind = kind
		out = append(out, m)
	}

	grip.WarningWhen(skipped > 0, message.Fields{
		"message": "dropped malformed result rows",
		"kind":    kind,
		"layout":  layout.String(),
		"skipped": skipped,
		"kept":    len(out),
	})

	return out, nil
}

func parseRecord(record []string, layout Layout) (Measurement, error) {
	if len(record) != layout.columns() {
		return Measurement{}, errors.Errorf("expected %d columns, found %d", layout.columns(), len(record))
	}

	ints := make([]int, len(record)-1)
	for idx := range ints {
		val, err := parseInt(record[idx])
		if err != nil {
			return Measurement{}, errors.Wrapf(err, "column %d", idx+1)
		}
		ints[idx] = val
	}

	elapsed, err := strconv.ParseFloat(strings.TrimSpace(record[len(record)-1]), 64)
	if err != nil {
		return Measurement{}, errors.Wrap(err, "time column")
	}

	if layout == LayoutHybrid {
		return Measurement{
			Procs:   ints[0],
			Threads: ints[1],
			Units:   ints[0] * ints[1],
			Size:    ints[2],
			Time:    elapsed,
		}, nil
	}

	return Measurement{Units: ints[0], Size: ints[1], Time: elapsed}, nil
}

// parseInt also accepts integral float values such as "4.0".
func parseInt(in string) (int, error) {
	in = strings.TrimSpace(in)
	if val, err := strconv.Atoi(in); err == nil {
		return val, nil
	}

	f, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if f != float64(int(f)) {
		return 0, errors.Errorf("'%s' is not an integer", in)
	}
	return int(f), nil
}

// ReadFile opens and parses a results file. When the file does not
// exist the returned error satisfies IsNotFound.
func ReadFile(path string, layout Layout, kind Kind, opts ReadOptions) ([]Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening results file '%s'", path)
	}
	defer f.Close()

	out, err := Read(f, layout, kind, opts)
	return out, errors.Wrapf(err, "parsing '%s'", path)
}

// IsNotFound reports whether err was caused by a missing input file.
func IsNotFound(err error) bool {
	return err != nil && os.IsNotExist(errors.Cause(err))
}

// FilterSize returns the measurements for one workload size.
func FilterSize(ms []Measurement, size int) []Measurement {
	out := []Measurement{}
	for _, m := range ms {
		if m.Size == size {
			out = append(out, m)
		}
	}
	return out
}

// FilterUnits returns the measurements whose unit count is listed.
func FilterUnits(ms []Measurement, units []int) []Measurement {
	keep := make(map[int]struct{}, len(units))
	for _, u := range units {
		keep[u] = struct{}{}
	}

	out := []Measurement{}
	for _, m := range ms {
		if _, ok := keep[m.Units]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Sizes returns the distinct workload sizes in ascending order.
func Sizes(ms []Measurement) []int {
	seen := map[int]struct{}{}
	out := []int{}
	for _, m := range ms {
		if _, ok := seen[m.Size]; ok {
			continue
		}
		seen[m.Size] = struct{}{}
		out = append(out, m.Size)
	}
	sort.Ints(out)
	return out
}

// MinSize returns the smallest workload size, or zero if ms is empty.
func MinSize(ms []Measurement) int {
	sizes := Sizes(ms)
	if len(sizes) == 0 {
		return 0
	}
	return sizes[0]
}
