package perf

import (
	"fmt"
	"sort"

	"github.com/evergreen-ci/speedup/results"
	"github.com/pkg/errors"
)

// ErrNoData is returned when an analysis has nothing to report.
var ErrNoData = errors.New("no data to plot")

const notApplicable = "N/A"

// Entry is one point of a cross-implementation comparison.
type Entry struct {
	Kind   results.Kind
	Config string
	Units  int
	Time   float64
	// Scaled is false when the kind has no single unit baseline, in
	// which case Speedup and Efficiency are zero.
	Scaled     bool
	Speedup    float64
	Efficiency float64
}

// Comparison compares implementations at a single workload size.
type Comparison struct {
	Size      int
	Label     string
	Kinds     []results.Kind
	Counts    map[results.Kind]int
	Baselines map[results.Kind]float64
	Entries   []Entry
}

// Compare builds a comparison at one workload size from any number of
// measurement sets. Flat implementations contribute every row of the
// size. Hybrid runs contribute, per unit count, the process/thread
// split with the lowest time. Baselines are the first single unit row
// of each kind (1 process by 1 thread for hybrid runs). Entries are
// ordered by unit count, ties keeping the order of the input sets.
func Compare(size, baseSize int, sets ...[]results.Measurement) (*Comparison, error) {
	c := &Comparison{
		Size:      size,
		Label:     SizeLabel(size, baseSize),
		Counts:    map[results.Kind]int{},
		Baselines: map[results.Kind]float64{},
	}

	for _, set := range sets {
		rows := results.FilterSize(set, size)
		for _, m := range rows {
			c.addKind(m.Kind)
			c.Counts[m.Kind]++
		}

		byKind := map[results.Kind][]results.Measurement{}
		for _, m := range rows {
			byKind[m.Kind] = append(byKind[m.Kind], m)
		}
		for _, kind := range c.Kinds {
			if kindRows, ok := byKind[kind]; ok {
				c.addEntries(kind, kindRows)
			}
		}
	}

	if len(c.Entries) == 0 {
		return nil, errors.Wrapf(ErrNoData, "no measurements for size %d", size)
	}

	sort.SliceStable(c.Entries, func(i, j int) bool { return c.Entries[i].Units < c.Entries[j].Units })

	return c, nil
}

func (c *Comparison) addKind(kind results.Kind) {
	for _, k := range c.Kinds {
		if k == kind {
			return
		}
	}
	c.Kinds = append(c.Kinds, kind)
}

func (c *Comparison) addEntries(kind results.Kind, rows []results.Measurement) {
	base, scaled := findBaseline(kind, rows)
	if scaled {
		c.Baselines[kind] = base
	}

	if kind != results.KindHybrid {
		for _, m := range rows {
			c.Entries = append(c.Entries, newEntry(kind, notApplicable, m, base, scaled))
		}
		return
	}

	order := []int{}
	best := map[int]results.Measurement{}
	for _, m := range rows {
		current, ok := best[m.Units]
		if !ok {
			order = append(order, m.Units)
		}
		if !ok || m.Time < current.Time {
			best[m.Units] = m
		}
	}
	for _, u := range order {
		m := best[u]
		c.Entries = append(c.Entries, newEntry(kind, HybridConfig(m.Procs, m.Threads), m, base, scaled))
	}
}

func findBaseline(kind results.Kind, rows []results.Measurement) (float64, bool) {
	for _, m := range rows {
		if kind == results.KindHybrid {
			if m.Procs == 1 && m.Threads == 1 {
				return m.Time, true
			}
			continue
		}
		if m.Units == 1 {
			return m.Time, true
		}
	}
	return 0, false
}

func newEntry(kind results.Kind, config string, m results.Measurement, base float64, scaled bool) Entry {
	e := Entry{
		Kind:   kind,
		Config: config,
		Units:  m.Units,
		Time:   m.Time,
		Scaled: scaled,
	}
	if scaled {
		e.Speedup = base / m.Time
		e.Efficiency = e.Speedup / float64(m.Units)
	}
	return e
}

// HybridConfig labels a process/thread split, e.g. "2p×4t".
func HybridConfig(procs, threads int) string {
	return fmt.Sprintf("%dp×%dt", procs, threads)
}

// Scaled returns the entries that have a baseline.
func (c *Comparison) Scaled() []Entry {
	out := []Entry{}
	for _, e := range c.Entries {
		if e.Scaled {
			out = append(out, e)
		}
	}
	return out
}

// ByKind returns the entries of one kind in unit order.
func (c *Comparison) ByKind(kind results.Kind, scaledOnly bool) []Entry {
	out := []Entry{}
	for _, e := range c.Entries {
		if e.Kind == kind && (e.Scaled || !scaledOnly) {
			out = append(out, e)
		}
	}
	return out
}

// MaxUnits returns the largest unit count among the entries.
func (c *Comparison) MaxUnits() int {
	max := 0
	for _, e := range c.Entries {
		if e.Units > max {
			max = e.Units
		}
	}
	return max
}

// BestSpeedup returns the first scaled entry with the highest speedup.
func (c *Comparison) BestSpeedup() (Entry, bool) {
	return c.best(func(a, b Entry) bool { return a.Speedup > b.Speedup }, true)
}

// BestEfficiency returns the first scaled entry with the highest efficiency.
func (c *Comparison) BestEfficiency() (Entry, bool) {
	return c.best(func(a, b Entry) bool { return a.Efficiency > b.Efficiency }, true)
}

// BestTime returns the first entry with the lowest time.
func (c *Comparison) BestTime() (Entry, bool) {
	return c.best(func(a, b Entry) bool { return a.Time < b.Time }, false)
}

func (c *Comparison) best(better func(a, b Entry) bool, scaledOnly bool) (Entry, bool) {
	var out Entry
	found := false
	for _, e := range c.Entries {
		if scaledOnly && !e.Scaled {
			continue
		}
		if !found || better(e, out) {
			out = e
			found = true
		}
	}
	return out, found
}

// IdealTimeBase returns the time of the first single unit entry, which
// anchors the ideal T(1)/p curve.
func (c *Comparison) IdealTimeBase() (float64, bool) {
	for _, e := range c.Entries {
		if e.Units == 1 {
			return e.Time, true
		}
	}
	return 0, false
}
