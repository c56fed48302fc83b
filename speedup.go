/*
Package speedup holds the configuration and shared resources of the
speedup tools: synthetic point list generation for curve fitting
benchmarks, and scaling charts for the resulting timing data.
*/
package speedup

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	// DefaultOutputDir is where point lists are written by default.
	DefaultOutputDir = "point_lists"

	// DefaultTargetSize is the workload size compared across
	// implementations, and DefaultBaseSize the smallest workload, so
	// the default comparison is labeled "16W".
	DefaultTargetSize = 1600000
	DefaultBaseSize   = 100000
)
