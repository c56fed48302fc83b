package perf

import (
	"fmt"

	"github.com/evergreen-ci/speedup/util"
)

// SizeLabel names a workload size relative to the smallest one: the
// smallest size is "W", a size four times larger is "4W".
func SizeLabel(size, minSize int) string {
	if minSize <= 0 {
		return "W"
	}

	factor := util.RoundHalfEven(float64(size) / float64(minSize))
	if factor > 1 {
		return fmt.Sprintf("%dW", factor)
	}
	return "W"
}
