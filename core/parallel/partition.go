// File: core/parallel/partition.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parallel

import "github.com/momentics/hioload-ring/api"

// Partition splits [0, n) into w contiguous ranges. Ranges 0..w-2 hold
// n/w indices each; the last range absorbs the remainder. When w > n the
// leading ranges are empty.
func Partition(n, w int) ([]api.Range, error) {
	if n < 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "partition: negative length").
			WithContext("n", n)
	}
	if w < 1 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "partition: worker count must be at least 1").
			WithContext("workers", w)
	}
	per := n / w
	ranges := make([]api.Range, w)
	for t := range ranges {
		start := t * per
		end := start + per
		if t == w-1 {
			end = n
		}
		ranges[t] = api.Range{Start: start, End: end}
	}
	return ranges, nil
}
