package aggregator

// Range is a contiguous half-open block [Start, End) of record indices
// assigned to one worker.
type Range struct {
	Start int
	End   int
}

// Len returns the number of records in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Partition divides n records into contiguous, non-overlapping,
// non-empty ranges covering [0, n) exactly once.
//
// The base block size is n/workers; the first n%workers blocks receive
// one extra record each, so earlier workers absorb the remainder. Block
// order matches worker index. workers is clamped into [1, n], so no
// produced range is ever empty. n <= 0 yields nil.
func Partition(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	base := n / workers
	extra := n % workers

	ranges := make([]Range, workers)
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}

	return ranges
}
