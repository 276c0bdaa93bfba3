// Package timeline turns raw match spans into cuttable intervals by padding,
// merging, and filtering them.
package timeline

import "sort"

// Span is a time interval in seconds. Spans with End <= Start carry no
// duration and are discarded by PadAndMerge rather than rejected.
type Span struct {
	Start float64
	End   float64
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Overlaps reports whether two spans share any instant. Touching endpoints
// count as overlap.
func (s Span) Overlaps(other Span) bool {
	return other.End >= s.Start && other.Start <= s.End
}

// Shift returns the span moved by the given offset.
func (s Span) Shift(by float64) Span {
	return Span{Start: s.Start + by, End: s.End + by}
}

// MergeOptions controls how raw spans become output intervals.
type MergeOptions struct {
	// Padding is added before the start and after the end of every span.
	// Starts clamp at zero; ends are left unclamped because the cutter
	// tolerates overshoot past the end of the media.
	Padding float64
	// MergeGap is the largest silence, in seconds, across which two padded
	// spans still merge into one interval.
	MergeGap float64
	// MinDuration drops merged intervals shorter than this. The filter runs
	// after merging, so nearby short spans that merge into a long enough
	// interval survive.
	MinDuration float64
}

// PadAndMerge pads every span, merges spans whose padded bounds fall within
// MergeGap of each other, and drops merged intervals shorter than
// MinDuration. Input order does not matter; output is sorted by start time.
// The result is stable under re-application with zero padding and gap.
func PadAndMerge(spans []Span, opts MergeOptions) []Span {
	padded := make([]Span, 0, len(spans))
	for _, span := range spans {
		start := span.Start - opts.Padding
		if start < 0 {
			start = 0
		}
		end := span.End + opts.Padding
		if end > start {
			padded = append(padded, Span{Start: start, End: end})
		}
	}
	if len(padded) == 0 {
		return nil
	}

	sort.SliceStable(padded, func(i, j int) bool { return padded[i].Start < padded[j].Start })

	merged := make([]Span, 0, len(padded))
	cur := padded[0]
	for _, span := range padded[1:] {
		if span.Start <= cur.End+opts.MergeGap {
			if span.End > cur.End {
				cur.End = span.End
			}
			continue
		}
		if cur.Duration() >= opts.MinDuration {
			merged = append(merged, cur)
		}
		cur = span
	}
	if cur.Duration() >= opts.MinDuration {
		merged = append(merged, cur)
	}
	return merged
}

// CountOverlapping reports, for each merged span, how many raw spans overlap
// it. Used to annotate output intervals with the number of matches they
// absorbed.
func CountOverlapping(raw, merged []Span) []int {
	counts := make([]int, len(merged))
	for i, m := range merged {
		for _, r := range raw {
			if m.Overlaps(r) {
				counts[i]++
			}
		}
	}
	return counts
}
