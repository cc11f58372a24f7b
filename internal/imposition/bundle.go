package imposition

import "fmt"

// DefaultBundleLength is the number of sheets bound together in one group.
const DefaultBundleLength = 20

// Span is a contiguous range of the padded page sequence.
type Span struct {
	Start  int
	Length int
}

// End is the exclusive upper bound of the span.
func (s Span) End() int { return s.Start + s.Length }

// SplitBundles partitions [0,total) into consecutive spans of at most
// 2*bundleLength pages. total must already be a multiple of 4; the spans
// need not be, and an odd bundleLength yields bundles with blank halves.
func SplitBundles(total, bundleLength int) ([]Span, error) {
	if bundleLength < 1 {
		return nil, &ConfigError{Field: "bundle_length", Value: bundleLength, Reason: "must be positive"}
	}
	if total < 0 || total%4 != 0 {
		return nil, fmt.Errorf("split %d pages: %w", total, ErrNotMultipleOfFour)
	}

	size := 2 * bundleLength

	spans := make([]Span, 0, (total+size-1)/size)
	for start := 0; start < total; {
		n := min(total-start, size)
		spans = append(spans, Span{Start: start, Length: n})
		start += n
	}
	return spans, nil
}

// Bundle is one binding group: a span of pages and its sheet arrangement in
// bundle-local indices.
type Bundle struct {
	Index int
	Span
	Arrangement
}

// Global converts a bundle-local slot to an index into the padded sequence.
// Unset slots stay Unset.
func (b Bundle) Global(s Slot) Slot {
	if !s.Valid() {
		return Unset
	}
	return Slot(b.Start) + s
}

// Plan splits total pages into bundles and arranges each one. Bundles are
// independent of each other.
func Plan(total, bundleLength int) ([]Bundle, error) {
	spans, err := SplitBundles(total, bundleLength)
	if err != nil {
		return nil, err
	}
	bundles := make([]Bundle, len(spans))
	for i, s := range spans {
		bundles[i] = Bundle{Index: i, Span: s, Arrangement: Arrange(s.Length)}
	}
	return bundles, nil
}
