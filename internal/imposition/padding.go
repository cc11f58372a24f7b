package imposition

// TrailingBlanks returns how many blanks must follow n real pages and the
// requested front and back blanks so the total is divisible by 4.
func TrailingBlanks(n, front, back int) int {
	return (4 - (n+front+back)%4) % 4
}

// Pad surrounds pages with blank entries: front blanks, the pages in order,
// back blanks, then the trailing blanks needed to reach a multiple of 4.
//
// The same blank value is placed at every inserted position, so it must never
// be mutated afterwards.
func Pad[T any](pages []T, blank T, front, back int) ([]T, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if front < 0 {
		return nil, &ConfigError{Field: "blank_pages_in_front", Value: front, Reason: "must not be negative"}
	}
	if back < 0 {
		return nil, &ConfigError{Field: "blank_pages_in_back", Value: back, Reason: "must not be negative"}
	}

	trailing := TrailingBlanks(len(pages), front, back)
	out := make([]T, 0, front+len(pages)+back+trailing)
	for i := 0; i < front; i++ {
		out = append(out, blank)
	}
	out = append(out, pages...)
	for i := 0; i < back+trailing; i++ {
		out = append(out, blank)
	}
	return out, nil
}

// PaddedLength is the length Pad would produce for n pages.
func PaddedLength(n, front, back int) int {
	return n + front + back + TrailingBlanks(n, front, back)
}
