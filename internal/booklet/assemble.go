package booklet

import (
	"fmt"
	"image"

	"github.com/local/booklet/internal/imposition"
)

// Sides holds the rendered sheets of one bundle in output order.
type Sides struct {
	Fronts []image.Image
	Backs  []image.Image
}

// Assemble renders every pairing of a bundle. Fronts keep paper order; backs
// are reversed so a printer that stacks its last sheet on top lines both
// sides up without reshuffling. Unset slots render as blank; a slot outside
// the bundle or the page list is an error.
func Assemble(b imposition.Bundle, pages []image.Image, blank image.Image, r SheetRenderer) (Sides, error) {
	lookup := func(s imposition.Slot) (image.Image, error) {
		if !s.Valid() {
			return blank, nil
		}
		g := b.Global(s)
		if int(s) >= b.Length || int(g) >= len(pages) {
			return nil, fmt.Errorf("bundle %d: slot %s (page %s) is outside the bundle [%d,%d) of %d pages",
				b.Index+1, s, g, b.Start, b.End(), len(pages))
		}
		return pages[g], nil
	}
	merge := func(p imposition.Pairing) (image.Image, error) {
		left, err := lookup(p.Left)
		if err != nil {
			return nil, err
		}
		right, err := lookup(p.Right)
		if err != nil {
			return nil, err
		}
		return r.Merge(left, right), nil
	}

	n := b.Sheets()
	sides := Sides{
		Fronts: make([]image.Image, n),
		Backs:  make([]image.Image, n),
	}
	var err error
	for i, p := range b.Fronts {
		if sides.Fronts[i], err = merge(p); err != nil {
			return Sides{}, err
		}
	}
	for i, p := range ReverseBacks(b.Arrangement) {
		if sides.Backs[i], err = merge(p); err != nil {
			return Sides{}, err
		}
	}
	return sides, nil
}

// ReverseBacks returns the back pairings in the order they are written.
func ReverseBacks(a imposition.Arrangement) []imposition.Pairing {
	out := make([]imposition.Pairing, len(a.Backs))
	for i, p := range a.Backs {
		out[len(a.Backs)-1-i] = p
	}
	return out
}
