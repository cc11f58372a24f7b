package imposition

import "fmt"

// ReadingOrder simulates stacking the sheets of an arrangement in paper order,
// folding them at the center and turning the leaves. It returns the page
// indices in the order a reader meets them.
func ReadingOrder(a Arrangement) []Slot {
	order := make([]Slot, 0, 4*a.Sheets())
	for i := 0; i < a.Sheets(); i++ {
		order = append(order, a.Fronts[i].Right, a.Backs[i].Left)
	}
	for i := a.Sheets() - 1; i >= 0; i-- {
		order = append(order, a.Backs[i].Right, a.Fronts[i].Left)
	}
	return order
}

// Verify checks that folding the bundle reads its pages 0..Length-1 in
// order. A bundle whose length is not a multiple of 4 ends in blank halves,
// which must all come after the last page.
func (b Bundle) Verify() error {
	order := ReadingOrder(b.Arrangement)
	if len(order) != 4*SheetsFor(b.Length) {
		return fmt.Errorf("bundle %d: fold yields %d positions for %d pages", b.Index, len(order), b.Length)
	}
	for i, s := range order {
		want := Slot(i)
		if i >= b.Length {
			want = Unset
		}
		if s != want {
			return fmt.Errorf("bundle %d: position %d holds page %s, want %s", b.Index, i, s, want)
		}
	}
	return nil
}
