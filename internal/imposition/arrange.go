package imposition

import "fmt"

// Slot is a page index within a bundle, or Unset.
type Slot int

// Unset marks a half-sheet that carries no page.
const Unset Slot = -1

// Valid reports whether the slot holds a page index.
func (s Slot) Valid() bool { return s >= 0 }

func (s Slot) String() string {
	if !s.Valid() {
		return "_"
	}
	return fmt.Sprintf("%d", int(s))
}

// Pairing is the two pages printed side by side on one side of a sheet.
type Pairing struct {
	Left  Slot
	Right Slot
}

func (p Pairing) String() string {
	return fmt.Sprintf("(%s,%s)", p.Left, p.Right)
}

// Arrangement holds the front and back pairings of every sheet in a bundle.
// Sheet 0 is the outermost sheet of the folded bundle.
type Arrangement struct {
	Fronts []Pairing
	Backs  []Pairing
}

// Sheets is the number of physical sheets in the arrangement.
func (a Arrangement) Sheets() int { return len(a.Fronts) }

// SheetsFor returns the number of sheets needed for pageLength pages.
func SheetsFor(pageLength int) int {
	return (pageLength + 3) / 4
}

// Arrange computes the sheet pairings for a bundle of pageLength pages with
// bundle-local indices.
//
// The outer-to-inner pass fills the right half of each front and the left half
// of each back; the inner-to-outer pass fills the remaining halves, so folding
// the stacked sheets at the center reads 0..pageLength-1 in order.
func Arrange(pageLength int) Arrangement {
	papers := SheetsFor(pageLength)
	a := Arrangement{
		Fronts: make([]Pairing, papers),
		Backs:  make([]Pairing, papers),
	}
	for i := range a.Fronts {
		a.Fronts[i] = Pairing{Left: Unset, Right: Unset}
		a.Backs[i] = Pairing{Left: Unset, Right: Unset}
	}

	imageIndex := 0
	for i := 0; i < papers; i++ {
		a.Fronts[i].Right = Slot(imageIndex)
		imageIndex++
		a.Backs[i].Left = Slot(imageIndex)
		imageIndex++
	}

	// The guards only trigger when pageLength is not a multiple of 4. Slots
	// they skip stay Unset. The check at the top only matters for a 2-page
	// bundle, where the forward pass has already placed every page.
	for i := papers - 1; i >= 0; i-- {
		if imageIndex >= pageLength {
			break
		}
		a.Backs[i].Right = Slot(imageIndex)
		imageIndex++
		if imageIndex >= pageLength {
			break
		}
		a.Fronts[i].Left = Slot(imageIndex)
		imageIndex++
		if imageIndex >= pageLength {
			break
		}
	}
	return a
}
