package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/local/booklet/internal/imposition"
	"github.com/local/booklet/internal/pagesource"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <pages|document.pdf>",
		Short: "Print the sheet arrangement without rendering anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := pageCount(args[0])
			if err != nil {
				return err
			}
			im := ctx.config.Imposition
			return writePlan(cmd.OutOrStdout(), pages, im.BlankPagesInFront, im.BlankPagesInBack, im.BundleLength)
		},
	}
}

// pageCount accepts either a literal page count or a PDF path.
func pageCount(arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 {
			return 0, imposition.ErrNoPages
		}
		return n, nil
	}
	n, err := pagesource.Count(arg)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, imposition.ErrNoPages
	}
	return n, nil
}

func writePlan(w io.Writer, pages, front, back, bundleLength int) error {
	total := imposition.PaddedLength(pages, front, back)
	bundles, err := imposition.Plan(total, bundleLength)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d pages + %d front + %d back + %d trailing blanks = %d padded pages in %d bundle(s)\n",
		pages, front, back, imposition.TrailingBlanks(pages, front, back), total, len(bundles))

	var rows []table.Row
	for _, b := range bundles {
		for i := range b.Fronts {
			rows = append(rows, table.Row{
				b.Index + 1,
				i + 1,
				pairingLabel(b, b.Fronts[i], front, pages),
				pairingLabel(b, b.Backs[i], front, pages),
			})
		}
	}
	writeTable(w, planColumns, rows)
	return nil
}

// pairingLabel shows document page numbers (1-based) with "-" for blanks.
func pairingLabel(b imposition.Bundle, p imposition.Pairing, front, pages int) string {
	return fmt.Sprintf("%s | %s", pageLabel(b.Global(p.Left), front, pages), pageLabel(b.Global(p.Right), front, pages))
}

func pageLabel(s imposition.Slot, front, pages int) string {
	doc := int(s) - front
	if !s.Valid() || doc < 0 || doc >= pages {
		return "-"
	}
	return strconv.Itoa(doc + 1)
}
