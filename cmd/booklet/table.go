package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column is a table heading; numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

var (
	planColumns   = []column{{"Bundle", true}, {"Sheet", true}, {"Front (L | R)", false}, {"Back (L | R)", false}}
	resultColumns = []column{{"Bundle", true}, {"Pages", false}, {"Sheets", true}, {"Front", false}, {"Back", false}}
)

func writeTable(w io.Writer, cols []column, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	tw.AppendRows(rows)
	tw.Render()
}
