package liteshell

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/litewrap/internal/liteshell/config"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/styled"
)

// renderTable writes every row of tbl to w in the given mode.
func renderTable(w io.Writer, tbl *sqlite.Table, mode config.Mode) error {
	switch mode {
	case config.ModeLine:
		return renderLine(w, tbl)
	case config.ModeList:
		return renderList(w, tbl)
	}
	return renderBordered(w, tbl)
}

func renderBordered(w io.Writer, tbl *sqlite.Table) error {
	tw := styled.NewTableWriter()

	header := table.Row{}
	for _, col := range tbl.Columns() {
		header = append(header, col.Name)
	}
	tw.AppendHeader(header)

	err := eachRow(tbl, func(cells []string) {
		tw.AppendRow(styled.NewResultRow(cells))
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, tw.Render())
	return nil
}

func renderLine(w io.Writer, tbl *sqlite.Table) error {
	cols := tbl.Columns()

	width := 0
	for _, col := range cols {
		width = max(width, len(col.Name))
	}

	first := true
	return eachRow(tbl, func(cells []string) {
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		for i, cell := range cells {
			fmt.Fprintf(w, "%*s = %s\n", width, cols[i].Name, cell)
		}
	})
}

func renderList(w io.Writer, tbl *sqlite.Table) error {
	names := []string{}
	for _, col := range tbl.Columns() {
		names = append(names, col.Name)
	}
	fmt.Fprintln(w, strings.Join(names, "|"))

	return eachRow(tbl, func(cells []string) {
		fmt.Fprintln(w, strings.Join(cells, "|"))
	})
}

// eachRow selects every row of tbl in turn and passes its display cells to
// fn.
func eachRow(tbl *sqlite.Table, fn func(cells []string)) error {
	for row := 0; row < tbl.RowCount(); row++ {
		if err := tbl.SelectRow(row); err != nil {
			return err
		}

		cells := make([]string, tbl.ColumnCount())
		for i := range cells {
			v, err := tbl.Value(i)
			if err != nil {
				return err
			}
			cells[i] = displayValue(v)
		}
		fn(cells)
	}
	return nil
}

// displayValue returns the text shown for a cell: NULL for nulls and a blob
// literal for blobs.
func displayValue(v sqlite.Value) string {
	switch v.Type() {
	case sqlite.TypeNull:
		return "NULL"
	case sqlite.TypeBlob:
		var b sqlite.Binary
		b.SetBinary(v.Blob())
		return b.Literal()
	}
	return v.Text()
}
