package liteshell

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/litewrap/internal/liteshell/config"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/styled"
	"github.com/nsqlite/litewrap/internal/util/numutil"
)

// cmdQuery runs the statements typed by the user. Input made only of
// read-only statements is loaded into a Table and rendered, everything else
// goes through Exec.
func cmdQuery(r *Repl, input string) {
	stmts := sqlite.SplitStatements(input)
	if len(stmts) == 0 {
		return
	}

	readOnly, err := isReadOnly(r.conn, stmts)
	if err != nil {
		r.printError(err)
		return
	}

	if !readOnly {
		cmdExec(r, input)
		return
	}

	queryAndRender(r, input)
}

func cmdExec(r *Repl, input string) {
	affected, err := r.conn.Exec(input)
	if err != nil {
		r.printError(err)
		return
	}

	lastInsertID, err := r.conn.LastInsertRowID()
	if err != nil {
		r.printError(err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
	tw.AppendRow(table.Row{"OK", numutil.IntWithCommas(affected), lastInsertID})
	fmt.Fprintln(r.out, tw.Render())
}

func queryAndRender(r *Repl, query string) {
	tbl, err := r.conn.QueryTable(query)
	if err != nil {
		r.printError(err)
		return
	}
	defer tbl.Finalize()

	// BEGIN, COMMIT and friends are read-only but have no columns.
	if tbl.ColumnCount() == 0 {
		fmt.Fprintln(r.out, "OK")
		return
	}

	if err := renderTable(r.out, tbl, r.mode); err != nil {
		r.printError(err)
		return
	}
	styled.DimmedColor().Fprintf(r.out, "%s rows\n", numutil.IntWithCommas(tbl.RowCount()))
}

// isReadOnly compiles every statement and reports whether none of them
// changes the database.
func isReadOnly(conn *sqlite.Conn, stmts []string) (bool, error) {
	for _, query := range stmts {
		stmt, err := conn.Prepare(query)
		if err != nil {
			return false, err
		}
		readOnly := stmt.ReadOnly()
		_ = stmt.Finalize()

		if !readOnly {
			return false, nil
		}
	}
	return true, nil
}

func cmdColumns(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Fprintln(r.out, "Missing table name, usage: .columns [table_name]")
		return
	}

	queryAndRender(r, sqlite.Sprintf(
		`SELECT name, type, "notnull" AS not_null, dflt_value, pk FROM pragma_table_info(%Q)`,
		tableName,
	))
}

func cmdCount(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Fprintln(r.out, "Missing table name, usage: .count [table_name]")
		return
	}

	count, err := r.conn.Scalar("SELECT count(*) FROM " + sqlite.QuoteIdentifier(tableName))
	if err != nil {
		r.printError(err)
		return
	}
	fmt.Fprintf(r.out, "%s rows in %s\n", numutil.IntWithCommas(count), tableName)
}

func cmdExists(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Fprintln(r.out, "Missing table name, usage: .exists [table_name]")
		return
	}

	exists, err := r.conn.TableExists(tableName)
	if err != nil {
		r.printError(err)
		return
	}

	if exists {
		fmt.Fprintf(r.out, "Table %s exists\n", tableName)
		return
	}
	fmt.Fprintf(r.out, "Table %s does not exist\n", tableName)
}

func cmdMode(r *Repl, name string) {
	if name == "" {
		fmt.Fprintf(r.out, "Current mode: %s\n", r.mode)
		return
	}

	mode, err := config.ParseMode(name)
	if err != nil {
		r.printError(err)
		return
	}

	r.mode = mode
	fmt.Fprintf(r.out, "Mode set to %s\n", r.mode)
}
