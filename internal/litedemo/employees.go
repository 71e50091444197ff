package litedemo

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/styled"
)

func (d *Demo) employeeSteps() []step {
	return []step{
		{title: "Table existence", run: d.tableExistence},
		{title: "DML tests", run: d.dmlTests},
		{title: fmt.Sprintf("Transaction test, creating %d rows", d.rows), run: d.transactionTest},
		{title: "Auto increment test", run: d.autoIncrementTest},
		{title: "Select statement test", run: d.selectTest},
		{title: "Sprintf test", run: d.sprintfTest},
		{title: "Table snapshot test", run: d.tableSnapshotTest},
		{title: "Binary data test", run: d.binaryTest},
		{title: fmt.Sprintf("Prepared statement test, creating %d rows", d.rows), run: d.preparedTest},
	}
}

func (d *Demo) printEmpExists() error {
	exists, err := d.conn.TableExists("emp")
	if err != nil {
		return err
	}
	d.printf("emp table exists=%t\n", exists)
	return nil
}

func (d *Demo) tableExistence() error {
	if err := d.printEmpExists(); err != nil {
		return err
	}

	d.printf("Creating emp table\n")
	if _, err := d.conn.Exec("CREATE TABLE emp(empno int, empname char(20))"); err != nil {
		return err
	}

	return d.printEmpExists()
}

func (d *Demo) dmlTests() error {
	if err := d.exec("INSERT INTO emp VALUES (7, 'David Beckham')", "inserted"); err != nil {
		return err
	}
	if err := d.exec("UPDATE emp SET empname = 'Christiano Ronaldo' WHERE empno = 7", "updated"); err != nil {
		return err
	}
	return d.exec("DELETE FROM emp WHERE empno = 7", "deleted")
}

func (d *Demo) transactionTest() error {
	start := time.Now()

	err := d.conn.Transaction(func() error {
		for i := 0; i < d.rows; i++ {
			query := sqlite.Sprintf("INSERT INTO emp VALUES (%d, %Q)", i, fmt.Sprintf("Empname%06d", i))
			if _, err := d.conn.Exec(query); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return d.printEmpCount(time.Since(start))
}

func (d *Demo) printEmpCount(elapsed time.Duration) error {
	count, err := d.conn.Scalar("SELECT count(*) FROM emp")
	if err != nil {
		return err
	}

	d.printf("%d rows in emp table ", count)
	styled.DimmedColor().Fprintf(d.out, "in %s\n", elapsed.Round(time.Microsecond))
	return nil
}

func (d *Demo) autoIncrementTest() error {
	_, err := d.conn.Exec(`
		DROP TABLE emp;
		CREATE TABLE emp(empno integer primary key, empname char(20));
	`)
	if err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		query := sqlite.Sprintf("INSERT INTO emp (empname) VALUES (%Q)", fmt.Sprintf("Empname%06d", i+1))
		if _, err := d.conn.Exec(query); err != nil {
			return err
		}

		id, err := d.conn.LastInsertRowID()
		if err != nil {
			return err
		}
		d.printf(" primary key: %d\n", id)
	}

	return nil
}

func (d *Demo) selectTest() error {
	cur, err := d.conn.Query("SELECT * FROM emp ORDER BY 1")
	if err != nil {
		return err
	}
	defer cur.Finalize()

	for _, col := range cur.Columns() {
		d.printf("%s(%s)|", col.Name, col.DeclType)
	}
	d.printf("\n")

	for !cur.AtEnd() {
		for i := 0; i < cur.ColumnCount(); i++ {
			text, err := cur.Text(i)
			if err != nil {
				return err
			}
			d.printf("%s|", text)
		}
		d.printf("\n")

		if err := cur.Next(); err != nil {
			return err
		}
	}

	return nil
}

func (d *Demo) sprintfTest() error {
	for _, name := range []any{"He's bad", nil} {
		query := sqlite.Sprintf("INSERT INTO emp (empname) VALUES (%Q)", name)
		d.printf("%s\n", query)

		if _, err := d.conn.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) tableSnapshotTest() error {
	tbl, err := d.conn.QueryTable("SELECT * FROM emp ORDER BY 1")
	if err != nil {
		return err
	}
	defer tbl.Finalize()

	tw := styled.NewTableWriter()

	header := table.Row{}
	for _, col := range tbl.Columns() {
		header = append(header, col.Name)
	}
	tw.AppendHeader(header)

	for row := 0; row < tbl.RowCount(); row++ {
		if err := tbl.SelectRow(row); err != nil {
			return err
		}

		cells := make([]string, tbl.ColumnCount())
		for i := range cells {
			isNull, err := tbl.IsNull(i)
			if err != nil {
				return err
			}
			if isNull {
				cells[i] = "NULL"
				continue
			}
			if cells[i], err = tbl.Text(i); err != nil {
				return err
			}
		}
		tw.AppendRow(styled.NewResultRow(cells))
	}

	d.printf("%s\n", tw.Render())
	return nil
}

func (d *Demo) binaryTest() error {
	if _, err := d.conn.Exec("CREATE TABLE bindata(desc char(10), data blob)"); err != nil {
		return err
	}

	bin := make([]byte, 256)
	for i := range bin {
		bin[i] = byte(i)
	}

	var blob sqlite.Binary
	blob.SetBinary(bin)

	query := sqlite.Sprintf("INSERT INTO bindata VALUES ('testing', %Q)", blob.Encoded())
	if _, err := d.conn.Exec(query); err != nil {
		return err
	}
	d.printf("Stored binary length: %d\n", len(bin))

	cur, err := d.conn.Query("SELECT data FROM bindata WHERE desc = 'testing'")
	if err != nil {
		return err
	}
	defer cur.Finalize()

	var retrieved sqlite.Binary
	if !cur.AtEnd() {
		encoded, err := cur.NamedString("data")
		if err != nil {
			return err
		}
		if err := retrieved.SetEncoded(encoded); err != nil {
			return err
		}
		d.printf("Retrieved binary length: %d\n", retrieved.Len())
	}

	d.printMismatches(bin, retrieved.Binary())
	return nil
}

// printMismatches reports every byte of got that differs from want.
func (d *Demo) printMismatches(want []byte, got []byte) {
	problems := 0
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			problems++
			d.printf("Problem: i: %d\n", i)
		}
	}
	if problems == 0 {
		d.printf("Binary data verified\n")
	}
}

func (d *Demo) preparedTest() error {
	_, err := d.conn.Exec(`
		DROP TABLE emp;
		CREATE TABLE emp(empno int, empname char(20));
	`)
	if err != nil {
		return err
	}

	start := time.Now()

	stmt, err := d.conn.Prepare("INSERT INTO emp VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Finalize()

	err = d.conn.Transaction(func() error {
		for i := 0; i < d.rows; i++ {
			if err := stmt.BindInt(1, int64(i)); err != nil {
				return err
			}
			if err := stmt.BindText(2, fmt.Sprintf("EmpName%06d", i)); err != nil {
				return err
			}
			if _, err := stmt.Exec(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return d.printEmpCount(time.Since(start))
}
