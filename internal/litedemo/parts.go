package litedemo

import (
	"fmt"
	"strings"

	"github.com/nsqlite/litewrap/internal/sqlite"
)

// partReader is the part of the field API shared by sqlite.Cursor and
// sqlite.Table that the parts listings use.
type partReader interface {
	Int(index int) (int64, error)
	IntOr(index int, def int64) (int64, error)
	String(index int) (string, error)
	StringOr(index int, def string) (string, error)
	Float(index int) (float64, error)
	FloatOr(index int, def float64) (float64, error)
	NamedInt(name string) (int64, error)
	NamedIntOr(name string, def int64) (int64, error)
	NamedString(name string) (string, error)
	NamedStringOr(name string, def string) (string, error)
	NamedFloat(name string) (float64, error)
	NamedFloatOr(name string, def float64) (float64, error)
}

func (d *Demo) partSteps() []step {
	return []step{
		{title: "Parts table", run: d.createParts},
		{title: "Cursor getters by index", run: d.cursorParts(false, false)},
		{title: "Cursor getters by index with NULL defaults", run: d.cursorParts(false, true)},
		{title: "Cursor getters by name", run: d.cursorParts(true, false)},
		{title: "Cursor getters by name with NULL defaults", run: d.cursorParts(true, true)},
		{title: "Table getters by index", run: d.tableParts(false, false)},
		{title: "Table getters by index with NULL defaults", run: d.tableParts(false, true)},
		{title: "Table getters by name", run: d.tableParts(true, false)},
		{title: "Table getters by name with NULL defaults", run: d.tableParts(true, true)},
		{title: "Multi-statement exec", run: d.multiStatementTest},
		{title: "Data types and blobs", run: d.dataTypesTest},
		{title: "Blob binding test", run: d.blobBindingTest},
	}
}

func (d *Demo) createParts() error {
	_, err := d.conn.Exec(`
		CREATE TABLE parts(no int, name char(20), qty int, cost number);
		INSERT INTO parts VALUES(1, 'part1', 100, 1.11);
		INSERT INTO parts VALUES(2, null, 200, 2.22);
		INSERT INTO parts VALUES(3, 'part3', null, 3.33);
		INSERT INTO parts VALUES(4, 'part4', 400, null);
	`)
	if err != nil {
		return err
	}

	count, err := d.conn.Scalar("SELECT count(*) FROM parts")
	if err != nil {
		return err
	}
	d.printf("%d rows in parts table\n", count)
	return nil
}

func (d *Demo) cursorParts(byName bool, withDefaults bool) func() error {
	return func() error {
		cur, err := d.conn.Query("SELECT * FROM parts")
		if err != nil {
			return err
		}
		defer cur.Finalize()

		for !cur.AtEnd() {
			d.printPart(cur, byName, withDefaults)
			if err := cur.Next(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (d *Demo) tableParts(byName bool, withDefaults bool) func() error {
	return func() error {
		tbl, err := d.conn.QueryTable("SELECT * FROM parts")
		if err != nil {
			return err
		}
		defer tbl.Finalize()

		for row := 0; row < tbl.RowCount(); row++ {
			if err := tbl.SelectRow(row); err != nil {
				return err
			}
			d.printPart(tbl, byName, withDefaults)
		}
		return nil
	}
}

// printPart prints one parts row. Reads that fail, like a NULL read without
// a default, print the error in place of the value.
func (d *Demo) printPart(r partReader, byName bool, withDefaults bool) {
	var cells []string

	switch {
	case byName && withDefaults:
		cells = []string{
			cell(r.NamedInt("no")),
			cell(r.NamedStringOr("name", "NULL")),
			cell(r.NamedIntOr("qty", -1)),
			cell(r.NamedFloatOr("cost", -3.33)),
		}
	case byName:
		cells = []string{
			cell(r.NamedInt("no")),
			cell(r.NamedString("name")),
			cell(r.NamedInt("qty")),
			cell(r.NamedFloat("cost")),
		}
	case withDefaults:
		cells = []string{
			cell(r.IntOr(0, -1)),
			cell(r.StringOr(1, "NULL")),
			cell(r.IntOr(2, -1)),
			cell(r.FloatOr(3, -3.33)),
		}
	default:
		cells = []string{
			cell(r.Int(0)),
			cell(r.String(1)),
			cell(r.Int(2)),
			cell(r.Float(3)),
		}
	}

	d.printf("%s|\n", strings.Join(cells, "|"))
}

func cell(value any, err error) string {
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return fmt.Sprint(value)
}

func (d *Demo) multiStatementTest() error {
	err := d.execAndCount(`
		INSERT INTO parts VALUES(5, 'part5', 500, 5.55);
		INSERT INTO parts VALUES(6, 'part6', 600, 6.66);
		INSERT INTO parts VALUES(7, 'part7', 700, 7.77);
	`)
	if err != nil {
		return err
	}

	return d.execAndCount(`
		DELETE FROM parts WHERE no = 2;
		DELETE FROM parts WHERE no = 3;
	`)
}

// execAndCount runs a multi-statement script. Rows affected only counts the
// last statement.
func (d *Demo) execAndCount(script string) error {
	if err := d.exec(script, "affected"); err != nil {
		return err
	}

	count, err := d.conn.Scalar("SELECT count(*) FROM parts")
	if err != nil {
		return err
	}
	d.printf("%d rows in parts table\n", count)
	return nil
}

func (d *Demo) dataTypesTest() error {
	_, err := d.conn.Exec(`
		CREATE TABLE types(no int, name char(20), qty float, dat blob);
		INSERT INTO types VALUES(null, null, null, null);
		INSERT INTO types VALUES(1, 2, 3, 4);
		INSERT INTO types VALUES(1.1, 2.2, 3.3, 4.4);
		INSERT INTO types VALUES('a', 'b', 'c', 'd');
	`)
	if err != nil {
		return err
	}

	stmt, err := d.conn.Prepare("INSERT INTO types VALUES(?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Finalize()

	for i := 1; i <= 4; i++ {
		if err := stmt.BindBlob(i, []byte(strings.Repeat(string(rune(i)), i))); err != nil {
			return err
		}
	}
	if _, err := stmt.Exec(); err != nil {
		return err
	}

	count, err := d.conn.Scalar("SELECT count(*) FROM types")
	if err != nil {
		return err
	}
	d.printf("%d rows in types table\n", count)

	if err := d.printTypes(); err != nil {
		return err
	}

	if err := d.exec("DELETE FROM types WHERE no = 1 OR no = 1.1 OR no = 'a' OR no IS NULL", "deleted, leaving binary row only"); err != nil {
		return err
	}

	return d.printBlobLengths()
}

func (d *Demo) printTypes() error {
	cur, err := d.conn.Query("SELECT * FROM types")
	if err != nil {
		return err
	}
	defer cur.Finalize()

	for !cur.AtEnd() {
		for i := 0; i < cur.ColumnCount(); i++ {
			typ, err := cur.ColumnType(i)
			if err != nil {
				return err
			}
			d.printf("%-7s|", strings.ToUpper(typ.String()))
		}
		d.printf("\n")

		if err := cur.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) printBlobLengths() error {
	cur, err := d.conn.Query("SELECT * FROM types")
	if err != nil {
		return err
	}
	defer cur.Finalize()

	if cur.AtEnd() {
		return nil
	}

	for i := 0; i < cur.ColumnCount(); i++ {
		blob, err := cur.Blob(i)
		if err != nil {
			return err
		}
		d.printf("Field %d blob length: %d\n", i+1, len(blob))
	}
	return nil
}

func (d *Demo) blobBindingTest() error {
	if err := d.exec("DELETE FROM types", "deleted, leaving empty table"); err != nil {
		return err
	}

	bin := make([]byte, 256)
	for i := range bin {
		bin[i] = byte(i)
	}

	stmt, err := d.conn.Prepare("INSERT INTO types VALUES(?, 0, 0, 0)")
	if err != nil {
		return err
	}
	defer stmt.Finalize()

	if err := stmt.BindBlob(1, bin); err != nil {
		return err
	}
	if _, err := stmt.Exec(); err != nil {
		return err
	}
	d.printf("Stored binary length: %d\n", len(bin))

	cur, err := d.conn.Query("SELECT * FROM types")
	if err != nil {
		return err
	}
	defer cur.Finalize()

	blob, err := cur.Blob(0)
	if err != nil {
		return err
	}
	d.printf("Field 1 blob length: %d\n", len(blob))

	d.printMismatches(bin, blob)
	return nil
}

// sqlite.Cursor and sqlite.Table both serve partReader.
var (
	_ partReader = (*sqlite.Cursor)(nil)
	_ partReader = (*sqlite.Table)(nil)
)
