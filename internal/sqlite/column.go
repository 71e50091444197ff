package sqlite

import "fmt"

// Column describes one column of a query result.
type Column struct {
	// Index is the zero-based position of the column in the result.
	Index int
	// Name is the column name as reported by the engine.
	Name string
	// DeclType is the declared type of the column in lower case, e.g.
	// "char(20)". It is only a hint and is empty for expressions.
	DeclType string
}

// columnSet holds the columns of a result and resolves names to indexes.
//
// The set of columns is fixed when the statement is compiled, so the name
// index is built once and never invalidated.
type columnSet struct {
	columns []Column
	byName  map[string]int
}

func newColumnSet(names []string, declTypes []string) *columnSet {
	cs := &columnSet{
		columns: make([]Column, len(names)),
		byName:  make(map[string]int, len(names)),
	}

	for i, name := range names {
		declType := ""
		if i < len(declTypes) {
			declType = declTypes[i]
		}
		cs.columns[i] = Column{Index: i, Name: name, DeclType: declType}

		// Duplicated names resolve to the first column, like a linear scan.
		if _, found := cs.byName[name]; !found {
			cs.byName[name] = i
		}
	}

	return cs
}

func (cs *columnSet) count() int {
	return len(cs.columns)
}

func (cs *columnSet) column(index int) (Column, error) {
	if index < 0 || index >= len(cs.columns) {
		return Column{}, fmt.Errorf("%w: column %d, result has %d columns", ErrOutOfRange, index, len(cs.columns))
	}
	return cs.columns[index], nil
}

// index resolves a column name with an exact, case-sensitive match.
func (cs *columnSet) index(name string) (int, error) {
	index, found := cs.byName[name]
	if !found {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return index, nil
}
