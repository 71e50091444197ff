// Package sqlite provides a thin wrapper around the SQLite engine exposed by
// github.com/mattn/go-sqlite3.
//
// It works at the driver level, below database/sql, so every call maps to a
// handful of engine calls: open/close, prepare, bind, step and column access.
// Query results are read through two accessors that share the same typed,
// NULL-aware field API:
//
//   - Cursor streams a result one row at a time and holds the engine
//     statement until it is finalized.
//   - Table loads every row into memory up front and lets the caller pick
//     the current row with SelectRow.
//
// Cells keep the dynamic type the engine reported for them (see ValueType)
// and typed getters convert on demand using SQLite's own coercion rules.
//
//   - https://www.sqlite.org/c3ref/intro.html
//   - https://www.sqlite.org/datatype3.html
package sqlite
