package litebench

import (
	"fmt"
	"time"

	"github.com/nsqlite/litewrap/internal/sqlite"
)

const (
	insertUserQuery  = "INSERT INTO users (created, email, active) VALUES (?, ?, ?)"
	selectUsersQuery = "SELECT id, created, email, active FROM users ORDER BY id"
)

var schemaStmts = []string{
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY NOT NULL,
		created INTEGER NOT NULL,
		email TEXT NOT NULL,
		active INTEGER NOT NULL
	)`,
	`CREATE INDEX users_created ON users(created)`,
}

// recreateSchema drops all tables and recreates them, running each statement
// through exec.
func recreateSchema(exec func(query string) error) error {
	for _, s := range schemaStmts {
		if err := exec(s); err != nil {
			return err
		}
	}
	return nil
}

// user is one row of the users table.
type user struct {
	id      int64
	created int64
	email   string
	active  int64
}

func userEmail(idx int) string {
	return fmt.Sprintf("user%d@example.com", idx)
}

// insertUserSQL returns a complete INSERT statement for the idx-th user.
func insertUserSQL(idx int) string {
	return sqlite.Sprintf(
		"INSERT INTO users (created, email, active) VALUES (%d, %Q, %d)",
		time.Now().Unix(), userEmail(idx), 1,
	)
}

// userReader is satisfied by both *sqlite.Cursor and *sqlite.Table.
type userReader interface {
	Int(index int) (int64, error)
	String(index int) (string, error)
}

// readUser reads the current row of a selectUsersQuery result.
func readUser(r userReader) (user, error) {
	var u user
	var err error

	if u.id, err = r.Int(0); err != nil {
		return user{}, err
	}
	if u.created, err = r.Int(1); err != nil {
		return user{}, err
	}
	if u.email, err = r.String(2); err != nil {
		return user{}, err
	}
	if u.active, err = r.Int(3); err != nil {
		return user{}, err
	}
	return u, nil
}
