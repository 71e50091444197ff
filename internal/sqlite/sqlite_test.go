package sqlite

import (
	"testing"

	"github.com/nsqlite/litewrap/internal/log"
	"github.com/stretchr/testify/require"
)

// openTestConn opens an in-memory database that is closed with the test.
func openTestConn(t *testing.T) *Conn {
	t.Helper()

	conn, err := Open(Config{
		Logger: log.NewDiscardLogger(),
		Path:   MemoryPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// createParts creates the four row parts table with one NULL per row from
// the second row on.
func createParts(t *testing.T, conn *Conn) {
	t.Helper()

	_, err := conn.Exec(`
		CREATE TABLE parts(no int, name char(20), qty int, cost number);
		INSERT INTO parts VALUES(1, 'part1', 100, 1.11);
		INSERT INTO parts VALUES(2, null, 200, 2.22);
		INSERT INTO parts VALUES(3, 'part3', null, 3.33);
		INSERT INTO parts VALUES(4, 'part4', 400, null);
	`)
	require.NoError(t, err)
}
