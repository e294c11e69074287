// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests run inside a transaction that is rolled back when the test finishes,
// so they may run in parallel and need no cleanup:
//
//	func TestCreateBook(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when DATABASE_URL is unset
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        books := postgres.NewPostgresBookStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The schema is migrated once per test binary with the embedded goose
// migrations from internal/platform/postgres.
//
// Environment variables:
//
//   - DATABASE_URL: primary connection string
//   - SHELF_TEST_DB_URL: fallback connection string
package testdb
