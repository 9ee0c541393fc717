//go:build integration

// Package testdb provides database helpers for integration tests.
//
// Each test runs inside a transaction that is rolled back when the test
// finishes, so tests can share one schema and run in parallel:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    tasks := postgres.NewPostgresTaskStore(tx, nil)
//	    ...
//	})
//
// Tests are skipped when neither DATABASE_URL nor MYDAY_TEST_DB_URL is set.
package testdb
