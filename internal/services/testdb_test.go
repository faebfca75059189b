package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/repos"
)

// memdb opens a fresh in-memory store with the schema and demo seed
// (buyers u-dewi/u-adi, seller u-sari-crafts, three products).
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// One connection keeps every query on the same :memory: database.
	db.SetMaxOpenConns(1)
	return db
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		t.Fatalf("stock of %s: %v", productID, err)
	}
	return n
}
