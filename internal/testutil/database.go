// Package testutil provides shared test helpers for soapbox packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/storage"
)

// TestDB wraps an in-memory store that is closed when the test ends.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with the demo
// patient (P0001) and doctor (D001).
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	mgr := notes.NewManager(db.Storage, db.Storage, categorize.NewCategorizer(categorize.DefaultKeywords()))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	db := SetupEmptyTestDB(t)
	if err := db.Storage.SeedDemo(context.Background()); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	return db
}

// SetupEmptyTestDB creates a migrated in-memory database with no rows.
func SetupEmptyTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustAddPatient registers a patient or fails the test.
func (db *TestDB) MustAddPatient(id, name string) {
	db.t.Helper()
	if err := db.Storage.AddPatient(context.Background(), &model.Patient{PatientID: id, Name: name}); err != nil {
		db.t.Fatalf("failed to add patient %s: %v", id, err)
	}
}
