package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func seedIdentities(t *testing.T, store *SQLiteStorage) {
	t.Helper()
	ctx := context.Background()
	if err := store.AddPatient(ctx, &model.Patient{PatientID: "P0001", Name: "John Doe", DateOfBirth: "1980-05-15"}); err != nil {
		t.Fatalf("Failed to add patient: %v", err)
	}
	if err := store.AddDoctor(ctx, &model.Doctor{DoctorID: "D001", Name: "Dr. Smith", Specialty: "Family Medicine"}); err != nil {
		t.Fatalf("Failed to add doctor: %v", err)
	}
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate in-memory storage: %v", err)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	if !errors.Is(err, ErrEmptyString) {
		t.Errorf("NewSQLiteStorage(\"  \") error = %v, want ErrEmptyString", err)
	}
}

func TestSQLiteStorage_Identity(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	seedIdentities(t, store)

	t.Run("get existing patient", func(t *testing.T) {
		p, err := store.GetPatient(ctx, "P0001")
		if err != nil {
			t.Fatalf("GetPatient failed: %v", err)
		}
		if p == nil || p.Name != "John Doe" || p.DateOfBirth != "1980-05-15" {
			t.Errorf("GetPatient = %+v, want John Doe", p)
		}
		if p != nil && p.CreatedAt.IsZero() {
			t.Error("CreatedAt was not stored")
		}
	})

	t.Run("missing patient is nil without error", func(t *testing.T) {
		p, err := store.GetPatient(ctx, "P9999")
		if err != nil {
			t.Fatalf("GetPatient failed: %v", err)
		}
		if p != nil {
			t.Errorf("GetPatient = %+v, want nil", p)
		}
	})

	t.Run("duplicate patient", func(t *testing.T) {
		err := store.AddPatient(ctx, &model.Patient{PatientID: "P0001", Name: "Jane Roe"})
		if !errors.Is(err, common.ErrDuplicateEntry) {
			t.Errorf("AddPatient duplicate error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("duplicate doctor", func(t *testing.T) {
		err := store.AddDoctor(ctx, &model.Doctor{DoctorID: "D001", Name: "Dr. Who"})
		if !errors.Is(err, common.ErrDuplicateEntry) {
			t.Errorf("AddDoctor duplicate error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("missing doctor is nil without error", func(t *testing.T) {
		d, err := store.GetDoctor(ctx, "D404")
		if err != nil || d != nil {
			t.Errorf("GetDoctor = %+v, %v; want nil, nil", d, err)
		}
	})

	t.Run("invalid patient", func(t *testing.T) {
		err := store.AddPatient(ctx, &model.Patient{PatientID: "P0002"})
		if !errors.Is(err, ErrInvalidPatient) {
			t.Errorf("AddPatient without name error = %v, want ErrInvalidPatient", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		patients, err := store.GetPatients(ctx)
		if err != nil || len(patients) != 1 {
			t.Fatalf("GetPatients = %d, %v; want 1 patient", len(patients), err)
		}
		doctors, err := store.GetDoctors(ctx)
		if err != nil || len(doctors) != 1 || doctors[0].Specialty != "Family Medicine" {
			t.Fatalf("GetDoctors = %+v, %v", doctors, err)
		}
	})
}

func TestSQLiteStorage_NextPatientID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.NextPatientID(ctx)
	if err != nil {
		t.Fatalf("NextPatientID failed: %v", err)
	}
	if id != "P0001" {
		t.Errorf("NextPatientID on empty store = %q, want P0001", id)
	}

	for _, pid := range []string{"P0001", "P0009", "P0010", "PX"} {
		if err := store.AddPatient(ctx, &model.Patient{PatientID: pid, Name: "Someone"}); err != nil {
			t.Fatalf("AddPatient(%s) failed: %v", pid, err)
		}
	}

	id, err = store.NextPatientID(ctx)
	if err != nil {
		t.Fatalf("NextPatientID failed: %v", err)
	}
	if id != "P0011" {
		t.Errorf("NextPatientID = %q, want P0011", id)
	}
}

func TestSQLiteStorage_SeedDemo(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.SeedDemo(ctx); err != nil {
			t.Fatalf("SeedDemo run %d failed: %v", i+1, err)
		}
	}

	p, err := store.GetPatient(ctx, DemoPatient.PatientID)
	if err != nil || p == nil || p.Name != "John Doe" {
		t.Fatalf("demo patient = %+v, %v", p, err)
	}
	d, err := store.GetDoctor(ctx, DemoDoctor.DoctorID)
	if err != nil || d == nil || d.Name != "Dr. Smith" {
		t.Fatalf("demo doctor = %+v, %v", d, err)
	}
}
