package session

import (
	"database/sql"
	"testing"

	"github.com/taskdeck/taskdeck/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestStore(t *testing.T) {
	t.Run("Token", func(t *testing.T) {
		t.Run("Roundtrip", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			if store.Token() != "" {
				t.Error("expected empty token initially")
			}

			if err := store.SetToken("bearer-1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Token() != "bearer-1" {
				t.Errorf("expected stored token, got %s", store.Token())
			}
		})

		t.Run("Overwrite", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			store.SetToken("bearer-1")
			if err := store.SetToken("bearer-2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Token() != "bearer-2" {
				t.Errorf("expected overwritten token, got %s", store.Token())
			}
		})
	})

	t.Run("User", func(t *testing.T) {
		t.Run("Roundtrip", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			serialized := `{"id":"u1","email":"user@example.com"}`
			if err := store.SetUser(serialized); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.User() != serialized {
				t.Errorf("expected stored profile, got %s", store.User())
			}
		})

		t.Run("Absent Key Is Not An Error", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			if store.User() != "" {
				t.Error("expected empty string for absent key")
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		t.Run("Removes Token and User Together", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			store.SetToken("bearer-1")
			store.SetUser(`{"id":"u1"}`)

			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Token() != "" {
				t.Error("expected token to be cleared")
			}
			if store.User() != "" {
				t.Error("expected user to be cleared")
			}
		})

		t.Run("Empty Store Is A No-Op", func(t *testing.T) {
			store := NewStore(newTestDB(t))

			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Nil Database", func(t *testing.T) {
		store := NewStore(nil)

		if store.Token() != "" {
			t.Error("expected empty token with nil db")
		}
		if err := store.SetToken("bearer-1"); err != nil {
			t.Errorf("expected write to be a no-op, got %v", err)
		}
		if store.Token() != "" {
			t.Error("expected token to stay empty with nil db")
		}
		if err := store.Clear(); err != nil {
			t.Errorf("expected clear to be a no-op, got %v", err)
		}
	})
}
