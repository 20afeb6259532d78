package session

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "fruitstand.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCredentialRoundTrip(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveCredential(DefaultSlot, Credential{
		Token:    "abc",
		Username: "ops",
		Role:     RoleAdmin,
		UserID:   1,
	})
	if err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	cred, err := s.LoadCredential(DefaultSlot)
	if err != nil {
		t.Fatalf("LoadCredential failed: %v", err)
	}
	if cred == nil {
		t.Fatal("credential missing after save")
	}
	if cred.Token != "abc" || cred.Username != "ops" || cred.Role != RoleAdmin || cred.UserID != 1 {
		t.Errorf("credential = %+v", cred)
	}
}

func TestSaveCredentialReplacesSlot(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredential(DefaultSlot, Credential{Token: "old", Username: "ops"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}
	if err := s.SaveCredential(DefaultSlot, Credential{Token: "new", Username: "ops"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	cred, err := s.LoadCredential(DefaultSlot)
	if err != nil {
		t.Fatalf("LoadCredential failed: %v", err)
	}
	if cred.Token != "new" {
		t.Errorf("token = %q, want new", cred.Token)
	}
}

func TestLoadCredentialEmptySlotReturnsNil(t *testing.T) {
	s := openTestStore(t)

	cred, err := s.LoadCredential(DefaultSlot)
	if err != nil {
		t.Fatalf("LoadCredential failed: %v", err)
	}
	if cred != nil {
		t.Errorf("credential = %+v, want nil for empty slot", cred)
	}
}

func TestClearCredentialIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredential(DefaultSlot, Credential{Token: "abc"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}
	if err := s.ClearCredential(DefaultSlot); err != nil {
		t.Fatalf("ClearCredential failed: %v", err)
	}
	if err := s.ClearCredential(DefaultSlot); err != nil {
		t.Fatalf("second ClearCredential failed: %v", err)
	}

	cred, err := s.LoadCredential(DefaultSlot)
	if err != nil {
		t.Fatalf("LoadCredential failed: %v", err)
	}
	if cred != nil {
		t.Error("credential should be gone after clear")
	}
}

func TestRecordAndListLogins(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.RecordLogin("ops", RoleAdmin); err != nil {
		t.Fatalf("RecordLogin failed: %v", err)
	}
	if _, err := s.RecordLogin("jo", RoleCustomer); err != nil {
		t.Fatalf("RecordLogin failed: %v", err)
	}

	records, err := s.ListLogins(10)
	if err != nil {
		t.Fatalf("ListLogins failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.ID == "" {
			t.Error("login record missing id")
		}
	}
}

func TestManagerRestoreFromPersistedCredential(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fruitstand.db")

	s, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	m := NewManager(s)
	if err := m.Establish("abc", 1, "ops", RoleAdmin); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A new process opens the same database.
	s2, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore (reopen) failed: %v", err)
	}
	defer func() { _ = s2.Close() }()

	m2 := NewManager(s2)
	if err := m2.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	sess := m2.Current()
	if !sess.Status || sess.Role != RoleAdmin || sess.Username != "ops" || sess.Token != "abc" {
		t.Errorf("restored session = %+v", sess)
	}
}
