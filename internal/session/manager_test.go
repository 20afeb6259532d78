package session

import (
	"errors"
	"testing"
)

func TestManagerStartsAnonymous(t *testing.T) {
	m := NewManager(nil)
	sess := m.Current()
	if sess.Status {
		t.Error("fresh session should be anonymous")
	}
	if m.Token() != "" {
		t.Errorf("Token = %q, want empty", m.Token())
	}
}

func TestEstablishThenClear(t *testing.T) {
	m := NewManager(nil)
	if err := m.Establish("abc", 1, "ops", RoleAdmin); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}

	sess := m.Current()
	if !sess.Status || sess.Role != RoleAdmin || sess.UserID != 1 || sess.Username != "ops" {
		t.Errorf("session = %+v", sess)
	}
	if m.Token() != "abc" {
		t.Errorf("Token = %q, want abc", m.Token())
	}

	m.Clear()
	if m.Current().Status {
		t.Error("session should be anonymous after Clear")
	}
	if m.Token() != "" {
		t.Error("token should be empty after Clear")
	}
}

func TestCanLoadChecksStatusAndRole(t *testing.T) {
	m := NewManager(nil)

	if m.CanLoad(RoleAny) {
		t.Error("anonymous session must not load")
	}

	if err := m.Establish("t", 2, "jo", RoleCustomer); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if !m.CanLoad(RoleAny) {
		t.Error("authenticated session should pass RoleAny")
	}
	if m.CanLoad(RoleAdmin) {
		t.Error("customer must not pass the admin gate")
	}

	if err := m.Establish("t", 3, "ops", RoleAdmin); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if !m.CanLoad(RoleAdmin) {
		t.Error("admin should pass the admin gate")
	}
}

func TestAuthorizeIsReevaluatedNotCached(t *testing.T) {
	m := NewManager(nil)
	if err := m.Establish("t", 3, "ops", RoleAdmin); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if err := m.Authorize(RoleAdmin); err != nil {
		t.Fatalf("Authorize failed for admin: %v", err)
	}

	// Logout between page load and the user's action.
	m.Clear()
	if err := m.Authorize(RoleAdmin); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authorize after Clear = %v, want ErrUnauthorized", err)
	}
}

func TestInvalidateRevertsToAnonymous(t *testing.T) {
	m := NewManager(nil)
	if err := m.Establish("t", 3, "ops", RoleAdmin); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}

	// The api client calls this on a remote auth rejection.
	m.Invalidate()
	if m.Current().Status {
		t.Error("session should be anonymous after Invalidate")
	}
}
