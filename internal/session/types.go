// Package session owns the operator's session: who is logged in, what
// they may do, and the persisted credential that outlives the process.
package session

import "time"

// Role is the operator's role as reported by the server at login.
type Role string

const (
	// RoleAny gates on an authenticated session of any role.
	RoleAny      Role = ""
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Session is the current authenticated state. The zero value is the
// anonymous session.
type Session struct {
	Status   bool
	Role     Role
	UserID   int
	Username string
	Token    string
}

// Credential is the persisted slot written on login and cleared on logout
// or auth rejection.
type Credential struct {
	Token     string
	Username  string
	Role      Role
	UserID    int
	UpdatedAt time.Time
}

// LoginRecord is one row of the login audit trail.
type LoginRecord struct {
	ID        string
	Username  string
	Role      Role
	CreatedAt time.Time
}
