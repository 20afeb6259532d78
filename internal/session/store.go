package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultSlot is the credential slot used outside of tests.
const DefaultSlot = "default"

// Store provides SQLite-backed persistence for the credential slot and the
// login audit trail.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they
// don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		slot TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		user_id INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS logins (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveCredential writes the credential into the given slot, replacing any
// prior value.
func (s *Store) SaveCredential(slot string, cred Credential) error {
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO credentials (slot, token, username, role, user_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   token = excluded.token,
		   username = excluded.username,
		   role = excluded.role,
		   user_id = excluded.user_id,
		   updated_at = excluded.updated_at`,
		slot, cred.Token, cred.Username, string(cred.Role), cred.UserID, now,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	return nil
}

// LoadCredential reads the credential in the given slot. Returns nil (not
// an error) when the slot is empty.
func (s *Store) LoadCredential(slot string) (*Credential, error) {
	row := s.db.QueryRow(
		`SELECT token, username, role, user_id, updated_at
		 FROM credentials WHERE slot = ?`,
		slot,
	)

	var cred Credential
	var role string
	err := row.Scan(&cred.Token, &cred.Username, &role, &cred.UserID, &cred.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	cred.Role = Role(role)

	return &cred, nil
}

// ClearCredential removes the credential in the given slot. Idempotent.
func (s *Store) ClearCredential(slot string) error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// RecordLogin appends a row to the login audit trail.
func (s *Store) RecordLogin(username string, role Role) (*LoginRecord, error) {
	rec := LoginRecord{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		`INSERT INTO logins (id, username, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Username, string(rec.Role), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert login record: %w", err)
	}

	return &rec, nil
}

// ListLogins returns the most recent login records, newest first.
func (s *Store) ListLogins(limit int) ([]LoginRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, username, role, created_at
		 FROM logins
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query logins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []LoginRecord
	for rows.Next() {
		var rec LoginRecord
		var role string
		if err := rows.Scan(&rec.ID, &rec.Username, &role, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan login record: %w", err)
		}
		rec.Role = Role(role)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
