package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAdminSession     = errors.New("no valid admin session")
)

type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// EnsureAdmin creates the admin account if no admin with email exists.
// It reports whether an account was created.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, uuid.NewString(), email, string(hash))
	if err != nil {
		return false, fmt.Errorf("creating admin: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Login checks the credentials and opens a new admin session.
func (s *Store) Login(ctx context.Context, email, password string) (Admin, string, error) {
	email = normalizeEmail(email)
	var (
		a    Admin
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM admins WHERE email = ?
	`, email).Scan(&a.ID, &a.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return Admin{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Admin{}, "", ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)
	`, sessionID, a.ID); err != nil {
		return Admin{}, "", fmt.Errorf("creating admin session: %w", err)
	}
	return a, sessionID, nil
}

func (s *Store) AdminFromSession(ctx context.Context, sessionID string) (Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&a.ID, &a.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNoAdminSession
	}
	return a, err
}

func (s *Store) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}
