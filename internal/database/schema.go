package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/s1res/digital-navigator/internal/utils"
)

// schemaStatements creates the portal tables when they do not exist.
// The statements are executed one at a time so the DSN does not need
// multiStatements.
//
// event_registrations carries the two contracts the rest of the service
// relies on: the UNIQUE key on (event_id, user_id), which makes the
// insert the synchronization point for duplicate registrations, and the
// cascading foreign keys, which guarantee that deleting an event or a
// user removes its registrations without application-level cleanup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		first_name VARCHAR(64) NULL,
		last_name VARCHAR(64) NULL,
		phone VARCHAR(32) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		starts_at DATETIME NOT NULL,
		location VARCHAR(255) NULL,
		created_by BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_events_starts_at (starts_at),
		CONSTRAINT fk_events_created_by FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS event_registrations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_registrations_event_user (event_id, user_id),
		KEY idx_registrations_user (user_id),
		CONSTRAINT fk_registrations_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
		CONSTRAINT fk_registrations_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitSchema creates the tables if they are missing.  Safe to run at
// every boot.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaultUsers creates the three default accounts on an empty users
// table, mirroring the accounts the portal ships with.  A non-empty
// table is left untouched.
func SeedDefaultUsers(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	accounts := []struct {
		username, email, password, role string
	}{
		{"superadmin", "superadmin@digitalnavigator.ru", "superadmin123", "superadmin"},
		{"admin", "admin@digitalnavigator.ru", "admin123", "admin"},
		{"user", "user@digitalnavigator.ru", "user123", "user"},
	}
	for _, a := range accounts {
		hash, err := utils.HashPassword(a.password, bcryptCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
			a.username, a.email, hash, a.role); err != nil {
			return err
		}
	}
	log.Printf("seeded default accounts: superadmin, admin, user")
	return nil
}
