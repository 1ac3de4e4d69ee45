package model

import "time"

// User represents a portal account as stored in the `users` table.
// Accounts act as the user directory for this service: registrations
// reference them by identity and rosters resolve their descriptive
// fields.  The json tags are omitted because these structs are used
// internally by the repository layer; handlers define their own
// response types.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (user, admin, superadmin).
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  Phone        – optional contact phone.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	FirstName    *string   // users.first_name (nullable)
	LastName     *string   // users.last_name (nullable)
	Phone        *string   // users.phone (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
