package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Handlers define their own response types; this struct is used by
// the repository layer.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name, printed on invoices.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – admin or passenger.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}
