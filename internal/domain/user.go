package domain

import "time"

// User represents an account owner, the verified principal for
// authorization checks. A transfer caller must own the source account
// unless they are a superuser.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	Active         bool
	Superuser      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanTransferFrom reports whether the user may move funds out of the
// given account.
func (u *User) CanTransferFrom(a *Account) bool {
	return u.Superuser || a.OwnerID == u.ID
}
