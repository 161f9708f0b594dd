package entity

import "time"

// Roles stored on the user record. Everybody registers as RoleUser; admins
// are promoted out of band (see cmd/seed).
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash. Answer is the security-question answer used
// by the forgot-password flow; it is a known-weak secondary factor and must
// never be serialized into a response, which is why the entity carries no
// JSON tags — handlers expose whitelisted views instead.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Phone     string
	Address   string
	Answer    string
	Role      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
