package model

import "time"

// User is an account that can authenticate and carry roles.
// Password is write-only: it is accepted on input, encoded into EncryptedPassword
// by the service layer, and never persisted or serialized.
type User struct {
	ID                int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username          string    `json:"username" db:"username" gorm:"size:128;not null;uniqueIndex"`
	Password          string    `json:"password,omitempty" db:"-" gorm:"-"`
	EncryptedPassword string    `json:"-" db:"encrypted_password" gorm:"size:255;not null"`
	Enabled           bool      `json:"enabled" db:"enabled" gorm:"not null"`
	Roles             []Role    `json:"roles" db:"-" gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// EntityID implements Entity.
func (u *User) EntityID() int { return u.ID }

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the names of the user's roles in stored order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
