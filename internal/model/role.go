package model

import "time"

// Role is an authorization role granted to users, e.g. ADMIN or CUSTOMER.
type Role struct {
	ID        int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EntityID implements Entity.
func (r *Role) EntityID() int { return r.ID }
