package model

import "time"

// Product is a catalog item. ImageURL holds the object storage key of its image, if any.
type Product struct {
	ID          int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Description string    `json:"description" db:"description" gorm:"size:1024;not null"`
	Price       float64   `json:"price" db:"price" gorm:"type:decimal(12,2);not null"`
	ImageURL    string    `json:"image_url" db:"image_url" gorm:"size:512;not null"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// EntityID implements Entity.
func (p *Product) EntityID() int { return p.ID }
