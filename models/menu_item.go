package models

import "time"

type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:varchar(1000)" json:"description"`
	Price        Price     `gorm:"type:decimal(18,2);not null" json:"price"`
	ImageURL     *string   `gorm:"type:varchar(500)" json:"image_url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsAvailable  bool      `gorm:"not null" json:"is_available"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
