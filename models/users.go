package models

import "time"

// User belongs to no restaurant when IsSuperAdmin is set, and to exactly one otherwise.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	IsAdmin      bool        `gorm:"not null" json:"is_admin"`
	IsSuperAdmin bool        `gorm:"not null;check:chk_users_admin_logic,is_super_admin = false OR restaurant_id IS NULL" json:"is_super_admin"`
	IsActive     bool        `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}
