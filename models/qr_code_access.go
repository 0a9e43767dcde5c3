package models

import "time"

// QRCodeAccess is written once per public menu view and never updated.
type QRCodeAccess struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableID      *uint       `gorm:"index" json:"table_id"`
	Table        *Table      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	AccessTime   time.Time   `gorm:"not null;index" json:"access_time"`
}

func (QRCodeAccess) TableName() string {
	return "qr_code_accesses"
}
