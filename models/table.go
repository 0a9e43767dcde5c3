package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const qrCodePrefix = "TABLE"

type Table struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_tables_restaurant_qr" json:"restaurant_id"`
	TableNumber  string    `gorm:"type:varchar(50);not null" json:"table_number"`
	QRCode       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_tables_restaurant_qr" json:"qr_code"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// QRCodeFor derives the table's QR code: "TABLE" plus the number left-padded
// with zeros to three characters. Longer numbers are used as they are.
func QRCodeFor(tableNumber string) string {
	if n := utf8.RuneCountInString(tableNumber); n < 3 {
		tableNumber = strings.Repeat("0", 3-n) + tableNumber
	}
	return qrCodePrefix + tableNumber
}
