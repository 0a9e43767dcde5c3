package database

import (
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Category{},
		&models.MenuItem{},
		&models.Table{},
		&models.QRCodeAccess{},
		&models.User{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
