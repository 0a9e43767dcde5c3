package database

import (
	"context"
	"fmt"

	"github.com/yeremiapane/qrmenu/config"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

// EnsureSuperAdmin creates the configured super-admin when no active one exists.
func EnsureSuperAdmin(ctx context.Context, db *gorm.DB, cfg config.SeedConfig) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("is_super_admin = ? AND is_active = ?", true, true).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     cfg.SuperAdminUsername,
		Email:        cfg.SuperAdminEmail,
		PasswordHash: hash,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed super-admin: %w", err)
	}
	utils.InfoLogger.Printf("Seeded super-admin %q", admin.Username)
	return nil
}

type demoItem struct {
	name  string
	price float64
	image string
}

type demoCategory struct {
	name, description string
	items             []demoItem
}

type demoRestaurant struct {
	restaurant models.Restaurant
	categories []demoCategory
	tables     []string
	admin      models.User
	password   string
}

func demoRestaurants() []demoRestaurant {
	return []demoRestaurant{
		{
			restaurant: models.Restaurant{
				Name: "Lezzet Sarayı", Slug: "lezzet-sarayi", Address: "Merkez Mah. 123. Sk. No:4",
				Phone: "05551112233", Email: "contact@lezzetsarayi.com", IsActive: true,
			},
			categories: []demoCategory{
				{"Çorbalar", "Güne sıcak bir başlangıç", []demoItem{
					{"Mercimek Çorbası", 30, ""},
					{"Ezogelin Çorbası", 35, ""},
				}},
				{"Ana Yemekler", "Doyurucu lezzetler", []demoItem{
					{"Adana Kebap", 150, "/images/default.jpg"},
					{"İskender", 180, "/images/default.jpg"},
				}},
			},
			tables:   []string{"1", "2"},
			admin:    models.User{Username: "lezzet-admin", Email: "admin@lezzetsarayi.com"},
			password: "LezzetAdmin123!",
		},
		{
			restaurant: models.Restaurant{
				Name: "Denizden Gelen", Slug: "denizden-gelen", Address: "Sahil Yolu Cd. No:10",
				Phone: "05554445566", Email: "info@denizdengelen.com", IsActive: true,
			},
			categories: []demoCategory{
				{"Balıklar", "Taze ve lezzetli", []demoItem{
					{"Levrek Izgara", 250, ""},
					{"Çipura", 240, ""},
				}},
			},
			tables:   []string{"1"},
			admin:    models.User{Username: "deniz-admin", Email: "admin@denizdengelen.com"},
			password: "DenizAdmin123!",
		},
	}
}

// SeedDemoData fills an empty store with two sample restaurants.
func SeedDemoData(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, demo := range demoRestaurants() {
			restaurant := demo.restaurant
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}

			for i, dc := range demo.categories {
				category := models.Category{
					RestaurantID: restaurant.ID,
					Name:         dc.name,
					Description:  dc.description,
					DisplayOrder: i + 1,
				}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
				for j, di := range dc.items {
					item := models.MenuItem{
						CategoryID:   category.ID,
						Name:         di.name,
						Price:        models.PriceFromFloat(di.price),
						DisplayOrder: j + 1,
						IsAvailable:  true,
					}
					if di.image != "" {
						image := di.image
						item.ImageURL = &image
					}
					if err := tx.Create(&item).Error; err != nil {
						return err
					}
				}
			}

			for _, number := range demo.tables {
				table := models.Table{
					RestaurantID: restaurant.ID,
					TableNumber:  number,
					QRCode:       models.QRCodeFor(number),
					IsActive:     true,
				}
				if err := tx.Create(&table).Error; err != nil {
					return err
				}
			}

			hash, err := utils.HashPassword(demo.password)
			if err != nil {
				return err
			}
			admin := demo.admin
			admin.PasswordHash = hash
			admin.RestaurantID = &restaurant.ID
			admin.IsAdmin = true
			admin.IsActive = true
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded demo restaurant %q", restaurant.Slug)
		}
		return nil
	})
}
