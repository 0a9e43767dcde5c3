package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// restaurantBySlug loads the tenant or returns a not-found AppError.
func restaurantBySlug(ctx context.Context, db *gorm.DB, slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := db.WithContext(ctx).Where("slug = ?", slug).Take(&restaurant).Error; err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Restaurant", slug)
		}
		return nil, utils.Internal("load restaurant", err)
	}
	return &restaurant, nil
}

func publish(p live.Publisher, restaurantID uint, event string, data interface{}) {
	if p != nil {
		p.Publish(restaurantID, event, data)
	}
}
