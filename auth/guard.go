package auth

import (
	"context"

	"github.com/yeremiapane/qrmenu/utils"
)

// SlugResolver maps a restaurant slug to its id.
type SlugResolver interface {
	ResolveRestaurantID(ctx context.Context, slug string) (uint, error)
}

// Authorize decides whether id may act on the restaurant behind slug.
// Super-admins skip the lookup; any lookup failure, including a panic, denies.
func Authorize(ctx context.Context, resolver SlugResolver, id Identity, slug string) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Errorf("tenant lookup for %q panicked: %v", slug, r)
			allowed = false
		}
	}()

	if id.IsSuperAdmin {
		return true
	}
	if id.RestaurantID == nil || slug == "" || resolver == nil {
		return false
	}

	restaurantID, err := resolver.ResolveRestaurantID(ctx, slug)
	if err != nil {
		if !utils.IsKind(err, utils.KindNotFound) {
			utils.ErrorLogger.Warnf("tenant lookup for %q failed: %v", slug, err)
		}
		return false
	}
	return id.CanAccessRestaurant(restaurantID)
}
