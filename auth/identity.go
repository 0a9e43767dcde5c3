package auth

import (
	"strconv"
	"time"

	"github.com/yeremiapane/qrmenu/utils"
)

// Identity is the caller as far as authorization is concerned.
// UserID 0 means the token carried no usable subject; it is never a real user.
type Identity struct {
	UserID       uint
	Username     string
	IsAdmin      bool
	IsSuperAdmin bool
	RestaurantID *uint
	TokenID      string
	ExpiresAt    time.Time
}

// FromClaims builds the identity once per request. Unparsable values fall back
// to the least privileged reading: id 0, not super-admin, no home restaurant.
func FromClaims(claims *utils.CustomClaims) Identity {
	if claims == nil {
		return Identity{}
	}

	id := Identity{
		Username:     claims.Username,
		IsAdmin:      claims.IsAdmin == "true",
		IsSuperAdmin: claims.IsSuperAdmin == "true",
		TokenID:      claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	if userID, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
		id.UserID = uint(userID)
	}
	if claims.RestaurantID != "" {
		if rid, err := strconv.ParseUint(claims.RestaurantID, 10, 64); err == nil && rid > 0 {
			home := uint(rid)
			id.RestaurantID = &home
		}
	}
	return id
}

// CanAccessRestaurant is the tenant check: super-admins pass, everyone else
// needs a home restaurant equal to restaurantID.
func (id Identity) CanAccessRestaurant(restaurantID uint) bool {
	if id.IsSuperAdmin {
		return true
	}
	return id.RestaurantID != nil && restaurantID != 0 && *id.RestaurantID == restaurantID
}

// SameRestaurant reports whether both identities belong to the same tenant.
func (id Identity) SameRestaurant(restaurantID *uint) bool {
	return id.RestaurantID != nil && restaurantID != nil && *id.RestaurantID == *restaurantID
}
