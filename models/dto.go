package models

import "time"

// RestaurantMenu is the projection served for both the public and the admin menu view.
type RestaurantMenu struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	Address    string         `json:"address"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	Table      *TableSummary  `json:"table,omitempty"`
	Categories []CategoryMenu `json:"categories"`
}

type CategoryMenu struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	DisplayOrder int            `json:"display_order"`
	MenuItems    []MenuItemView `json:"menu_items"`
}

type MenuItemView struct {
	ID           uint    `json:"id"`
	CategoryID   uint    `json:"category_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        Price   `json:"price"`
	ImageURL     *string `json:"image_url"`
	DisplayOrder int     `json:"display_order"`
	IsAvailable  bool    `json:"is_available"`
}

type TableSummary struct {
	ID          uint   `json:"id"`
	TableNumber string `json:"table_number"`
	QRCode      string `json:"qr_code"`
}

type RestaurantSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type UserView struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	RestaurantID   *uint     `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	RestaurantSlug string    `json:"restaurant_slug,omitempty"`
	IsAdmin        bool      `json:"is_admin"`
	IsSuperAdmin   bool      `json:"is_super_admin"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// DailyAccessCount is one calendar day (UTC, YYYY-MM-DD) of menu views.
type DailyAccessCount struct {
	Date          string `json:"date"`
	TotalAccesses int64  `json:"total_accesses"`
}

type HourlyAccessCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type HourlyAccessStats struct {
	Date  string              `json:"date"`
	Hours []HourlyAccessCount `json:"hours"`
}

func NewRestaurantSummary(r Restaurant) RestaurantSummary {
	return RestaurantSummary{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		Address:  r.Address,
		Phone:    r.Phone,
		Email:    r.Email,
		IsActive: r.IsActive,
	}
}

func NewMenuItemView(m MenuItem) MenuItemView {
	return MenuItemView{
		ID:           m.ID,
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		ImageURL:     m.ImageURL,
		DisplayOrder: m.DisplayOrder,
		IsAvailable:  m.IsAvailable,
	}
}

func NewUserView(u User, r *Restaurant) UserView {
	v := UserView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		RestaurantID: u.RestaurantID,
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
	if r != nil {
		v.RestaurantName = r.Name
		v.RestaurantSlug = r.Slug
	}
	return v
}
