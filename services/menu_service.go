package services

import (
	"context"
	"time"

	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=500"`
	DisplayOrder int    `json:"display_order"`
}

// MenuItemInput is used for create and full update. On update a zero
// CategoryID keeps the current category.
type MenuItemInput struct {
	CategoryID   uint         `json:"category_id"`
	Name         string       `json:"name" binding:"required,max=100"`
	Description  string       `json:"description" binding:"max=1000"`
	Price        models.Price `json:"price" binding:"gt=0"`
	ImageURL     *string      `json:"image_url" binding:"omitempty,max=500"`
	DisplayOrder int          `json:"display_order"`
	IsAvailable  *bool        `json:"is_available"`
}

type MenuService struct {
	db     *gorm.DB
	images storage.ImageStore
	events live.Publisher
	now    func() time.Time
}

func NewMenuService(db *gorm.DB, images storage.ImageStore, events live.Publisher) *MenuService {
	return &MenuService{db: db, images: images, events: events, now: time.Now}
}

// PublicMenu serves a scanned QR code and records the access.
func (s *MenuService) PublicMenu(ctx context.Context, slug, qrCode string) (*models.RestaurantMenu, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).Take(&restaurant).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Restaurant", slug)
		}
		return nil, utils.Internal("load restaurant", err)
	}

	var table models.Table
	err = s.db.WithContext(ctx).
		Where("restaurant_id = ? AND qr_code = ? AND is_active = ?", restaurant.ID, qrCode, true).
		Take(&table).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Table", qrCode)
		}
		return nil, utils.Internal("load table", err)
	}

	access := models.QRCodeAccess{
		RestaurantID: restaurant.ID,
		TableID:      &table.ID,
		AccessTime:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&access).Error; err != nil {
		return nil, utils.Internal("record menu access", err)
	}

	menu, err := s.buildMenu(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	menu.Table = &models.TableSummary{ID: table.ID, TableNumber: table.TableNumber, QRCode: table.QRCode}

	publish(s.events, restaurant.ID, live.EventMenuView, map[string]interface{}{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"qr_code":      table.QRCode,
		"access_time":  access.AccessTime,
	})
	return menu, nil
}

// AdminMenu is the same projection without the access side effect.
func (s *MenuService) AdminMenu(ctx context.Context, slug string) (*models.RestaurantMenu, error) {
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	return s.buildMenu(ctx, *restaurant)
}

// buildMenu assembles the menu from three flat queries.
func (s *MenuService) buildMenu(ctx context.Context, restaurant models.Restaurant) (*models.RestaurantMenu, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurant.ID).
		Order("display_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, utils.Internal("list categories", err)
	}

	itemsByCategory := make(map[uint][]models.MenuItemView, len(categories))
	if len(categories) > 0 {
		ids := make([]uint, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}

		var items []models.MenuItem
		if err := s.db.WithContext(ctx).
			Where("category_id IN ?", ids).
			Order("display_order ASC, id ASC").
			Find(&items).Error; err != nil {
			return nil, utils.Internal("list menu items", err)
		}
		for _, item := range items {
			itemsByCategory[item.CategoryID] = append(itemsByCategory[item.CategoryID], models.NewMenuItemView(item))
		}
	}

	menu := &models.RestaurantMenu{
		ID:         restaurant.ID,
		Name:       restaurant.Name,
		Slug:       restaurant.Slug,
		Address:    restaurant.Address,
		Phone:      restaurant.Phone,
		Email:      restaurant.Email,
		Categories: make([]models.CategoryMenu, 0, len(categories)),
	}
	for _, c := range categories {
		items := itemsByCategory[c.ID]
		if items == nil {
			items = []models.MenuItemView{}
		}
		menu.Categories = append(menu.Categories, models.CategoryMenu{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			DisplayOrder: c.DisplayOrder,
			MenuItems:    items,
		})
	}
	return menu, nil
}

// scopedCategory finds a category only through its restaurant's slug.
func scopedCategory(ctx context.Context, db *gorm.DB, slug string, id uint) (*models.Category, error) {
	var category models.Category
	err := db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = categories.restaurant_id").
		Where("categories.id = ? AND restaurants.slug = ?", id, slug).
		Take(&category).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Category", id)
		}
		return nil, utils.Internal("load category", err)
	}
	return &category, nil
}

// scopedMenuItem follows menu item -> category -> restaurant.
func scopedMenuItem(ctx context.Context, db *gorm.DB, slug string, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Joins("JOIN restaurants ON restaurants.id = categories.restaurant_id").
		Where("menu_items.id = ? AND restaurants.slug = ?", id, slug).
		Take(&item).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Menu item", id)
		}
		return nil, utils.Internal("load menu item", err)
	}
	return &item, nil
}

func (s *MenuService) CreateCategory(ctx context.Context, slug string, in CategoryInput) (*models.Category, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	category := models.Category{
		RestaurantID: restaurant.ID,
		Name:         in.Name,
		Description:  in.Description,
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, utils.Internal("create category", err)
	}

	s.menuChanged(restaurant.ID, "category_created", category.ID)
	return &category, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, slug string, id uint, in CategoryInput) (*models.Category, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	category, err := scopedCategory(ctx, s.db, slug, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	category.DisplayOrder = in.DisplayOrder
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, utils.Internal("update category", err)
	}

	s.menuChanged(category.RestaurantID, "category_updated", category.ID)
	return category, nil
}

// DeleteCategory removes the category, its items and their image files.
func (s *MenuService) DeleteCategory(ctx context.Context, slug string, id uint) error {
	category, err := scopedCategory(ctx, s.db, slug, id)
	if err != nil {
		return err
	}

	var imageURLs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).
			Where("category_id = ? AND image_url IS NOT NULL", category.ID).
			Pluck("image_url", &imageURLs).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return utils.Internal("delete category", err)
	}

	releaseImages(ctx, s.db, s.images, imageURLs...)
	s.menuChanged(category.RestaurantID, "category_deleted", category.ID)
	return nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, slug string, in MenuItemInput) (*models.MenuItemView, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if in.CategoryID == 0 {
		return nil, utils.Validation("One or more validation errors occurred", "category_id is required")
	}
	category, err := scopedCategory(ctx, s.db, slug, in.CategoryID)
	if err != nil {
		return nil, err
	}
	imageURL := normalizeImageURL(in.ImageURL)
	if err := checkImageUse(ctx, s.db, s.images, category.RestaurantID, imageURL); err != nil {
		return nil, err
	}

	item := models.MenuItem{
		CategoryID:   category.ID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		ImageURL:     imageURL,
		DisplayOrder: in.DisplayOrder,
		IsAvailable:  true,
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, utils.Internal("create menu item", err)
	}

	s.menuChanged(category.RestaurantID, "menu_item_created", item.ID)
	view := models.NewMenuItemView(item)
	return &view, nil
}

// UpdateMenuItem replaces the item's fields. A non-zero CategoryID must belong
// to the same restaurant. A replaced or cleared image is removed from storage
// once no other item uses it.
func (s *MenuService) UpdateMenuItem(ctx context.Context, slug string, id uint, in MenuItemInput) (*models.MenuItemView, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	item, err := scopedMenuItem(ctx, s.db, slug, id)
	if err != nil {
		return nil, err
	}

	targetCategoryID := item.CategoryID
	if in.CategoryID != 0 && in.CategoryID != item.CategoryID {
		targetCategoryID = in.CategoryID
	}
	category, err := scopedCategory(ctx, s.db, slug, targetCategoryID)
	if err != nil {
		return nil, err
	}

	oldImage := item.ImageURL
	imageURL := normalizeImageURL(in.ImageURL)
	if imageURL != nil && (oldImage == nil || *oldImage != *imageURL) {
		if err := checkImageUse(ctx, s.db, s.images, category.RestaurantID, imageURL); err != nil {
			return nil, err
		}
	}

	item.CategoryID = category.ID
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.ImageURL = imageURL
	item.DisplayOrder = in.DisplayOrder
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, utils.Internal("update menu item", err)
	}

	if oldImage != nil && (item.ImageURL == nil || *item.ImageURL != *oldImage) {
		releaseImages(ctx, s.db, s.images, *oldImage)
	}

	s.menuChanged(category.RestaurantID, "menu_item_updated", item.ID)
	view := models.NewMenuItemView(*item)
	return &view, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, slug string, id uint) error {
	item, err := scopedMenuItem(ctx, s.db, slug, id)
	if err != nil {
		return err
	}
	category, err := scopedCategory(ctx, s.db, slug, item.CategoryID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return utils.Internal("delete menu item", err)
	}
	if item.ImageURL != nil {
		releaseImages(ctx, s.db, s.images, *item.ImageURL)
	}

	s.menuChanged(category.RestaurantID, "menu_item_deleted", item.ID)
	return nil
}

func (s *MenuService) menuChanged(restaurantID uint, action string, id uint) {
	publish(s.events, restaurantID, live.EventMenuChanged, map[string]interface{}{
		"action": action,
		"id":     id,
	})
}

func normalizeImageURL(u *string) *string {
	if u == nil || *u == "" {
		return nil
	}
	v := *u
	return &v
}
