package services

import (
	"context"

	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type CreateRestaurantInput struct {
	Name                 string `json:"name" binding:"required,max=100"`
	Slug                 string `json:"slug" binding:"required,max=100,slug"`
	Address              string `json:"address" binding:"required,max=500"`
	Phone                string `json:"phone" binding:"required,min=10,max=20"`
	Email                string `json:"email" binding:"required,email,max=255"`
	AdminUsername        string `json:"admin_username" binding:"required,max=100"`
	AdminEmail           string `json:"admin_email" binding:"required,email,max=255"`
	AdminPassword        string `json:"admin_password" binding:"required,min=8"`
	ConfirmAdminPassword string `json:"confirm_admin_password" binding:"required,eqfield=AdminPassword"`
}

type UpdateRestaurantInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Slug     string `json:"slug" binding:"required,max=100,slug"`
	Address  string `json:"address" binding:"required,max=500"`
	Phone    string `json:"phone" binding:"required,min=10,max=20"`
	Email    string `json:"email" binding:"required,email,max=255"`
	IsActive *bool  `json:"is_active"`
}

type CreatedRestaurant struct {
	Restaurant models.RestaurantSummary `json:"restaurant"`
	Admin      models.UserView          `json:"admin"`
}

type RestaurantService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewRestaurantService(db *gorm.DB, images storage.ImageStore) *RestaurantService {
	return &RestaurantService{db: db, images: images}
}

// ResolveRestaurantID is a single id lookup by slug, used by the tenant guard.
func (s *RestaurantService) ResolveRestaurantID(ctx context.Context, slug string) (uint, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Select("id").Where("slug = ?", slug).Take(&restaurant).Error
	if err != nil {
		if isNotFound(err) {
			return 0, utils.NotFound("Restaurant", slug)
		}
		return 0, utils.Internal("resolve restaurant slug", err)
	}
	return restaurant.ID, nil
}

func (s *RestaurantService) ListActive(ctx context.Context) ([]models.RestaurantSummary, error) {
	return s.list(ctx, true)
}

func (s *RestaurantService) ListAll(ctx context.Context) ([]models.RestaurantSummary, error) {
	return s.list(ctx, false)
}

func (s *RestaurantService) list(ctx context.Context, activeOnly bool) ([]models.RestaurantSummary, error) {
	var restaurants []models.Restaurant
	q := s.db.WithContext(ctx).Order("name ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, utils.Internal("list restaurants", err)
	}

	out := make([]models.RestaurantSummary, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, models.NewRestaurantSummary(r))
	}
	return out, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).Take(&restaurant, id).Error; err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Restaurant", id)
		}
		return nil, utils.Internal("load restaurant", err)
	}
	return &restaurant, nil
}

// Create inserts the restaurant and its first admin in one transaction.
func (s *RestaurantService) Create(ctx context.Context, in CreateRestaurantInput) (*CreatedRestaurant, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.AdminPassword)
	if err != nil {
		return nil, utils.Internal("hash password", err)
	}

	restaurant := models.Restaurant{
		Name:     in.Name,
		Slug:     in.Slug,
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: true,
	}
	var admin models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, in.Slug, 0); err != nil {
			return err
		}
		if err := ensureUserFieldsFree(tx, in.AdminUsername, in.AdminEmail, 0); err != nil {
			return err
		}

		if err := tx.Create(&restaurant).Error; err != nil {
			if isDuplicate(err) {
				return utils.InvalidOperation("A restaurant with slug '%s' already exists", in.Slug)
			}
			return utils.Internal("create restaurant", err)
		}

		admin = models.User{
			Username:     in.AdminUsername,
			Email:        in.AdminEmail,
			PasswordHash: hash,
			RestaurantID: &restaurant.ID,
			IsAdmin:      true,
			IsActive:     true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			if isDuplicate(err) {
				return utils.InvalidOperation("Username or email is already in use")
			}
			return utils.Internal("create restaurant admin", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Restaurant %q created with admin %q", restaurant.Slug, admin.Username)
	return &CreatedRestaurant{
		Restaurant: models.NewRestaurantSummary(restaurant),
		Admin:      models.NewUserView(admin, &restaurant),
	}, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in UpdateRestaurantInput) (*models.RestaurantSummary, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}

	restaurant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(s.db.WithContext(ctx), in.Slug, id); err != nil {
		return nil, err
	}

	restaurant.Name = in.Name
	restaurant.Slug = in.Slug
	restaurant.Address = in.Address
	restaurant.Phone = in.Phone
	restaurant.Email = in.Email
	if in.IsActive != nil {
		restaurant.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Save(restaurant).Error; err != nil {
		if isDuplicate(err) {
			return nil, utils.InvalidOperation("A restaurant with slug '%s' already exists", in.Slug)
		}
		return nil, utils.Internal("update restaurant", err)
	}

	summary := models.NewRestaurantSummary(*restaurant)
	return &summary, nil
}

// Delete removes the restaurant with every dependent row, then its menu images.
func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	var imageURLs []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.Take(&restaurant, id).Error; err != nil {
			if isNotFound(err) {
				return utils.NotFound("Restaurant", id)
			}
			return utils.Internal("load restaurant", err)
		}

		categoryIDs := tx.Model(&models.Category{}).Select("id").Where("restaurant_id = ?", id)

		if err := tx.Model(&models.MenuItem{}).
			Where("category_id IN (?) AND image_url IS NOT NULL", categoryIDs).
			Pluck("image_url", &imageURLs).Error; err != nil {
			return utils.Internal("collect menu images", err)
		}

		steps := []struct {
			what  string
			query *gorm.DB
			model interface{}
		}{
			{"access logs", tx.Where("restaurant_id = ?", id), &models.QRCodeAccess{}},
			{"users", tx.Where("restaurant_id = ?", id), &models.User{}},
			{"menu items", tx.Where("category_id IN (?)", categoryIDs), &models.MenuItem{}},
			{"categories", tx.Where("restaurant_id = ?", id), &models.Category{}},
			{"tables", tx.Where("restaurant_id = ?", id), &models.Table{}},
		}
		for _, step := range steps {
			if err := step.query.Delete(step.model).Error; err != nil {
				return utils.Internal("delete "+step.what, err)
			}
		}

		if err := tx.Delete(&restaurant).Error; err != nil {
			return utils.Internal("delete restaurant", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	releaseImages(ctx, s.db, s.images, imageURLs...)
	utils.InfoLogger.Printf("Restaurant %d deleted (%d images removed)", id, len(imageURLs))
	return nil
}

// Users lists every user bound to the restaurant, active or not.
func (s *RestaurantService) Users(ctx context.Context, id uint) ([]models.UserView, error) {
	restaurant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", id).Order("id ASC").Find(&users).Error; err != nil {
		return nil, utils.Internal("list restaurant users", err)
	}

	out := make([]models.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, models.NewUserView(u, restaurant))
	}
	return out, nil
}

func ensureSlugFree(db *gorm.DB, slug string, exceptID uint) error {
	var count int64
	q := db.Model(&models.Restaurant{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return utils.Internal("check slug", err)
	}
	if count > 0 {
		return utils.InvalidOperation("A restaurant with slug '%s' already exists", slug)
	}
	return nil
}

// ensureUserFieldsFree checks username and email against every user, active or not.
func ensureUserFieldsFree(db *gorm.DB, username, email string, exceptID uint) error {
	checks := []struct {
		column, value, label string
	}{
		{"username", username, "Username"},
		{"email", email, "Email"},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var count int64
		q := db.Model(&models.User{}).Where(c.column+" = ?", c.value)
		if exceptID != 0 {
			q = q.Where("id <> ?", exceptID)
		}
		if err := q.Count(&count).Error; err != nil {
			return utils.Internal("check "+c.column, err)
		}
		if count > 0 {
			return utils.InvalidOperation("%s '%s' is already in use", c.label, c.value)
		}
	}
	return nil
}
