package services

import (
	"context"

	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username        string `json:"username" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	RestaurantID    *uint  `json:"restaurant_id"`
	IsAdmin         bool   `json:"is_admin"`
	IsSuperAdmin    bool   `json:"is_super_admin"`
}

// UpdateUserInput only touches the fields that are set.
type UpdateUserInput struct {
	Username        *string `json:"username" binding:"omitempty,min=1,max=100"`
	Email           *string `json:"email" binding:"omitempty,email,max=255"`
	Password        *string `json:"password" binding:"omitempty,min=8"`
	ConfirmPassword *string `json:"confirm_password"`
	RestaurantID    *uint   `json:"restaurant_id"`
	IsAdmin         *bool   `json:"is_admin"`
	IsSuperAdmin    *bool   `json:"is_super_admin"`
	IsActive        *bool   `json:"is_active"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns every active user.
func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&users).Error; err != nil {
		return nil, utils.Internal("list users", err)
	}
	return s.views(ctx, users)
}

// Get lets a user read themselves, a super-admin read anyone, and tenant
// users read colleagues of the same restaurant.
func (s *UserService) Get(ctx context.Context, caller auth.Identity, id uint) (*models.UserView, error) {
	user, err := s.find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsSuperAdmin && caller.UserID != user.ID && !caller.SameRestaurant(user.RestaurantID) {
		return nil, utils.Forbidden("You are not allowed to view this user")
	}
	return s.view(ctx, *user)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.UserView, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if in.IsSuperAdmin && in.RestaurantID != nil {
		return nil, utils.Validation("Super admin users cannot be assigned to a restaurant")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.Internal("hash password", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		RestaurantID: in.RestaurantID,
		IsAdmin:      in.IsAdmin,
		IsSuperAdmin: in.IsSuperAdmin,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.RestaurantID != nil {
			if err := restaurantExists(tx, *in.RestaurantID); err != nil {
				return err
			}
		}
		if err := ensureUserFieldsFree(tx, in.Username, in.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicate(err) {
				return utils.InvalidOperation("Username or email is already in use")
			}
			return utils.Internal("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("User %q created", user.Username)
	return s.view(ctx, user)
}

// Update applies a partial change. Only super-admins may change roles, the
// restaurant binding or the active flag. The last active super-admin cannot
// lose the role or be deactivated.
func (s *UserService) Update(ctx context.Context, caller auth.Identity, id uint, in UpdateUserInput) (*models.UserView, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if !caller.IsSuperAdmin && caller.UserID != id {
		return nil, utils.Forbidden("You can only update your own account")
	}
	privileged := in.IsAdmin != nil || in.IsSuperAdmin != nil || in.RestaurantID != nil || in.IsActive != nil
	if privileged && !caller.IsSuperAdmin {
		return nil, utils.Forbidden("Only super admins can change roles or restaurant assignment")
	}
	if in.Password != nil && (in.ConfirmPassword == nil || *in.ConfirmPassword != *in.Password) {
		return nil, utils.Validation("One or more validation errors occurred", "confirm_password must match password")
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		wasSuperAdmin := user.IsSuperAdmin && user.IsActive

		username, email := "", ""
		if in.Username != nil && *in.Username != user.Username {
			username = *in.Username
		}
		if in.Email != nil && *in.Email != user.Email {
			email = *in.Email
		}
		if err := ensureUserFieldsFree(tx, username, email, user.ID); err != nil {
			return err
		}
		if username != "" {
			user.Username = username
		}
		if email != "" {
			user.Email = email
		}

		if in.IsAdmin != nil {
			user.IsAdmin = *in.IsAdmin
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		if in.IsSuperAdmin != nil {
			user.IsSuperAdmin = *in.IsSuperAdmin
			if user.IsSuperAdmin && in.RestaurantID == nil {
				user.RestaurantID = nil
			}
		}
		if in.RestaurantID != nil {
			if err := restaurantExists(tx, *in.RestaurantID); err != nil {
				return err
			}
			rid := *in.RestaurantID
			user.RestaurantID = &rid
		}
		if user.IsSuperAdmin && user.RestaurantID != nil {
			return utils.Validation("Super admin users cannot be assigned to a restaurant")
		}

		if wasSuperAdmin && !(user.IsSuperAdmin && user.IsActive) {
			if err := ensureAnotherSuperAdmin(tx, user.ID); err != nil {
				return err
			}
		}

		if in.Password != nil {
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return utils.Internal("hash password", err)
			}
			user.PasswordHash = hash
		}

		if err := tx.Save(user).Error; err != nil {
			if isDuplicate(err) {
				return utils.InvalidOperation("Username or email is already in use")
			}
			return utils.Internal("update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *user)
}

// Delete deactivates the user. The last active super-admin is kept.
func (s *UserService) Delete(ctx context.Context, caller auth.Identity, id uint) error {
	if !caller.IsSuperAdmin {
		return utils.Forbidden("Only super admins can delete users")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return utils.NotFound("User", id)
		}
		if user.IsSuperAdmin {
			if err := ensureAnotherSuperAdmin(tx, user.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(user).Update("is_active", false).Error; err != nil {
			return utils.Internal("deactivate user", err)
		}
		utils.InfoLogger.Printf("User %d deactivated by %d", user.ID, caller.UserID)
		return nil
	})
}

// IsActive is false for deactivated and for deleted users.
func (s *UserService) IsActive(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Count(&count).Error; err != nil {
		return false, utils.Internal("check user status", err)
	}
	return count > 0, nil
}

func (s *UserService) find(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Take(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("User", id)
		}
		return nil, utils.Internal("load user", err)
	}
	return &user, nil
}

func (s *UserService) view(ctx context.Context, user models.User) (*models.UserView, error) {
	views, err := s.views(ctx, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views attaches restaurant names with one extra query for the whole batch.
func (s *UserService) views(ctx context.Context, users []models.User) ([]models.UserView, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		if u.RestaurantID != nil {
			ids = append(ids, *u.RestaurantID)
		}
	}

	restaurants := make(map[uint]*models.Restaurant)
	if len(ids) > 0 {
		var rows []models.Restaurant
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, utils.Internal("load user restaurants", err)
		}
		for i := range rows {
			restaurants[rows[i].ID] = &rows[i]
		}
	}

	out := make([]models.UserView, 0, len(users))
	for _, u := range users {
		var r *models.Restaurant
		if u.RestaurantID != nil {
			r = restaurants[*u.RestaurantID]
		}
		out = append(out, models.NewUserView(u, r))
	}
	return out, nil
}

func restaurantExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return utils.Internal("check restaurant", err)
	}
	if count == 0 {
		return utils.NotFound("Restaurant", id)
	}
	return nil
}

func ensureAnotherSuperAdmin(db *gorm.DB, exceptID uint) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("is_super_admin = ? AND is_active = ? AND id <> ?", true, true, exceptID).
		Count(&count).Error; err != nil {
		return utils.Internal("count super admins", err)
	}
	if count == 0 {
		return utils.InvalidOperation("Cannot delete or demote the last super admin")
	}
	return nil
}
