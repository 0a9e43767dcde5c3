package services

import (
	"context"
	"time"

	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type LoginInput struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword    string `json:"current_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required,eqfield=NewPassword"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      models.UserView `json:"user"`
}

type AuthService struct {
	db    *gorm.DB
	users *UserService
}

func NewAuthService(db *gorm.DB, users *UserService) *AuthService {
	return &AuthService{db: db, users: users}
}

// Login accepts a username or an email. Inactive users cannot sign in.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("(username = ? OR email = ?) AND is_active = ?", in.UsernameOrEmail, in.UsernameOrEmail, true).
		Take(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.Unauthenticated("Invalid username or password")
		}
		return nil, utils.Internal("load user", err)
	}
	if !utils.CheckPassword(user.PasswordHash, in.Password) {
		return nil, utils.Unauthenticated("Invalid username or password")
	}

	view, err := s.users.view(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := utils.GenerateToken(utils.TokenSubject{
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		IsSuperAdmin:   user.IsSuperAdmin,
		RestaurantID:   user.RestaurantID,
		RestaurantSlug: view.RestaurantSlug,
	})
	if err != nil {
		return nil, utils.Internal("sign token", err)
	}

	utils.InfoLogger.Printf("User %q logged in", user.Username)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *view}, nil
}

// Me returns the caller's own record; deactivated accounts are reported as missing.
func (s *AuthService) Me(ctx context.Context, caller auth.Identity) (*models.UserView, error) {
	user, err := s.users.find(ctx, s.db, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, utils.NotFound("User", caller.UserID)
	}
	return s.users.view(ctx, *user)
}

func (s *AuthService) ChangePassword(ctx context.Context, caller auth.Identity, in ChangePasswordInput) error {
	if err := utils.ValidateStruct(&in); err != nil {
		return err
	}

	user, err := s.users.find(ctx, s.db, caller.UserID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return utils.NotFound("User", caller.UserID)
	}
	if !utils.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return utils.Validation("Current password is incorrect")
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return utils.Internal("hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return utils.Internal("update password", err)
	}
	utils.InfoLogger.Printf("User %d changed their password", user.ID)
	return nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(caller auth.Identity) {
	utils.BlacklistToken(caller.TokenID, caller.ExpiresAt)
}
