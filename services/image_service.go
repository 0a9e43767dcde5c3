package services

import (
	"context"
	"io"

	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type UploadedImage struct {
	ImageURL string `json:"image_url"`
	FileName string `json:"file_name"`
}

type ImageService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewImageService(db *gorm.DB, images storage.ImageStore) *ImageService {
	return &ImageService{db: db, images: images}
}

func (s *ImageService) Upload(ctx context.Context, r io.Reader) (*UploadedImage, error) {
	name, err := s.images.Save(ctx, r)
	if err != nil {
		return nil, err
	}
	return &UploadedImage{ImageURL: s.images.URL(name), FileName: name}, nil
}

// Delete removes a stored image. Tenant admins may not delete a file that is
// still referenced by another restaurant's menu item.
func (s *ImageService) Delete(ctx context.Context, caller auth.Identity, name string) error {
	if !caller.IsSuperAdmin {
		owners, err := imageOwners(ctx, s.db, s.images.URL(name))
		if err != nil {
			return err
		}
		for _, rid := range owners {
			if !caller.CanAccessRestaurant(rid) {
				return utils.Forbidden("You do not have access to this image")
			}
		}
	}
	return s.images.Delete(ctx, name)
}

// imageOwners lists the restaurants whose menu items reference imageURL.
func imageOwners(ctx context.Context, db *gorm.DB, imageURL string) ([]uint, error) {
	var owners []uint
	err := db.WithContext(ctx).Model(&models.MenuItem{}).
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Where("menu_items.image_url = ?", imageURL).
		Pluck("categories.restaurant_id", &owners).Error
	if err != nil {
		return nil, utils.Internal("check image owner", err)
	}
	return owners, nil
}

// checkImageUse accepts imageURL for a menu item of restaurantID only when it
// names a file of the store and no other restaurant's item uses it.
func checkImageUse(ctx context.Context, db *gorm.DB, store storage.ImageStore, restaurantID uint, imageURL *string) error {
	if imageURL == nil {
		return nil
	}
	if store != nil {
		if _, ok := store.NameFromURL(*imageURL); !ok {
			return utils.Validation("One or more validation errors occurred", "image_url must be an uploaded image")
		}
	}
	owners, err := imageOwners(ctx, db, *imageURL)
	if err != nil {
		return err
	}
	for _, rid := range owners {
		if rid != restaurantID {
			return utils.Forbidden("You do not have access to this image")
		}
	}
	return nil
}

// releaseImages removes the files behind imageURLs that no menu item
// references any more. Call it after the referencing rows are gone.
func releaseImages(ctx context.Context, db *gorm.DB, store storage.ImageStore, imageURLs ...string) {
	if store == nil {
		return
	}
	for _, u := range imageURLs {
		var count int64
		if err := db.WithContext(ctx).Model(&models.MenuItem{}).Where("image_url = ?", u).Count(&count).Error; err != nil {
			utils.ErrorLogger.Errorf("failed to count references of image %s: %v", u, err)
			continue
		}
		if count == 0 {
			storage.RemoveImages(ctx, store, u)
		}
	}
}
