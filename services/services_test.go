package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/database/dbtest"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordedEvent struct {
	restaurantID uint
	event        string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(restaurantID uint, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{restaurantID: restaurantID, event: event})
}

func (p *recordingPublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost
	return dbtest.New(t)
}

func newTestStore(t *testing.T) *storage.LocalImageStore {
	t.Helper()
	store, err := storage.NewLocalImageStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return store
}

// saveTestImage stores a tiny PNG and returns its public URL.
func saveTestImage(t *testing.T, store *storage.LocalImageStore) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	name, err := store.Save(context.Background(), &buf)
	require.NoError(t, err)
	return store.URL(name)
}

func createRestaurant(t *testing.T, db *gorm.DB, slug string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Name:     slug,
		Slug:     slug,
		Address:  "Istiklal Cd. 1",
		Phone:    "+902120000000",
		Email:    slug + "@example.com",
		IsActive: true,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func createCategory(t *testing.T, db *gorm.DB, restaurantID uint, name string, order int) models.Category {
	t.Helper()
	c := models.Category{RestaurantID: restaurantID, Name: name, DisplayOrder: order}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func createMenuItem(t *testing.T, db *gorm.DB, categoryID uint, name string, imageURL *string) models.MenuItem {
	t.Helper()
	m := models.MenuItem{CategoryID: categoryID, Name: name, Price: 10, ImageURL: imageURL, IsAvailable: true}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func createTable(t *testing.T, db *gorm.DB, restaurantID uint, number string, active bool) models.Table {
	t.Helper()
	tbl := models.Table{RestaurantID: restaurantID, TableNumber: number, QRCode: models.QRCodeFor(number), IsActive: active}
	require.NoError(t, db.Create(&tbl).Error)
	return tbl
}

func createUser(t *testing.T, db *gorm.DB, username string, restaurantID *uint, superAdmin bool) models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		RestaurantID: restaurantID,
		IsAdmin:      !superAdmin,
		IsSuperAdmin: superAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func superAdmin(id uint) auth.Identity {
	return auth.Identity{UserID: id, IsSuperAdmin: true}
}

func tenantAdmin(id, restaurantID uint) auth.Identity {
	rid := restaurantID
	return auth.Identity{UserID: id, IsAdmin: true, RestaurantID: &rid}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, utils.IsKind(err, kind), "unexpected error: %v", err)
}
