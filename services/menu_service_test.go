package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
)

func TestPublicMenuRecordsAccess(t *testing.T) {
	db := newTestDB(t)
	events := &recordingPublisher{}
	svc := NewMenuService(db, nil, events)
	fixed := time.Date(2024, 1, 1, 14, 5, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	r := createRestaurant(t, db, "lezzet")
	drinks := createCategory(t, db, r.ID, "Drinks", 2)
	mains := createCategory(t, db, r.ID, "Mains", 1)
	createCategory(t, db, r.ID, "Empty", 3)
	createMenuItem(t, db, mains.ID, "Kebab", nil)
	createMenuItem(t, db, drinks.ID, "Ayran", nil)
	table := createTable(t, db, r.ID, "1", true)

	menu, err := svc.PublicMenu(context.Background(), "lezzet", "TABLE001")
	require.NoError(t, err)
	require.Len(t, menu.Categories, 3)
	assert.Equal(t, "Mains", menu.Categories[0].Name)
	assert.Equal(t, "Kebab", menu.Categories[0].MenuItems[0].Name)
	assert.Equal(t, "Drinks", menu.Categories[1].Name)
	assert.NotNil(t, menu.Categories[2].MenuItems)
	assert.Empty(t, menu.Categories[2].MenuItems)
	if assert.NotNil(t, menu.Table) {
		assert.Equal(t, table.ID, menu.Table.ID)
	}

	var accesses []models.QRCodeAccess
	require.NoError(t, db.Find(&accesses).Error)
	require.Len(t, accesses, 1)
	assert.Equal(t, r.ID, accesses[0].RestaurantID)
	assert.Equal(t, table.ID, *accesses[0].TableID)
	assert.True(t, fixed.Equal(accesses[0].AccessTime))
	assert.Equal(t, 1, events.count(live.EventMenuView))
}

func TestPublicMenuHidesInactiveAndUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, nil, nil)
	ctx := context.Background()

	open := createRestaurant(t, db, "open")
	createTable(t, db, open.ID, "1", true)
	createTable(t, db, open.ID, "2", false)
	closed := createRestaurant(t, db, "closed")
	createTable(t, db, closed.ID, "1", true)
	require.NoError(t, db.Model(&closed).Update("is_active", false).Error)

	_, err := svc.PublicMenu(ctx, "open", "TABLE002")
	requireKind(t, err, utils.KindNotFound)
	_, err = svc.PublicMenu(ctx, "open", "TABLE999")
	requireKind(t, err, utils.KindNotFound)
	_, err = svc.PublicMenu(ctx, "closed", "TABLE001")
	requireKind(t, err, utils.KindNotFound)
	_, err = svc.PublicMenu(ctx, "nowhere", "TABLE001")
	requireKind(t, err, utils.KindNotFound)

	var count int64
	require.NoError(t, db.Model(&models.QRCodeAccess{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminMenuDoesNotRecordAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, nil, nil)
	r := createRestaurant(t, db, "lezzet")
	createCategory(t, db, r.ID, "Mains", 1)

	menu, err := svc.AdminMenu(context.Background(), "lezzet")
	require.NoError(t, err)
	assert.Len(t, menu.Categories, 1)
	assert.Nil(t, menu.Table)

	var count int64
	require.NoError(t, db.Model(&models.QRCodeAccess{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMenuEntitiesAreScopedBySlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, nil, nil)
	ctx := context.Background()

	mine := createRestaurant(t, db, "mine")
	theirs := createRestaurant(t, db, "theirs")
	myCat := createCategory(t, db, mine.ID, "Mine", 1)
	theirCat := createCategory(t, db, theirs.ID, "Theirs", 1)
	theirItem := createMenuItem(t, db, theirCat.ID, "Secret", nil)

	_, err := svc.UpdateCategory(ctx, "mine", theirCat.ID, CategoryInput{Name: "Hijacked"})
	requireKind(t, err, utils.KindNotFound)
	requireKind(t, svc.DeleteCategory(ctx, "mine", theirCat.ID), utils.KindNotFound)

	_, err = svc.UpdateMenuItem(ctx, "mine", theirItem.ID, MenuItemInput{Name: "Hijacked", Price: 1})
	requireKind(t, err, utils.KindNotFound)
	requireKind(t, svc.DeleteMenuItem(ctx, "mine", theirItem.ID), utils.KindNotFound)

	_, err = svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: theirCat.ID, Name: "Sneaky", Price: 1})
	requireKind(t, err, utils.KindNotFound)

	_, err = svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: myCat.ID, Name: "Fine", Price: 1})
	require.NoError(t, err)

	var reloaded models.MenuItem
	require.NoError(t, db.First(&reloaded, theirItem.ID).Error)
	assert.Equal(t, "Secret", reloaded.Name)
}

func TestCreateMenuItem(t *testing.T) {
	db := newTestDB(t)
	events := &recordingPublisher{}
	svc := NewMenuService(db, nil, events)
	r := createRestaurant(t, db, "lezzet")
	cat := createCategory(t, db, r.ID, "Mains", 1)

	item, err := svc.CreateMenuItem(context.Background(), "lezzet", MenuItemInput{
		CategoryID: cat.ID,
		Name:       "Kebab",
		Price:      models.PriceFromFloat(12.499),
		ImageURL:   strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, models.Price(1250), item.Price)
	assert.True(t, item.IsAvailable)
	assert.Nil(t, item.ImageURL)
	assert.Equal(t, 1, events.count(live.EventMenuChanged))

	_, err = svc.CreateMenuItem(context.Background(), "lezzet", MenuItemInput{CategoryID: cat.ID, Name: "Free", Price: 0})
	requireKind(t, err, utils.KindValidation)

	_, err = svc.CreateMenuItem(context.Background(), "lezzet", MenuItemInput{Name: "Orphan", Price: 1})
	requireKind(t, err, utils.KindValidation)
}

func TestUpdateMenuItemCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, nil, nil)
	ctx := context.Background()

	r := createRestaurant(t, db, "lezzet")
	other := createRestaurant(t, db, "other")
	mains := createCategory(t, db, r.ID, "Mains", 1)
	desserts := createCategory(t, db, r.ID, "Desserts", 2)
	foreign := createCategory(t, db, other.ID, "Foreign", 1)
	item := createMenuItem(t, db, mains.ID, "Baklava", nil)

	// zero keeps the current category
	updated, err := svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{Name: "Baklava", Price: 5, IsAvailable: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, mains.ID, updated.CategoryID)
	assert.False(t, updated.IsAvailable)

	updated, err = svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{CategoryID: desserts.ID, Name: "Baklava", Price: 5})
	require.NoError(t, err)
	assert.Equal(t, desserts.ID, updated.CategoryID)

	// a category of another restaurant or a missing one is rejected, not ignored
	_, err = svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{CategoryID: foreign.ID, Name: "Baklava", Price: 5})
	requireKind(t, err, utils.KindNotFound)
	_, err = svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{CategoryID: 9999, Name: "Baklava", Price: 5})
	requireKind(t, err, utils.KindNotFound)

	var reloaded models.MenuItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, desserts.ID, reloaded.CategoryID)
}

func TestMenuItemImageLifecycle(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewMenuService(db, store, nil)
	ctx := context.Background()

	r := createRestaurant(t, db, "lezzet")
	cat := createCategory(t, db, r.ID, "Mains", 1)
	first := saveTestImage(t, store)
	second := saveTestImage(t, store)
	firstName, _ := store.NameFromURL(first)
	secondName, _ := store.NameFromURL(second)

	item, err := svc.CreateMenuItem(ctx, "lezzet", MenuItemInput{CategoryID: cat.ID, Name: "Kebab", Price: 10, ImageURL: &first})
	require.NoError(t, err)

	_, err = svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{Name: "Kebab", Price: 10, ImageURL: &second})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(store.Dir(), firstName))
	assert.FileExists(t, filepath.Join(store.Dir(), secondName))

	// unchanged image stays
	_, err = svc.UpdateMenuItem(ctx, "lezzet", item.ID, MenuItemInput{Name: "Kebab", Price: 11, ImageURL: &second})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(store.Dir(), secondName))

	require.NoError(t, svc.DeleteMenuItem(ctx, "lezzet", item.ID))
	assert.NoFileExists(t, filepath.Join(store.Dir(), secondName))
}

func TestDeleteCategoryRemovesItemsAndImages(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewMenuService(db, store, nil)

	r := createRestaurant(t, db, "lezzet")
	cat := createCategory(t, db, r.ID, "Mains", 1)
	img := saveTestImage(t, store)
	name, _ := store.NameFromURL(img)
	createMenuItem(t, db, cat.ID, "Kebab", &img)
	createMenuItem(t, db, cat.ID, "Pide", nil)

	require.NoError(t, svc.DeleteCategory(context.Background(), "lezzet", cat.ID))

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Where("category_id = ?", cat.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoFileExists(t, filepath.Join(store.Dir(), name))
}

func TestCategoryCreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, nil, nil)
	createRestaurant(t, db, "lezzet")

	cat, err := svc.CreateCategory(context.Background(), "lezzet", CategoryInput{Name: "Soups", DisplayOrder: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, cat.DisplayOrder)

	cat, err = svc.UpdateCategory(context.Background(), "lezzet", cat.ID, CategoryInput{Name: "Hot soups", Description: "Daily", DisplayOrder: 1})
	require.NoError(t, err)
	assert.Equal(t, "Hot soups", cat.Name)

	_, err = svc.CreateCategory(context.Background(), "lezzet", CategoryInput{})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.CreateCategory(context.Background(), "nowhere", CategoryInput{Name: "X"})
	requireKind(t, err, utils.KindNotFound)
}

func TestMenuItemCannotClaimAnotherRestaurantsImage(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewMenuService(db, store, nil)
	ctx := context.Background()

	mine := createRestaurant(t, db, "mine")
	theirs := createRestaurant(t, db, "theirs")
	myCat := createCategory(t, db, mine.ID, "Mains", 1)
	theirCat := createCategory(t, db, theirs.ID, "Mains", 1)
	theirImage := saveTestImage(t, store)
	theirName, _ := store.NameFromURL(theirImage)
	createMenuItem(t, db, theirCat.ID, "Kebab", &theirImage)

	_, err := svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: myCat.ID, Name: "Copy", Price: 10, ImageURL: &theirImage})
	requireKind(t, err, utils.KindForbidden)

	item, err := svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: myCat.ID, Name: "Pide", Price: 10})
	require.NoError(t, err)
	_, err = svc.UpdateMenuItem(ctx, "mine", item.ID, MenuItemInput{Name: "Pide", Price: 10, ImageURL: &theirImage})
	requireKind(t, err, utils.KindForbidden)

	// only files served by the store are accepted
	_, err = svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: myCat.ID, Name: "Remote", Price: 10, ImageURL: strPtr("https://example.com/a.png")})
	requireKind(t, err, utils.KindValidation)
	_, err = svc.CreateMenuItem(ctx, "mine", MenuItemInput{CategoryID: myCat.ID, Name: "Nested", Price: 10, ImageURL: strPtr("/images/../secret.png")})
	requireKind(t, err, utils.KindValidation)

	require.NoError(t, svc.DeleteMenuItem(ctx, "mine", item.ID))
	assert.FileExists(t, filepath.Join(store.Dir(), theirName))
}

func TestSharedImageSurvivesUntilLastItem(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewMenuService(db, store, nil)
	ctx := context.Background()

	r := createRestaurant(t, db, "lezzet")
	mains := createCategory(t, db, r.ID, "Mains", 1)
	drinks := createCategory(t, db, r.ID, "Drinks", 2)
	shared := saveTestImage(t, store)
	name, _ := store.NameFromURL(shared)
	path := filepath.Join(store.Dir(), name)

	a, err := svc.CreateMenuItem(ctx, "lezzet", MenuItemInput{CategoryID: mains.ID, Name: "Kebab", Price: 10, ImageURL: &shared})
	require.NoError(t, err)
	b, err := svc.CreateMenuItem(ctx, "lezzet", MenuItemInput{CategoryID: mains.ID, Name: "Pide", Price: 10, ImageURL: &shared})
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, "lezzet", MenuItemInput{CategoryID: drinks.ID, Name: "Ayran", Price: 3, ImageURL: &shared})
	require.NoError(t, err)

	_, err = svc.UpdateMenuItem(ctx, "lezzet", a.ID, MenuItemInput{Name: "Kebab", Price: 10})
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, svc.DeleteMenuItem(ctx, "lezzet", b.ID))
	assert.FileExists(t, path)

	require.NoError(t, svc.DeleteCategory(ctx, "lezzet", drinks.ID))
	assert.NoFileExists(t, path)
}
