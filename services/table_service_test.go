package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
)

func TestCreateTableDerivesQRCode(t *testing.T) {
	db := newTestDB(t)
	events := &recordingPublisher{}
	svc := NewTableService(db, events)
	createRestaurant(t, db, "lezzet")

	table, err := svc.Create(context.Background(), "lezzet", TableInput{TableNumber: "7"})
	require.NoError(t, err)
	assert.Equal(t, "TABLE007", table.QRCode)
	assert.True(t, table.IsActive)
	assert.Equal(t, 1, events.count(live.EventTableChanged))

	long, err := svc.Create(context.Background(), "lezzet", TableInput{TableNumber: "1234", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "TABLE1234", long.QRCode)
	assert.False(t, long.IsActive)
}

func TestCreateTableRejectsQRCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewTableService(db, nil)
	createRestaurant(t, db, "lezzet")
	createRestaurant(t, db, "deniz")
	ctx := context.Background()

	_, err := svc.Create(ctx, "lezzet", TableInput{TableNumber: "7"})
	require.NoError(t, err)

	// "007" and "7" derive the same code
	_, err = svc.Create(ctx, "lezzet", TableInput{TableNumber: "007"})
	requireKind(t, err, utils.KindInvalidOperation)
	assert.EqualError(t, err, "A table with QR code 'TABLE007' already exists")

	// another tenant may reuse it
	_, err = svc.Create(ctx, "deniz", TableInput{TableNumber: "7"})
	assert.NoError(t, err)
}

func TestUpdateTableRederivesQRCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewTableService(db, nil)
	r := createRestaurant(t, db, "lezzet")
	one := createTable(t, db, r.ID, "1", true)
	createTable(t, db, r.ID, "2", true)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "lezzet", one.ID, TableInput{TableNumber: "15", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "TABLE015", updated.QRCode)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, "lezzet", one.ID, TableInput{TableNumber: "2"})
	requireKind(t, err, utils.KindInvalidOperation)

	_, err = svc.Update(ctx, "other", one.ID, TableInput{TableNumber: "3"})
	requireKind(t, err, utils.KindNotFound)
}

func TestDeleteTableKeepsAccessLog(t *testing.T) {
	db := newTestDB(t)
	svc := NewTableService(db, nil)
	r := createRestaurant(t, db, "lezzet")
	table := createTable(t, db, r.ID, "1", true)
	access := models.QRCodeAccess{RestaurantID: r.ID, TableID: &table.ID, AccessTime: time.Now().UTC()}
	require.NoError(t, db.Create(&access).Error)

	require.NoError(t, svc.Delete(context.Background(), "lezzet", table.ID))

	var reloaded models.QRCodeAccess
	require.NoError(t, db.First(&reloaded, access.ID).Error)
	assert.Nil(t, reloaded.TableID)

	requireKind(t, svc.Delete(context.Background(), "lezzet", table.ID), utils.KindNotFound)
}

func TestListTables(t *testing.T) {
	db := newTestDB(t)
	svc := NewTableService(db, nil)
	r := createRestaurant(t, db, "lezzet")
	other := createRestaurant(t, db, "other")
	createTable(t, db, r.ID, "1", true)
	createTable(t, db, r.ID, "2", false)
	createTable(t, db, other.ID, "1", true)

	tables, err := svc.List(context.Background(), "lezzet")
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	_, err = svc.List(context.Background(), "nowhere")
	requireKind(t, err, utils.KindNotFound)
}
