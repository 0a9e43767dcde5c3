package services

import (
	"context"

	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

type TableInput struct {
	TableNumber string `json:"table_number" binding:"required,max=50"`
	IsActive    *bool  `json:"is_active"`
}

type TableService struct {
	db     *gorm.DB
	events live.Publisher
}

func NewTableService(db *gorm.DB, events live.Publisher) *TableService {
	return &TableService{db: db, events: events}
}

// scopedTable finds a table only through its restaurant's slug.
func scopedTable(ctx context.Context, db *gorm.DB, slug string, id uint) (*models.Table, error) {
	var table models.Table
	err := db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = tables.restaurant_id").
		Where("tables.id = ? AND restaurants.slug = ?", id, slug).
		Take(&table).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NotFound("Table", id)
		}
		return nil, utils.Internal("load table", err)
	}
	return &table, nil
}

func (s *TableService) List(ctx context.Context, slug string) ([]models.Table, error) {
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	tables := []models.Table{}
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, utils.Internal("list tables", err)
	}
	return tables, nil
}

// Create provisions a table; its QR code is derived from the table number.
func (s *TableService) Create(ctx context.Context, slug string, in TableInput) (*models.Table, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	table := models.Table{
		RestaurantID: restaurant.ID,
		TableNumber:  in.TableNumber,
		QRCode:       models.QRCodeFor(in.TableNumber),
		IsActive:     true,
	}
	if in.IsActive != nil {
		table.IsActive = *in.IsActive
	}

	if err := s.ensureQRCodeFree(ctx, restaurant.ID, table.QRCode, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&table).Error; err != nil {
		if isDuplicate(err) {
			return nil, qrCodeTaken(table.QRCode)
		}
		return nil, utils.Internal("create table", err)
	}

	utils.InfoLogger.Printf("New table created: %s (%s) for %q", table.TableNumber, table.QRCode, slug)
	s.tableChanged(restaurant.ID, "table_created", table)
	return &table, nil
}

// Update changes the number and/or the active flag. A new number re-derives the QR code.
func (s *TableService) Update(ctx context.Context, slug string, id uint, in TableInput) (*models.Table, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, err
	}
	table, err := scopedTable(ctx, s.db, slug, id)
	if err != nil {
		return nil, err
	}

	if in.TableNumber != table.TableNumber {
		qrCode := models.QRCodeFor(in.TableNumber)
		if err := s.ensureQRCodeFree(ctx, table.RestaurantID, qrCode, table.ID); err != nil {
			return nil, err
		}
		table.TableNumber = in.TableNumber
		table.QRCode = qrCode
	}
	if in.IsActive != nil {
		table.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Save(table).Error; err != nil {
		if isDuplicate(err) {
			return nil, qrCodeTaken(table.QRCode)
		}
		return nil, utils.Internal("update table", err)
	}

	s.tableChanged(table.RestaurantID, "table_updated", *table)
	return table, nil
}

// Delete removes the table; its access log rows stay with a null table id.
func (s *TableService) Delete(ctx context.Context, slug string, id uint) error {
	table, err := scopedTable(ctx, s.db, slug, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QRCodeAccess{}).
			Where("table_id = ?", table.ID).
			Update("table_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(table).Error
	})
	if err != nil {
		return utils.Internal("delete table", err)
	}

	utils.InfoLogger.Printf("Table %d deleted from %q", table.ID, slug)
	s.tableChanged(table.RestaurantID, "table_deleted", *table)
	return nil
}

func (s *TableService) ensureQRCodeFree(ctx context.Context, restaurantID uint, qrCode string, exceptID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Table{}).Where("restaurant_id = ? AND qr_code = ?", restaurantID, qrCode)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return utils.Internal("check qr code", err)
	}
	if count > 0 {
		return qrCodeTaken(qrCode)
	}
	return nil
}

func qrCodeTaken(qrCode string) error {
	return utils.InvalidOperation("A table with QR code '%s' already exists", qrCode)
}

func (s *TableService) tableChanged(restaurantID uint, action string, table models.Table) {
	publish(s.events, restaurantID, live.EventTableChanged, map[string]interface{}{
		"action": action,
		"table":  table,
	})
}
