package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/utils"
)

// Import sheet columns, first row is a header:
// Category (name or id) | Name | Price | Description | Display order | Available
const (
	colCategory = iota
	colName
	colPrice
	colDescription
	colDisplayOrder
	colAvailable
)

type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Skipped []ImportRowError `json:"skipped"`
}

// ImportMenuItems creates menu items from the first sheet of an xlsx workbook.
// Rows that cannot be used are reported and skipped; the valid ones are
// inserted together.
func (s *MenuService) ImportMenuItems(ctx context.Context, slug string, r io.Reader) (*ImportResult, error) {
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, utils.Validation("Failed to parse Excel file")
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, utils.Validation("Excel file has no sheets")
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil || len(rows) < 2 {
		return nil, utils.Validation("Excel must have at least one row of data")
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Find(&categories).Error; err != nil {
		return nil, utils.Internal("list categories", err)
	}
	byName := make(map[string]uint, len(categories))
	byID := make(map[uint]bool, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
		byID[c.ID] = true
	}

	result := &ImportResult{Skipped: []ImportRowError{}}
	var items []models.MenuItem

	for i, row := range rows[1:] {
		rowNumber := i + 2
		if isBlankRow(row) {
			continue
		}

		item, reason := parseImportRow(row, byName, byID)
		if reason != "" {
			result.Skipped = append(result.Skipped, ImportRowError{Row: rowNumber, Reason: reason})
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		details := make([]string, 0, len(result.Skipped))
		for _, sk := range result.Skipped {
			details = append(details, fmt.Sprintf("row %d: %s", sk.Row, sk.Reason))
		}
		return nil, utils.Validation("No valid rows found", details...)
	}

	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, utils.Internal("import menu items", err)
	}
	result.Created = len(items)

	utils.InfoLogger.Printf("Imported %d menu items into %q (%d rows skipped)", result.Created, slug, len(result.Skipped))
	s.menuChanged(restaurant.ID, "menu_items_imported", 0)
	return result, nil
}

func parseImportRow(row []string, byName map[string]uint, byID map[uint]bool) (models.MenuItem, string) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var item models.MenuItem

	category := cell(colCategory)
	if id, err := strconv.ParseUint(category, 10, 64); err == nil && byID[uint(id)] {
		item.CategoryID = uint(id)
	} else if id, ok := byName[strings.ToLower(category)]; ok {
		item.CategoryID = id
	} else {
		return item, fmt.Sprintf("unknown category %q", category)
	}

	item.Name = cell(colName)
	if item.Name == "" {
		return item, "name is required"
	}
	if len([]rune(item.Name)) > 100 {
		return item, "name must be at most 100 characters"
	}

	price, err := models.ParsePrice(strings.ReplaceAll(cell(colPrice), ",", "."))
	if err != nil || price <= 0 {
		return item, fmt.Sprintf("invalid price %q", cell(colPrice))
	}
	item.Price = price

	item.Description = cell(colDescription)
	if len([]rune(item.Description)) > 1000 {
		return item, "description must be at most 1000 characters"
	}

	if v := cell(colDisplayOrder); v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			return item, fmt.Sprintf("invalid display order %q", v)
		}
		item.DisplayOrder = order
	}

	item.IsAvailable = true
	if v := cell(colAvailable); v != "" {
		available, err := parseYesNo(v)
		if err != nil {
			return item, err.Error()
		}
		item.IsAvailable = available
	}
	return item, ""
}

func parseYesNo(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid availability %q", v)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
