// Package reports renders access statistics for download.
package reports

import (
	"fmt"
	"time"

	"github.com/yeremiapane/qrmenu/models"
)

type AccessReport struct {
	RestaurantName string
	RestaurantSlug string
	Start          time.Time
	End            time.Time
	TableID        *uint
	Daily          []models.DailyAccessCount
	Hourly         []models.HourlyAccessCount
	Total          int64
	GeneratedAt    time.Time
}

func (r *AccessReport) Period() string {
	return fmt.Sprintf("%s - %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

func (r *AccessReport) TableLabel() string {
	if r.TableID == nil {
		return "All tables"
	}
	return fmt.Sprintf("Table #%d", *r.TableID)
}

// FileName is the download name without extension.
func (r *AccessReport) FileName() string {
	return fmt.Sprintf("%s-access-%s_%s", r.RestaurantSlug, r.Start.Format("20060102"), r.End.Format("20060102"))
}
