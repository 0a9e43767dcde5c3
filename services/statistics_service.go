package services

import (
	"context"
	"sort"
	"time"

	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/reports"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type StatisticsService struct {
	db       *gorm.DB
	resolver auth.SlugResolver
}

func NewStatisticsService(db *gorm.DB, resolver auth.SlugResolver) *StatisticsService {
	return &StatisticsService{db: db, resolver: resolver}
}

// DailyAccess counts views per UTC calendar day in [start, end+1 day).
// Days without views are left out. An unknown slug yields an empty list.
func (s *StatisticsService) DailyAccess(ctx context.Context, slug string, start, end time.Time, tableID *uint) ([]models.DailyAccessCount, error) {
	restaurantID, ok, err := s.resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.DailyAccessCount{}, nil
	}
	return s.daily(ctx, restaurantID, start, end.AddDate(0, 0, 1), tableID)
}

// HourlyAccess counts views per UTC hour of a single day. All 24 hours are returned.
func (s *StatisticsService) HourlyAccess(ctx context.Context, slug string, date time.Time, tableID *uint) (*models.HourlyAccessStats, error) {
	day := truncateDay(date)
	stats := &models.HourlyAccessStats{Date: day.Format(dateLayout)}

	restaurantID, ok, err := s.resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ok {
		stats.Hours = denseHours(nil)
		return stats, nil
	}

	hours, err := s.hourly(ctx, restaurantID, day, day.AddDate(0, 0, 1), tableID)
	if err != nil {
		return nil, err
	}
	stats.Hours = hours
	return stats, nil
}

// BuildReport gathers both aggregations over [start, end+1 day) for export.
func (s *StatisticsService) BuildReport(ctx context.Context, slug string, start, end time.Time, tableID *uint) (*reports.AccessReport, error) {
	restaurant, err := restaurantBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	upper := end.AddDate(0, 0, 1)
	daily, err := s.daily(ctx, restaurant.ID, start, upper, tableID)
	if err != nil {
		return nil, err
	}
	hourly, err := s.hourly(ctx, restaurant.ID, start, upper, tableID)
	if err != nil {
		return nil, err
	}

	report := &reports.AccessReport{
		RestaurantName: restaurant.Name,
		RestaurantSlug: restaurant.Slug,
		Start:          start,
		End:            end,
		TableID:        tableID,
		Daily:          daily,
		Hourly:         hourly,
		GeneratedAt:    time.Now().UTC(),
	}
	for _, d := range daily {
		report.Total += d.TotalAccesses
	}
	return report, nil
}

func (s *StatisticsService) resolve(ctx context.Context, slug string) (uint, bool, error) {
	id, err := s.resolver.ResolveRestaurantID(ctx, slug)
	if err != nil {
		if utils.IsKind(err, utils.KindNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// accessTimes loads the raw timestamps; bucketing happens in Go so the same
// code works on every supported dialect.
func (s *StatisticsService) accessTimes(ctx context.Context, restaurantID uint, from, to time.Time, tableID *uint) ([]time.Time, error) {
	q := s.db.WithContext(ctx).Model(&models.QRCodeAccess{}).
		Where("restaurant_id = ? AND access_time >= ? AND access_time < ?", restaurantID, from.UTC(), to.UTC())
	if tableID != nil {
		q = q.Where("table_id = ?", *tableID)
	}

	var times []time.Time
	if err := q.Pluck("access_time", &times).Error; err != nil {
		return nil, utils.Internal("load access log", err)
	}
	return times, nil
}

func (s *StatisticsService) daily(ctx context.Context, restaurantID uint, from, to time.Time, tableID *uint) ([]models.DailyAccessCount, error) {
	times, err := s.accessTimes(ctx, restaurantID, from, to, tableID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, t := range times {
		counts[t.UTC().Format(dateLayout)]++
	}

	out := make([]models.DailyAccessCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, models.DailyAccessCount{Date: date, TotalAccesses: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *StatisticsService) hourly(ctx context.Context, restaurantID uint, from, to time.Time, tableID *uint) ([]models.HourlyAccessCount, error) {
	times, err := s.accessTimes(ctx, restaurantID, from, to, tableID)
	if err != nil {
		return nil, err
	}

	var counts [24]int64
	for _, t := range times {
		counts[t.UTC().Hour()]++
	}
	return denseHours(counts[:]), nil
}

func denseHours(counts []int64) []models.HourlyAccessCount {
	out := make([]models.HourlyAccessCount, 24)
	for h := range out {
		out[h].Hour = h
		if h < len(counts) {
			out[h].Count = counts[h]
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
