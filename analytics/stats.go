package analytics

import (
	"context"

	"gorm.io/gorm"
)

// Stats is the admin dashboard snapshot. Counters are lifetime sums
// from the animes table; the windowed counts come from the event log.
type Stats struct {
	TotalSeries    int `json:"total_series"`
	TotalDownloads int `json:"total_downloads"`
	DlToday        int `json:"dl_today"`
	DlWeek         int `json:"dl_week"`
	DlMonth        int `json:"dl_month"`
	TotalVisits    int `json:"total_visits"`
	VisitsToday    int `json:"visits_today"`
	VisitsWeek     int `json:"visits_week"`
}

// Snapshot recomputes every stat from current data. Nothing is cached;
// each call is a fresh point-in-time read.
func Snapshot(ctx context.Context, db *gorm.DB) (*Stats, error) {
	var s Stats
	err := db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM animes)::int AS total_series,

			(SELECT COALESCE(SUM(download_count), 0) FROM animes)::int AS total_downloads,
			(SELECT COUNT(*) FROM analytics WHERE type = 'download' AND created_at >= NOW() - INTERVAL '24 HOURS')::int AS dl_today,
			(SELECT COUNT(*) FROM analytics WHERE type = 'download' AND created_at >= NOW() - INTERVAL '7 DAYS')::int AS dl_week,
			(SELECT COUNT(*) FROM analytics WHERE type = 'download' AND created_at >= NOW() - INTERVAL '30 DAYS')::int AS dl_month,

			(SELECT COALESCE(SUM(visit_count), 0) FROM animes)::int AS total_visits,
			(SELECT COUNT(*) FROM analytics WHERE type = 'visit' AND created_at >= NOW() - INTERVAL '24 HOURS')::int AS visits_today,
			(SELECT COUNT(*) FROM analytics WHERE type = 'visit' AND created_at >= NOW() - INTERVAL '7 DAYS')::int AS visits_week
	`).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
