package models

import "time"

// Event types recorded in the analytics log.
const (
	EventDownload = "download"
	EventVisit    = "visit"
)

// AnalyticsEvent is an append-only fact used for time-windowed stats.
// Rows are never updated.
type AnalyticsEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnimeID   uint      `gorm:"not null;index" json:"anime_id"`
	Anime     Anime     `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string    `gorm:"size:16;not null;index" json:"type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics"
}
