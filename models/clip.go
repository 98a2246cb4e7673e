package models

import (
	"time"
)

type Clip struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EpisodeID  uint      `gorm:"not null;index" json:"episode_id"`
	Episode    Episode   `gorm:"foreignKey:EpisodeID;constraint:OnDelete:CASCADE" json:"-"`
	VideoURL   string    `json:"video_url"`
	PreviewURL string    `json:"preview_url"`
	ThumbURL   string    `json:"thumb_url"`
	ClipName   string    `gorm:"size:255" json:"clip_name"`
	StartTime  float64   `gorm:"not null;default:0" json:"start_time"`
	EndTime    float64   `gorm:"not null;default:0" json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Clip) TableName() string {
	return "clips"
}
