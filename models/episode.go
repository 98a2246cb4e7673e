package models

import (
	"time"
)

type Episode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnimeID   uint      `gorm:"not null;index;uniqueIndex:idx_episode_anime_number" json:"anime_id"`
	Anime     Anime     `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE" json:"-"`
	Number    int       `gorm:"not null;uniqueIndex:idx_episode_anime_number" json:"number"`
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (Episode) TableName() string {
	return "episodes"
}
