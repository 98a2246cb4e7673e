package models

import (
	"time"

	"github.com/lib/pq"
)

type Anime struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;uniqueIndex" json:"name"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	PosterURL     string         `json:"poster_url"`
	Genres        pq.StringArray `gorm:"type:text[]" json:"genres"`
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	DownloadCount int            `gorm:"not null;default:0" json:"download_count"`
	VisitCount    int            `gorm:"not null;default:0" json:"visit_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Score is filled by the trending query, not persisted.
	Score int `gorm:"->;-:migration" json:"score,omitempty"`
}

func (Anime) TableName() string {
	return "animes"
}
