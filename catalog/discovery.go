package catalog

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/malemsana/aniclip-backend/models"
)

// Page sizes for the public listings.
const (
	trendingLimit = 20
	recentLimit   = 15
	featuredLimit = 5
	archiveLimit  = 18
	browseLimit   = 100
	searchLimit   = 10
)

// Trending returns the top series by the weighted popularity score
// visit_count + 5*download_count. Ties break on id so the order is
// deterministic.
func (s *Store) Trending(ctx context.Context) ([]models.Anime, error) {
	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Select("*, (visit_count + (download_count * 5)) AS score").
		Order("score DESC, id ASC").
		Limit(trendingLimit).
		Find(&animes).Error
	return animes, err
}

// Recent returns the most recently touched series. Any content-level
// mutation (upsert, bulk add, import) bumps updated_at.
func (s *Store) Recent(ctx context.Context) ([]models.Anime, error) {
	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Order("updated_at DESC").
		Limit(recentLimit).
		Find(&animes).Error
	return animes, err
}

// Featured returns up to five flagged series.
func (s *Store) Featured(ctx context.Context) ([]models.Anime, error) {
	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Where("is_featured = ?", true).
		Limit(featuredLimit).
		Find(&animes).Error
	return animes, err
}

// Archive pages through the whole catalog in a seeded-shuffle order:
// rows sort by md5(id || seed), so a given seed always produces the
// same ordering while different seeds shuffle differently. This keeps
// infinite-scroll pages stable without a per-session ordering table.
func (s *Store) Archive(ctx context.Context, page int, seed string) ([]models.Anime, error) {
	if page < 1 {
		page = 1
	}
	if seed == "" {
		seed = "default"
	}
	offset := (page - 1) * archiveLimit

	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "md5(id::text || ?) ASC",
			Vars:               []interface{}{seed},
			WithoutParentheses: true,
		}}).
		Limit(archiveLimit).
		Offset(offset).
		Find(&animes).Error
	return animes, err
}

// BrowseTag returns series whose genre list contains exactly tag,
// freshest first.
func (s *Store) BrowseTag(ctx context.Context, tag string) ([]models.Anime, error) {
	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Where("? = ANY(genres)", tag).
		Order("updated_at DESC").
		Limit(browseLimit).
		Find(&animes).Error
	return animes, err
}

// Search matches series whose title contains q (case-insensitive) or
// whose genre list contains q exactly. An empty query short-circuits to
// an empty result without a store round trip.
func (s *Store) Search(ctx context.Context, q string) ([]models.Anime, error) {
	if q == "" {
		return []models.Anime{}, nil
	}
	var animes []models.Anime
	err := s.DB.WithContext(ctx).
		Where("title ILIKE ? OR ? = ANY(genres)", "%"+q+"%", q).
		Order("id ASC").
		Limit(searchLimit).
		Find(&animes).Error
	return animes, err
}
