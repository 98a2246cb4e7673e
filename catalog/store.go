// Package catalog implements the content-catalog core: series/episode
// upserts, the bulk ingestion pipeline, and the discovery queries. All
// state lives in Postgres; the Store is constructed once at process
// start and shared by every handler.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/malemsana/aniclip-backend/models"
	"github.com/malemsana/aniclip-backend/validate"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// UpsertSeriesInput carries the admin upsert payload. Only Name is
// required; Title falls back to the slug itself.
type UpsertSeriesInput struct {
	Name        string
	Title       string
	Description string
	PosterURL   string
	Genres      []string
	IsFeatured  bool
}

// UpsertSeries inserts or updates a series keyed on its slug. On
// conflict every supplied field overwrites the stored value and the
// genre list is replaced wholesale. updated_at is always bumped so the
// series surfaces in the recent listing.
func (s *Store) UpsertSeries(ctx context.Context, in UpsertSeriesInput) (*models.Anime, error) {
	if !validate.AnimeName(in.Name) {
		return nil, &ValidationError{Field: "name", Reason: "slug must be lowercase alphanumeric, underscores or hyphens"}
	}

	title := in.Title
	if title == "" {
		title = in.Name
	}
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}

	anime := models.Anime{
		Name:        in.Name,
		Title:       title,
		Description: in.Description,
		PosterURL:   in.PosterURL,
		Genres:      pq.StringArray(genres),
		IsFeatured:  in.IsFeatured,
		UpdatedAt:   time.Now(),
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "poster_url", "genres", "is_featured", "updated_at",
		}),
	}).Create(&anime).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller gets the stored row, counters included.
	var stored models.Anime
	if err := s.DB.WithContext(ctx).First(&stored, "name = ?", in.Name).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpsertEpisode inserts or updates an episode keyed on (anime_id,
// number). On conflict only the title is overwritten. The returned row
// carries the episode id for chaining into clip inserts.
func (s *Store) UpsertEpisode(ctx context.Context, animeID uint, number int, title string) (*models.Episode, error) {
	episode := models.Episode{
		AnimeID: animeID,
		Number:  number,
		Title:   title,
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "anime_id"}, {Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title"}),
	}).Create(&episode).Error
	if err != nil {
		return nil, err
	}

	var stored models.Episode
	err = s.DB.WithContext(ctx).
		First(&stored, "anime_id = ? AND number = ?", animeID, number).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteSeries removes a series by id. Episodes, clips and analytics
// events follow via ON DELETE CASCADE. Missing ids are a no-op.
func (s *Store) DeleteSeries(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Anime{}, id).Error
}

func (s *Store) DeleteEpisode(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Episode{}, id).Error
}

func (s *Store) DeleteClip(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Clip{}, id).Error
}

// UpdateClipInput is a partial patch: nil fields keep their stored value.
type UpdateClipInput struct {
	VideoURL   *string
	PreviewURL *string
	ThumbURL   *string
	ClipName   *string
	EndTime    *float64
}

// UpdateClip applies a partial update to a single clip and returns the
// resulting row. A patched end offset is checked against the stored
// start offset so a patch cannot produce an inverted window.
func (s *Store) UpdateClip(ctx context.Context, id uint, in UpdateClipInput) (*models.Clip, error) {
	var current models.Clip
	if err := s.DB.WithContext(ctx).First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "clip", Key: itoa(id)}
		}
		return nil, err
	}

	if in.EndTime != nil {
		end := *in.EndTime
		// All-zero offsets stay allowed as the placeholder window.
		if (current.StartTime != 0 || end != 0) && !validate.ClipTiming(current.StartTime, end) {
			return nil, &ValidationError{
				Field:  "end_time",
				Reason: fmt.Sprintf("bad timing %.2f-%.2f", current.StartTime, end),
			}
		}
	}

	updates := map[string]interface{}{}
	if in.VideoURL != nil {
		updates["video_url"] = *in.VideoURL
	}
	if in.PreviewURL != nil {
		updates["preview_url"] = *in.PreviewURL
	}
	if in.ThumbURL != nil {
		updates["thumb_url"] = *in.ThumbURL
	}
	if in.ClipName != nil {
		updates["clip_name"] = *in.ClipName
	}
	if in.EndTime != nil {
		updates["end_time"] = *in.EndTime
	}

	if len(updates) > 0 {
		err := s.DB.WithContext(ctx).Model(&models.Clip{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	var clip models.Clip
	if err := s.DB.WithContext(ctx).First(&clip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "clip", Key: itoa(id)}
		}
		return nil, err
	}
	return &clip, nil
}

// SeriesByName looks up a single series by slug.
func (s *Store) SeriesByName(ctx context.Context, name string) (*models.Anime, error) {
	var anime models.Anime
	err := s.DB.WithContext(ctx).First(&anime, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "anime", Key: name}
		}
		return nil, err
	}
	return &anime, nil
}

// ListSeries returns up to limit series, newest created first.
func (s *Store) ListSeries(ctx context.Context, limit int) ([]models.Anime, error) {
	if limit <= 0 {
		limit = 100
	}
	var animes []models.Anime
	err := s.DB.WithContext(ctx).Order("id DESC").Limit(limit).Find(&animes).Error
	return animes, err
}

// EpisodesBySeries returns a series' episodes ordered by number.
func (s *Store) EpisodesBySeries(ctx context.Context, name string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := s.DB.WithContext(ctx).
		Joins("JOIN animes ON animes.id = episodes.anime_id").
		Where("animes.name = ?", name).
		Order("episodes.number ASC").
		Find(&episodes).Error
	return episodes, err
}

// ClipsByEpisode returns an episode's clips ordered by start offset.
// Storage does not preserve insertion order, so start_time is the only
// stable sort.
func (s *Store) ClipsByEpisode(ctx context.Context, name string, number int) ([]models.Clip, error) {
	var clips []models.Clip
	err := s.DB.WithContext(ctx).
		Joins("JOIN episodes ON episodes.id = clips.episode_id").
		Joins("JOIN animes ON animes.id = episodes.anime_id").
		Where("animes.name = ? AND episodes.number = ?", name, number).
		Order("clips.start_time ASC").
		Find(&clips).Error
	return clips, err
}
