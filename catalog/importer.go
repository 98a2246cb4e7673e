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

// ClipInput is one clip in a bulk-add batch. Optional fields default to
// empty strings and zero offsets.
type ClipInput struct {
	VideoURL   string  `json:"video_url"`
	PreviewURL string  `json:"preview_url"`
	ThumbURL   string  `json:"thumb_url"`
	ClipName   string  `json:"clip_name"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// BulkAddClips appends a batch of clips to one episode of an existing
// series. The series must already exist; the episode is created on the
// fly with a placeholder title when missing. Clips are appended, never
// replaced, so repeating a batch doubles the clip count. The whole
// batch runs in one transaction.
func (s *Store) BulkAddClips(ctx context.Context, slug string, episodeNumber int, clips []ClipInput) (int, error) {
	for i, c := range clips {
		// All-zero offsets are the documented placeholder; anything
		// else must be a well-formed window.
		if (c.StartTime != 0 || c.EndTime != 0) && !validate.ClipTiming(c.StartTime, c.EndTime) {
			return 0, &ValidationError{
				Field:  fmt.Sprintf("clips[%d]", i),
				Reason: fmt.Sprintf("bad timing %.2f-%.2f", c.StartTime, c.EndTime),
			}
		}
		if c.VideoURL != "" && !validate.URL(c.VideoURL) {
			return 0, &ValidationError{
				Field:  fmt.Sprintf("clips[%d].video_url", i),
				Reason: "must be an absolute http(s) URL",
			}
		}
	}

	inserted := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var anime models.Anime
		if err := tx.First(&anime, "name = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "anime", Key: slug}
			}
			return err
		}

		// New clips count as fresh content.
		err := tx.Model(&models.Anime{}).
			Where("id = ?", anime.ID).
			Update("updated_at", time.Now()).Error
		if err != nil {
			return err
		}

		episodeID, err := getOrCreateEpisode(tx, anime.ID, episodeNumber)
		if err != nil {
			return err
		}

		for _, c := range clips {
			name := c.ClipName
			if name == "" {
				name = "Clip"
			}
			clip := models.Clip{
				EpisodeID:  episodeID,
				VideoURL:   c.VideoURL,
				PreviewURL: c.PreviewURL,
				ThumbURL:   c.ThumbURL,
				ClipName:   name,
				StartTime:  c.StartTime,
				EndTime:    c.EndTime,
			}
			if err := tx.Create(&clip).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// SeasonClip is one clip in an importer feed. The importer models clips
// as duration-only: stored offsets are start=0, end=duration.
type SeasonClip struct {
	VideoURL   string  `json:"video_url"`
	PreviewURL string  `json:"preview_url"`
	ThumbURL   string  `json:"thumb_url"`
	Name       string  `json:"original_clip_name"`
	Duration   float64 `json:"duration"`
}

// SeasonEpisode is one episode descriptor in an importer feed.
type SeasonEpisode struct {
	Number int          `json:"episode_num"`
	Title  string       `json:"episode_title"`
	Clips  []SeasonClip `json:"clips"`
}

// ImportResult summarizes a season import.
type ImportResult struct {
	AnimeID  uint
	Episodes int
	Clips    int
}

// ImportSeason ingests a whole season feed: the series is upserted by
// slug, each episode is upserted by (series, number) with its title
// unconditionally overwritten, and each episode's clip set is deleted
// and rewritten from the feed. Replacing rather than appending makes
// re-running the importer idempotent. The entire season is one
// transaction; any failure rolls the whole import back.
func (s *Store) ImportSeason(ctx context.Context, slug, title string, episodes []SeasonEpisode) (ImportResult, error) {
	var res ImportResult

	if !validate.AnimeName(slug) {
		return res, &ValidationError{Field: "anime_slug", Reason: "slug must be lowercase alphanumeric, underscores or hyphens"}
	}
	for _, ep := range episodes {
		for i, c := range ep.Clips {
			if c.Duration != 0 && !validate.ClipTiming(0, c.Duration) {
				return res, &ValidationError{
					Field:  fmt.Sprintf("episode %d clips[%d]", ep.Number, i),
					Reason: fmt.Sprintf("bad duration %.2f", c.Duration),
				}
			}
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anime := models.Anime{
			Name:      slug,
			Title:     title,
			Genres:    pq.StringArray{},
			UpdatedAt: time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
		}).Create(&anime).Error
		if err != nil {
			return err
		}

		var stored models.Anime
		if err := tx.First(&stored, "name = ?", slug).Error; err != nil {
			return err
		}
		res.AnimeID = stored.ID

		for _, ep := range episodes {
			episode := models.Episode{
				AnimeID: stored.ID,
				Number:  ep.Number,
				Title:   ep.Title,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "anime_id"}, {Name: "number"}},
				DoUpdates: clause.AssignmentColumns([]string{"title"}),
			}).Create(&episode).Error
			if err != nil {
				return err
			}

			var storedEp models.Episode
			err = tx.First(&storedEp, "anime_id = ? AND number = ?", stored.ID, ep.Number).Error
			if err != nil {
				return err
			}

			// Reset the clip set so re-imports do not accumulate duplicates.
			err = tx.Where("episode_id = ?", storedEp.ID).Delete(&models.Clip{}).Error
			if err != nil {
				return err
			}

			for _, c := range ep.Clips {
				clip := models.Clip{
					EpisodeID:  storedEp.ID,
					VideoURL:   c.VideoURL,
					PreviewURL: c.PreviewURL,
					ThumbURL:   c.ThumbURL,
					ClipName:   c.Name,
					StartTime:  0,
					EndTime:    c.Duration,
				}
				if err := tx.Create(&clip).Error; err != nil {
					return err
				}
				res.Clips++
			}
			res.Episodes++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// getOrCreateEpisode resolves an episode id, creating the row with a
// generated "Episode {n}" title when absent.
func getOrCreateEpisode(tx *gorm.DB, animeID uint, number int) (uint, error) {
	var episode models.Episode
	err := tx.First(&episode, "anime_id = ? AND number = ?", animeID, number).Error
	if err == nil {
		return episode.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	episode = models.Episode{
		AnimeID: animeID,
		Number:  number,
		Title:   fmt.Sprintf("Episode %d", number),
	}
	if err := tx.Create(&episode).Error; err != nil {
		return 0, err
	}
	return episode.ID, nil
}
