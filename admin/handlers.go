// Package admin serves the token-gated write surface: series and
// episode management, clip batches, the season importer and the stats
// dashboard.
package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/malemsana/aniclip-backend/analytics"
	"github.com/malemsana/aniclip-backend/catalog"
	"github.com/malemsana/aniclip-backend/events"
)

type Handler struct {
	Store *catalog.Store
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHandler(store *catalog.Store, db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{Store: store, DB: db, Redis: rdb}
}

// writeError maps the catalog error taxonomy onto HTTP statuses.
// Anything that is not a validation or not-found failure is a store
// failure and surfaces as 500 with the raw message.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var validation *catalog.ValidationError
	var notFound *catalog.NotFoundError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"status": "error", "message": err.Error()})
}

// publish sends a catalog event to Redis. Failures are logged and
// dropped; notifications are not part of the write's contract.
func (h *Handler) publish(c *gin.Context, kind string, payload interface{}) {
	msg, err := events.Marshal(kind, payload)
	if err != nil {
		log.Printf("Error marshalling %s event: %v", kind, err)
		return
	}
	if err := h.Redis.Publish(c.Request.Context(), events.ChannelCatalog, msg).Err(); err != nil {
		log.Printf("Error publishing %s event: %v", kind, err)
	}
}

func (h *Handler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Token valid"})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := analytics.Snapshot(c.Request.Context(), h.DB)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListAnimes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	animes, err := h.Store.ListSeries(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, animes)
}

type UpsertAnimeRequest struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PosterURL   string   `json:"poster_url"`
	Genres      []string `json:"genres"`
	IsFeatured  bool     `json:"is_featured"`
}

func (h *Handler) UpsertAnime(c *gin.Context) {
	var req UpsertAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Slug name is required"})
		return
	}

	anime, err := h.Store.UpsertSeries(c.Request.Context(), catalog.UpsertSeriesInput{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		PosterURL:   req.PosterURL,
		Genres:      req.Genres,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.publish(c, events.KindSeriesUpserted, events.SeriesUpserted{AnimeID: anime.ID, Name: anime.Name})

	c.JSON(http.StatusOK, gin.H{"status": "success", "anime": anime})
}

func (h *Handler) DeleteAnime(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid anime ID"})
		return
	}

	if err := h.Store.DeleteSeries(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}

	h.publish(c, events.KindSeriesDeleted, events.SeriesDeleted{AnimeID: uint(id)})

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type CreateEpisodeRequest struct {
	AnimeID uint   `json:"anime_id" binding:"required"`
	Number  int    `json:"number"` // 0 is a valid episode number
	Title   string `json:"title"`
}

func (h *Handler) CreateEpisode(c *gin.Context) {
	var req CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	episode, err := h.Store.UpsertEpisode(c.Request.Context(), req.AnimeID, req.Number, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "episode": episode})
}

func (h *Handler) DeleteEpisode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid episode ID"})
		return
	}
	if err := h.Store.DeleteEpisode(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type BulkClipsRequest struct {
	Anime   string              `json:"anime" binding:"required"`
	Episode int                 `json:"episode"`
	Clips   []catalog.ClipInput `json:"clips"`
}

func (h *Handler) BulkAddClips(c *gin.Context) {
	var req BulkClipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	count, err := h.Store.BulkAddClips(c.Request.Context(), req.Anime, req.Episode, req.Clips)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("%d clips added.", count)})
}

type UpdateClipRequest struct {
	VideoURL   *string  `json:"video_url"`
	PreviewURL *string  `json:"preview_url"`
	ThumbURL   *string  `json:"thumb_url"`
	ClipName   *string  `json:"clip_name"`
	EndTime    *float64 `json:"end_time"`
}

func (h *Handler) UpdateClip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid clip ID"})
		return
	}

	var req UpdateClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	clip, err := h.Store.UpdateClip(c.Request.Context(), uint(id), catalog.UpdateClipInput{
		VideoURL:   req.VideoURL,
		PreviewURL: req.PreviewURL,
		ThumbURL:   req.ThumbURL,
		ClipName:   req.ClipName,
		EndTime:    req.EndTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "clip": clip})
}

func (h *Handler) DeleteClip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid clip ID"})
		return
	}
	if err := h.Store.DeleteClip(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type ImportSeasonRequest struct {
	AnimeSlug  string                  `json:"anime_slug" binding:"required"`
	AnimeTitle string                  `json:"anime_title" binding:"required"`
	Episodes   []catalog.SeasonEpisode `json:"episodes"`
}

func (h *Handler) ImportSeason(c *gin.Context) {
	var req ImportSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	res, err := h.Store.ImportSeason(c.Request.Context(), req.AnimeSlug, req.AnimeTitle, req.Episodes)
	if err != nil {
		writeError(c, err)
		return
	}

	h.publish(c, events.KindSeasonImported, events.SeasonImported{
		AnimeID:  res.AnimeID,
		Name:     req.AnimeSlug,
		Episodes: res.Episodes,
		Clips:    res.Clips,
	})

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Import successful"})
}
