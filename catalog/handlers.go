package catalog

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/malemsana/aniclip-backend/analytics"
	"github.com/malemsana/aniclip-backend/models"
)

// Handler serves the public read surface.
type Handler struct {
	Store   *Store
	Tracker *analytics.Tracker
}

func NewHandler(store *Store, tracker *analytics.Tracker) *Handler {
	return &Handler{Store: store, Tracker: tracker}
}

func (h *Handler) GetTrending(c *gin.Context) {
	animes, err := h.Store.Trending(c.Request.Context())
	if err != nil {
		log.Printf("Trending error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) GetRecent(c *gin.Context) {
	animes, err := h.Store.Recent(c.Request.Context())
	if err != nil {
		log.Printf("Recent error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) GetFeatured(c *gin.Context) {
	animes, err := h.Store.Featured(c.Request.Context())
	if err != nil {
		log.Printf("Featured error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) GetArchive(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	seed := c.DefaultQuery("seed", "default")

	animes, err := h.Store.Archive(c.Request.Context(), page, seed)
	if err != nil {
		log.Printf("Archive error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) GetBrowse(c *gin.Context) {
	animes, err := h.Store.BrowseTag(c.Request.Context(), c.Query("tag"))
	if err != nil {
		log.Printf("Browse error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) Search(c *gin.Context) {
	animes, err := h.Store.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("Search error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

func (h *Handler) ListAnimes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	animes, err := h.Store.ListSeries(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, animes)
}

// GetAnimeDetail returns one series by slug and records a visit off
// the response path.
func (h *Handler) GetAnimeDetail(c *gin.Context) {
	anime, err := h.Store.SeriesByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		log.Printf("Details error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.Tracker.Track(anime.ID, models.EventVisit)

	c.JSON(http.StatusOK, anime)
}

func (h *Handler) GetEpisodes(c *gin.Context) {
	episodes, err := h.Store.EpisodesBySeries(c.Request.Context(), c.Param("name"))
	if err != nil {
		log.Printf("Episodes error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, episodes)
}

func (h *Handler) GetClips(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid episode number"})
		return
	}

	clips, err := h.Store.ClipsByEpisode(c.Request.Context(), c.Param("name"), number)
	if err != nil {
		log.Printf("Clips error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clips)
}

// TrackDownload records a download event. The response never waits on
// the tracking write and never reports its failure.
func (h *Handler) TrackDownload(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("name"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid anime ID"})
		return
	}

	h.Tracker.Track(uint(id), models.EventDownload)

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
