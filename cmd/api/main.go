// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/malemsana/aniclip-backend/admin"
	"github.com/malemsana/aniclip-backend/analytics"
	"github.com/malemsana/aniclip-backend/auth"
	"github.com/malemsana/aniclip-backend/catalog"
	"github.com/malemsana/aniclip-backend/internal/platform"
	"github.com/malemsana/aniclip-backend/models"
)

// maxBodyBytes caps JSON request bodies; season imports can be large.
const maxBodyBytes = 50 << 20

type Server struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Router  *gin.Engine
	Tracker *analytics.Tracker
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := db.AutoMigrate(
		&models.Anime{},
		&models.Episode{},
		&models.Clip{},
		&models.AnalyticsEvent{},
	); err != nil {
		return nil, err
	}

	router := gin.Default()

	// Cap request body size
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	})

	// Add CORS middleware for the frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:      db,
		Redis:   rdb,
		Router:  router,
		Tracker: analytics.NewTracker(db),
	}

	// Setup routes
	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Root route - no auth needed
	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "active", "system": "Aniclip Backend Online"})
	})

	// Create handlers
	store := catalog.NewStore(s.DB)
	catalogHandler := catalog.NewHandler(store, s.Tracker)
	adminHandler := admin.NewHandler(store, s.DB, s.Redis)

	// Public routes
	api := s.Router.Group("/api")
	{
		api.GET("/animes/trending", catalogHandler.GetTrending)
		api.GET("/animes/recent", catalogHandler.GetRecent)
		api.GET("/animes/featured", catalogHandler.GetFeatured)
		api.GET("/animes/archive", catalogHandler.GetArchive)
		api.GET("/animes/browse", catalogHandler.GetBrowse)
		api.GET("/search", catalogHandler.Search)

		api.GET("/animes", catalogHandler.ListAnimes)
		api.GET("/animes/:name", catalogHandler.GetAnimeDetail)
		api.GET("/animes/:name/episodes", catalogHandler.GetEpisodes)
		api.GET("/animes/:name/episodes/:number/clips", catalogHandler.GetClips)
		api.POST("/animes/:name/track-download", catalogHandler.TrackDownload)
	}

	// Admin routes, gated by the shared secret
	adminRoutes := s.Router.Group("/api/admin")
	adminRoutes.Use(auth.AdminMiddleware())
	{
		adminRoutes.GET("/verify", adminHandler.Verify)
		adminRoutes.GET("/stats", adminHandler.GetStats)

		adminRoutes.GET("/animes", adminHandler.ListAnimes)
		adminRoutes.POST("/animes", adminHandler.UpsertAnime)
		adminRoutes.DELETE("/animes/:id", adminHandler.DeleteAnime)

		adminRoutes.POST("/episodes", adminHandler.CreateEpisode)
		adminRoutes.DELETE("/episodes/:id", adminHandler.DeleteEpisode)

		adminRoutes.POST("/clips/bulk", adminHandler.BulkAddClips)
		adminRoutes.PUT("/clips/:id", adminHandler.UpdateClip)
		adminRoutes.DELETE("/clips/:id", adminHandler.DeleteClip)

		adminRoutes.POST("/import/season", adminHandler.ImportSeason)
	}
}

func (s *Server) Run() error {
	// Drain analytics events off the request path.
	go s.Tracker.Listen(context.Background())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	return s.Router.Run(":" + port)
}

func main() {
	server, err := NewServer()
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
