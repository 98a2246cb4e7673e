package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/malemsana/aniclip-backend/catalog"
	"github.com/malemsana/aniclip-backend/models"
)

// testHandler wires a Handler to the test database from
// TEST_DATABASE_URL, skipping when it is unreachable (same convention
// as the catalog tests). Redis stays nil; the endpoints under test do
// not publish.
func testHandler(t *testing.T) *Handler {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping admin handler test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Postgres not available (skipping): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("Postgres not available (skipping): %v", err)
	}
	err = db.AutoMigrate(&models.Anime{}, &models.Episode{}, &models.Clip{}, &models.AnalyticsEvent{})
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return NewHandler(catalog.NewStore(db), db, nil)
}

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &catalog.ValidationError{Field: "name", Reason: "bad slug"}, http.StatusBadRequest},
		{"not found", &catalog.NotFoundError{Entity: "anime", Key: "ghost"}, http.StatusNotFound},
		{"store failure", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("%s: got status %d, want %d", tc.name, w.Code, tc.want)
		}
		if !strings.Contains(w.Body.String(), `"status":"error"`) {
			t.Errorf("%s: body missing error envelope: %s", tc.name, w.Body.String())
		}
	}
}

func TestEpisodeNumberZeroAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandler(t)
	r := gin.New()
	r.POST("/api/admin/episodes", h.CreateEpisode)
	r.POST("/api/admin/clips/bulk", h.BulkAddClips)

	slug := fmt.Sprintf("zeroep_%d", time.Now().UnixNano())
	anime, err := h.Store.UpsertSeries(context.Background(), catalog.UpsertSeriesInput{Name: slug})
	if err != nil {
		t.Fatalf("series upsert: %v", err)
	}

	// Specials and prologues ship as episode 0; binding must not
	// reject the zero value.
	body := fmt.Sprintf(`{"anime_id":%d,"number":0,"title":"Prologue"}`, anime.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/episodes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create episode 0: got status %d, body %s", w.Code, w.Body.String())
	}

	body = fmt.Sprintf(`{"anime":%q,"episode":0,"clips":[{"video_url":"https://cdn.example.com/0.mp4"}]}`, slug)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/admin/clips/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bulk add to episode 0: got status %d, body %s", w.Code, w.Body.String())
	}
}

func TestUpsertAnimeRequiresName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil)
	r := gin.New()
	r.POST("/api/admin/animes", h.UpsertAnime)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/animes", strings.NewReader(`{"title":"No Slug"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Slug name is required") {
		t.Errorf("body = %s, want slug-required message", w.Body.String())
	}
}
