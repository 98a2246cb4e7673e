package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/malemsana/aniclip-backend/models"
)

func TestTrendingScoreAndOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	slugA := uniqueSlug("trend_a")
	slugB := uniqueSlug("trend_b")
	a, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: slugA})
	if err != nil {
		t.Fatalf("upsert a: %v", err)
	}
	b, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: slugB})
	if err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	// Counters derived from the clock so rows left over from earlier
	// runs of this test can never outrank this run's pair.
	base := int(time.Now().Unix()) * 100
	err = s.DB.Model(&models.Anime{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{"visit_count": base + 10, "download_count": 3}).Error
	if err != nil {
		t.Fatalf("seed counters a: %v", err)
	}
	err = s.DB.Model(&models.Anime{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{"visit_count": base + 10, "download_count": 0}).Error
	if err != nil {
		t.Fatalf("seed counters b: %v", err)
	}

	trending, err := s.Trending(ctx)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}

	posA, posB := -1, -1
	for i, anime := range trending {
		switch anime.ID {
		case a.ID:
			posA = i
			if want := base + 10 + 5*3; anime.Score != want {
				t.Errorf("score for a = %d, want %d", anime.Score, want)
			}
		case b.ID:
			posB = i
		}
	}
	if posA == -1 || posB == -1 {
		t.Fatalf("seeded series missing from trending (a at %d, b at %d)", posA, posB)
	}
	if posA > posB {
		t.Errorf("a (score %d) ranked below b (score %d)", base+25, base+10)
	}
}

func TestArchiveSeededShuffleIsStable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Enough rows that two seeds agreeing on the ordering is implausible.
	for i := 0; i < 10; i++ {
		if _, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: uniqueSlug("archive")}); err != nil {
			t.Fatalf("seed series: %v", err)
		}
	}

	ids := func(animes []models.Anime) []uint {
		out := make([]uint, len(animes))
		for i, a := range animes {
			out[i] = a.ID
		}
		return out
	}

	first, err := s.Archive(ctx, 1, "abc")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	second, err := s.Archive(ctx, 1, "abc")
	if err != nil {
		t.Fatalf("archive repeat: %v", err)
	}

	firstIDs, secondIDs := ids(first), ids(second)
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("same seed returned %d then %d rows", len(firstIDs), len(secondIDs))
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("same seed, different order at %d: %v vs %v", i, firstIDs, secondIDs)
		}
	}

	other, err := s.Archive(ctx, 1, "xyz")
	if err != nil {
		t.Fatalf("archive other seed: %v", err)
	}
	otherIDs := ids(other)
	same := len(otherIDs) == len(firstIDs)
	if same {
		for i := range firstIDs {
			if firstIDs[i] != otherIDs[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Errorf("seeds 'abc' and 'xyz' produced identical orderings: %v", firstIDs)
	}
}

func TestArchivePageDefaults(t *testing.T) {
	s := testStore(t)
	// page < 1 clamps to the first page instead of erroring.
	if _, err := s.Archive(context.Background(), 0, ""); err != nil {
		t.Errorf("archive with zero page: %v", err)
	}
}

func TestBrowseTagExactMatch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	tag := uniqueSlug("genre")

	slug := uniqueSlug("browse")
	anime, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: slug, Genres: []string{tag, "action"}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matched, err := s.BrowseTag(ctx, tag)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	found := false
	for _, a := range matched {
		if a.ID == anime.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("series with tag %q not returned by browse", tag)
	}

	// Substrings of a genre must not match.
	partial, err := s.BrowseTag(ctx, tag[:len(tag)-1])
	if err != nil {
		t.Fatalf("browse partial: %v", err)
	}
	for _, a := range partial {
		if a.ID == anime.ID {
			t.Errorf("partial tag matched series %d", a.ID)
		}
	}
}

func TestSearchEmptyQuerySkipsStore(t *testing.T) {
	// A nil DB proves the store is never touched for an empty query.
	s := &Store{}
	animes, err := s.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	if len(animes) != 0 {
		t.Errorf("empty search returned %d rows, want 0", len(animes))
	}
}

func TestSearchTitleAndGenre(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	marker := uniqueSlug("needle")
	byTitle, err := s.UpsertSeries(ctx, UpsertSeriesInput{
		Name:  uniqueSlug("search_t"),
		Title: "The " + marker + " Chronicles",
	})
	if err != nil {
		t.Fatalf("upsert title match: %v", err)
	}
	byGenre, err := s.UpsertSeries(ctx, UpsertSeriesInput{
		Name:   uniqueSlug("search_g"),
		Title:  "Unrelated",
		Genres: []string{marker},
	})
	if err != nil {
		t.Fatalf("upsert genre match: %v", err)
	}

	results, err := s.Search(ctx, marker)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	foundTitle, foundGenre := false, false
	for _, a := range results {
		if a.ID == byTitle.ID {
			foundTitle = true
		}
		if a.ID == byGenre.ID {
			foundGenre = true
		}
	}
	if !foundTitle {
		t.Errorf("title substring match missing from results")
	}
	if !foundGenre {
		t.Errorf("exact genre match missing from results")
	}
}

func TestRecentOrdersByFreshness(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	older, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: uniqueSlug("recent_old")})
	if err != nil {
		t.Fatalf("upsert older: %v", err)
	}
	newer, err := s.UpsertSeries(ctx, UpsertSeriesInput{Name: uniqueSlug("recent_new")})
	if err != nil {
		t.Fatalf("upsert newer: %v", err)
	}

	recent, err := s.Recent(ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	posOld, posNew := -1, -1
	for i, a := range recent {
		if a.ID == older.ID {
			posOld = i
		}
		if a.ID == newer.ID {
			posNew = i
		}
	}
	if posNew == -1 {
		t.Fatalf("freshly upserted series missing from recent")
	}
	if posOld != -1 && posNew > posOld {
		t.Errorf("newer upsert ranked below older one (%d vs %d)", posNew, posOld)
	}
}
