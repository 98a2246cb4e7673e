// Package analytics handles best-effort telemetry: denormalized
// per-series counters, the append-only event log, and the dashboard
// stats snapshot. Tracking is fire-and-forget; nothing here is allowed
// to fail a triggering request.
package analytics

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/malemsana/aniclip-backend/models"
)

type event struct {
	animeID uint
	kind    string
}

// Tracker records download/visit events off the request path. Events
// queue onto a buffered channel drained by a single background
// goroutine; when the queue is full the event is dropped and logged.
type Tracker struct {
	db    *gorm.DB
	queue chan event
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{
		db:    db,
		queue: make(chan event, 256),
	}
}

// Track enqueues one event. It never blocks and never returns an
// error; telemetry loss is tolerated.
func (t *Tracker) Track(animeID uint, kind string) {
	select {
	case t.queue <- event{animeID: animeID, kind: kind}:
	default:
		log.Printf("Analytics queue full, dropping %s event for anime %d", kind, animeID)
	}
}

// Listen drains the queue until ctx is cancelled. Run it in its own
// goroutine at process start.
func (t *Tracker) Listen(ctx context.Context) {
	log.Println("Analytics tracker listening")
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-t.queue:
			t.record(ctx, e)
		}
	}
}

// record bumps the counter and appends the event row. The two writes
// are independent statements: a partial failure leaves the other write
// in place, which is acceptable for telemetry. Errors are logged and
// swallowed.
func (t *Tracker) record(ctx context.Context, e event) {
	column := "visit_count"
	if e.kind == models.EventDownload {
		column = "download_count"
	}

	err := t.db.WithContext(ctx).Model(&models.Anime{}).
		Where("id = ?", e.animeID).
		Update(column, gorm.Expr(column+" + 1")).Error
	if err != nil {
		log.Printf("Analytics counter error: %v", err)
	}

	err = t.db.WithContext(ctx).Create(&models.AnalyticsEvent{
		AnimeID: e.animeID,
		Type:    e.kind,
	}).Error
	if err != nil {
		log.Printf("Analytics event error: %v", err)
	}
}
