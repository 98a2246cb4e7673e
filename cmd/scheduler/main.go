package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/malemsana/aniclip-backend/analytics"
	"github.com/malemsana/aniclip-backend/events"
	"github.com/malemsana/aniclip-backend/internal/platform"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	c := cron.New()

	// Daily stats report for the ops logs.
	_, err := c.AddFunc("0 6 * * *", func() {
		reportStats(ctx, db)
	})
	if err != nil {
		log.Fatalf("Error scheduling stats report: %v", err)
	}

	c.Start()
	defer c.Stop()

	// Log catalog mutations as they happen.
	go listenForCatalogEvents(ctx, rdb)

	log.Println("Scheduler started, waiting for messages...")
	// Keep the main thread alive
	select {}
}

// reportStats logs the current library snapshot.
func reportStats(ctx context.Context, db *gorm.DB) {
	stats, err := analytics.Snapshot(ctx, db)
	if err != nil {
		log.Printf("Error computing daily stats: %v", err)
		return
	}
	log.Printf("Daily stats: %d series, %d downloads (%d today / %d this week / %d this month), %d visits (%d today / %d this week)",
		stats.TotalSeries,
		stats.TotalDownloads, stats.DlToday, stats.DlWeek, stats.DlMonth,
		stats.TotalVisits, stats.VisitsToday, stats.VisitsWeek)
}

// listenForCatalogEvents subscribes to catalog_events and logs each
// mutation. Only run one instance of this service.
func listenForCatalogEvents(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.Subscribe(ctx, events.ChannelCatalog)
	defer pubsub.Close()
	ch := pubsub.Channel()

	log.Println("Scheduler listening for catalog events...")

	for msg := range ch {
		var envelope events.Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Error unmarshalling %s message: %v", events.ChannelCatalog, err)
			continue
		}
		log.Printf("Catalog event %s: %s", envelope.Kind, string(envelope.Payload))
	}
}
