// Package events defines the payloads published to Redis when the
// catalog changes. Frontend caches and the scheduler subscribe to the
// channel; publishing is fire-and-forget.
package events

import "encoding/json"

// ChannelCatalog carries catalog mutation notifications.
const ChannelCatalog = "catalog_events"

// SeriesUpserted is published after an admin series upsert.
type SeriesUpserted struct {
	AnimeID uint   `json:"anime_id"`
	Name    string `json:"name"`
}

// SeriesDeleted is published after an admin series delete.
type SeriesDeleted struct {
	AnimeID uint `json:"anime_id"`
}

// SeasonImported is published after a successful season import.
type SeasonImported struct {
	AnimeID  uint   `json:"anime_id"`
	Name     string `json:"name"`
	Episodes int    `json:"episodes"`
	Clips    int    `json:"clips"`
}

// Envelope wraps a payload with its kind so subscribers can dispatch
// on a single channel.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Marshal wraps payload in an Envelope and serializes it.
func Marshal(kind string, payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(Envelope{Kind: kind, Payload: raw})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Event kinds carried on ChannelCatalog.
const (
	KindSeriesUpserted = "series_upserted"
	KindSeriesDeleted  = "series_deleted"
	KindSeasonImported = "season_imported"
)
