package snapshot

import (
	"time"

	"staysync/core/config"
)

// Listing is one property's entry in the published snapshot.
type Listing struct {
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Info          config.Info `json:"info"`
	BlockedNights []string    `json:"blocked_nights"`
}

// Snapshot is the complete availability view pushed to object storage.
type Snapshot struct {
	GeneratedAt string    `json:"generated_at"`
	Timezone    string    `json:"timezone"`
	Listings    []Listing `json:"listings"`
}

// NewListing builds a property's snapshot entry. nights may be nil when the
// property has no blocked future nights; the entry still serializes with an
// empty array so consumers never see null.
func NewListing(prop config.Property, nights []string) Listing {
	if nights == nil {
		nights = []string{}
	}
	return Listing{
		Slug:          prop.Slug(),
		Name:          prop.Name,
		Info:          prop.Info,
		BlockedNights: nights,
	}
}

// Build assembles the snapshot. Listing order follows the configured property
// order, so the published document is stable run to run.
func Build(generatedAt time.Time, timezone string, listings []Listing) Snapshot {
	if listings == nil {
		listings = []Listing{}
	}
	return Snapshot{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Timezone:    timezone,
		Listings:    listings,
	}
}
