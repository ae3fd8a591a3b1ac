package cmd

import (
	"time"

	"go.uber.org/zap"

	"staysync/core/bookingapi"
	"staysync/core/calendarapi"
	"staysync/core/config"
	"staysync/core/storage"
	"staysync/feature/feed"
	"staysync/feature/snapshot"
	syncfeature "staysync/feature/sync"
)

// buildService assembles the full reconciliation pipeline from configuration.
func buildService(cfg *config.Config, logg *zap.Logger) (*syncfeature.Service, error) {
	loc, err := cfg.Sync.Location()
	if err != nil {
		return nil, err
	}

	props, err := config.LoadProperties(cfg.Sync.PropertiesPath)
	if err != nil {
		return nil, err
	}

	fetcher := feed.NewFetcher(time.Duration(cfg.Sync.FeedTimeoutSeconds)*time.Second, logg)
	store := bookingapi.NewClient(cfg.Booking, cfg.Sync.Timezone, logg)
	cal := calendarapi.NewClient(cfg.Calendar)

	// The snapshot sink is optional: without a storage endpoint the engine
	// still reconciles, it just publishes nothing.
	var sink snapshot.Sink
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		sink = snapshot.NewObjectSink(client, cfg.Storage, logg)
	} else {
		logg.Warn("no storage endpoint configured, snapshot publishing disabled")
	}

	return syncfeature.NewService(props, fetcher, store, cal, sink, cfg.Sync, loc, logg), nil
}
