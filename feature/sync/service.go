package sync

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"staysync/core/bookingapi"
	"staysync/core/calendarapi"
	"staysync/core/config"
	"staysync/feature/booking"
	"staysync/feature/feed"
	"staysync/feature/mirror"
	"staysync/feature/snapshot"
)

// FeedFetcher fetches and parses one availability feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*ics.Calendar, error)
}

// Stats aggregates what one run did for one property.
type Stats struct {
	// Created counts bookings created plus mirror blocks created.
	Created int `json:"created"`
	// Cancelled counts bookings cancelled.
	Cancelled int `json:"cancelled"`
	// Deleted counts mirror blocks deleted.
	Deleted int `json:"deleted"`
	// Errors counts every non-fatal failure the run absorbed.
	Errors int `json:"errors"`
}

// Service runs the full reconciliation pipeline.
type Service struct {
	props      []config.Property
	fetcher    FeedFetcher
	normalizer *feed.Normalizer
	bookings   *booking.Reconciler
	mirrors    *mirror.Reconciler
	collector  *snapshot.Collector
	sink       snapshot.Sink
	cfg        config.SyncConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the pipeline for the configured properties. sink may be
// nil when no snapshot storage is configured.
func NewService(
	props []config.Property,
	fetcher FeedFetcher,
	store bookingapi.Store,
	cal calendarapi.Calendar,
	sink snapshot.Sink,
	cfg config.SyncConfig,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	return &Service{
		props:      props,
		fetcher:    fetcher,
		normalizer: feed.NewNormalizer(loc, cfg.FeedMarker, logger),
		bookings:   booking.NewReconciler(store, loc, cfg.HorizonDays, cfg.FeedPlatform, logger),
		mirrors:    mirror.NewReconciler(cal, loc, cfg.HorizonDays, cfg.FeedPlatform, logger),
		collector:  snapshot.NewCollector(store, loc, cfg.HorizonDays, logger),
		sink:       sink,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// RunAll reconciles every property in configured order and then publishes the
// availability snapshot. The returned map carries per-property stats; failed
// properties appear with their error count, never as a missing key.
func (s *Service) RunAll(ctx context.Context) map[string]Stats {
	results := make(map[string]Stats, len(s.props))
	listings := make([]snapshot.Listing, 0, len(s.props))

	for _, prop := range s.props {
		stats, nights := s.runProperty(ctx, prop)
		results[prop.Name] = stats
		listings = append(listings, snapshot.NewListing(prop, nights))
	}

	s.publish(ctx, listings)
	return results
}

// runProperty takes one property through the pipeline. Any stage failing is
// contained here: it surfaces as an error count, and later stages that can
// still run do.
func (s *Service) runProperty(ctx context.Context, prop config.Property) (Stats, []string) {
	var stats Stats
	l := s.logger.With(zap.String("property", prop.Name))

	cal, err := s.fetcher.Fetch(ctx, prop.FeedURL)
	if err != nil {
		// Without the feed there is no slot set to diff against, so the
		// booking and mirror stages are skipped entirely rather than risk
		// cancelling everything against an empty view.
		l.Error("feed fetch failed, skipping property", zap.Error(err))
		stats.Errors++
		return stats, s.blockedNights(ctx, prop, &stats)
	}

	slots := s.normalizer.Normalize(cal, prop)
	l.Info("normalized feed", zap.Int("nights", len(slots)))

	bStats, err := s.bookings.Reconcile(ctx, prop, slots)
	stats.Created += bStats.Created
	stats.Cancelled += bStats.Cancelled
	stats.Errors += bStats.Errors
	if err != nil {
		l.Error("booking reconciliation failed", zap.Error(err))
		stats.Errors++
	}

	mStats, err := s.mirrors.Reconcile(ctx, prop)
	stats.Created += mStats.Created
	stats.Deleted += mStats.Deleted
	stats.Errors += mStats.Errors
	if err != nil {
		l.Error("mirror reconciliation failed", zap.Error(err))
	}

	l.Info("property reconciled",
		zap.Int("created", stats.Created),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("deleted", stats.Deleted),
		zap.Int("errors", stats.Errors))

	return stats, s.blockedNights(ctx, prop, &stats)
}

func (s *Service) blockedNights(ctx context.Context, prop config.Property, stats *Stats) []string {
	nights, err := s.collector.BlockedNights(ctx, prop)
	if err != nil {
		s.logger.Error("collecting blocked nights failed",
			zap.String("property", prop.Name),
			zap.Error(err))
		stats.Errors++
		return nil
	}
	return nights
}

// publish pushes the snapshot. The snapshot is derived output, so a failed
// push is logged and the run's results stand.
func (s *Service) publish(ctx context.Context, listings []snapshot.Listing) {
	if s.sink == nil {
		return
	}
	snap := snapshot.Build(s.now(), s.cfg.Timezone, listings)
	if err := s.sink.Put(ctx, snap); err != nil {
		s.logger.Error("snapshot publish failed", zap.Error(err))
	}
}
