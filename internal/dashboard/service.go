package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/notion"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

// Service runs the refresh cycle: fetch the three Notion databases, resolve
// categories, normalize transactions and aggregate them into a Snapshot.
// Each cycle builds fresh immutable data; the only shared state is the
// current snapshot pointer.
type Service struct {
	source notion.Service
	cfg    *config.Config
	log    zerolog.Logger

	flight singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// NewService creates a refresh service over the given Notion source.
func NewService(source notion.Service, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		cfg:    cfg,
		log:    log,
	}
}

// Current returns the latest snapshot, or nil before the first successful
// refresh.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh runs one full refresh cycle and publishes the resulting snapshot.
// Concurrent callers collapse into a single flight and share its result.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.flight.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// CurrentOrRefresh returns the latest snapshot, triggering a refresh first
// when no data has been loaded yet.
func (s *Service) CurrentOrRefresh(ctx context.Context) (*Snapshot, error) {
	if snap := s.Current(); snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RefreshTimeout)
	defer cancel()

	start := time.Now()
	s.log.Info().Msg("Starting refresh cycle")

	subPages, err := notion.FetchAll(ctx, s.source, s.cfg.SubCategoriesDBID)
	if err != nil {
		return nil, fmt.Errorf("fetch sub-categories: %w", err)
	}
	mainPages, err := notion.FetchAll(ctx, s.source, s.cfg.MainCategoriesDBID)
	if err != nil {
		return nil, fmt.Errorf("fetch main-categories: %w", err)
	}
	txPages, err := notion.FetchAll(ctx, s.source, s.cfg.TransactionsDBID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	resolver := pipeline.NewResolver(subPages, mainPages)

	transactions := make([]pipeline.Transaction, 0, len(txPages))
	skipped := 0
	for _, page := range txPages {
		tx, err := pipeline.Normalize(page, resolver, s.cfg.DefaultCurrency)
		if err != nil {
			var invalid *pipeline.InvalidRecordError
			if errors.As(err, &invalid) {
				// Skip-and-log keeps the dashboard usable when one
				// row is malformed.
				skipped++
				s.log.Warn().
					Str("page_id", invalid.PageID).
					Str("field", invalid.Field).
					Str("reason", invalid.Reason).
					Msg("Skipping malformed transaction row")
				continue
			}
			// Schema drift or a broken source is fatal to the refresh.
			return nil, fmt.Errorf("normalize transactions: %w", err)
		}
		transactions = append(transactions, tx)
	}

	snap := buildSnapshot(transactions, skipped)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.log.Info().
		Str("refresh_id", snap.RefreshID).
		Int("transactions", len(transactions)).
		Int("skipped", skipped).
		Int("sub_categories", len(subPages)).
		Int("main_categories", len(mainPages)).
		Dur("duration", time.Since(start)).
		Msg("Refresh cycle completed")

	return snap, nil
}

// StartScheduler starts the interval refresh when one is configured and
// stops it on context cancellation. With RefreshInterval 0 the dashboard
// refreshes on demand only.
func (s *Service) StartScheduler(ctx context.Context) error {
	if s.cfg.RefreshInterval <= 0 {
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(s.cfg.RefreshInterval).Do(func() {
		if _, err := s.Refresh(ctx); err != nil {
			s.log.Error().Err(err).Msg("Scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	s.log.Info().Dur("interval", s.cfg.RefreshInterval).Msg("Starting refresh scheduler")
	scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		scheduler.Stop()
		s.log.Info().Msg("Refresh scheduler stopped")
	}()

	return nil
}
