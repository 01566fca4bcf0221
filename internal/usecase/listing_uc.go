package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

const loadWarning = "Nenhum dado de anúncio foi encontrado ou houve um erro ao carregar."

type ListingUC struct {
	Listings   domain.ListingRepo
	Cache      domain.ListingCache
	Normalizer *Normalizer

	mu         sync.RWMutex
	lastIngest *domain.IngestReport
}

// Load returns the cached snapshot or fetches a fresh one. Failed fetches are
// not cached.
func (uc *ListingUC) Load(ctx context.Context) ([]domain.Listing, error) {
	if uc.Cache != nil {
		if list, ok := uc.Cache.Get(ctx); ok {
			return list, nil
		}
	}
	if uc.Listings == nil {
		return nil, &domain.ConnectivityError{Op: "fetch", Err: domain.ErrNoDatabase}
	}
	list, err := uc.Listings.FetchAll(ctx)
	if err != nil {
		var ce *domain.ConnectivityError
		if !errors.As(err, &ce) {
			err = &domain.ConnectivityError{Op: "fetch", Err: err}
		}
		return nil, err
	}
	if list == nil {
		list = []domain.Listing{}
	}
	if uc.Cache != nil {
		uc.Cache.Set(ctx, list)
	}
	return list, nil
}

// Dashboard always returns a renderable view; on load failure the view is
// empty, carries a warning and the error is returned alongside it.
func (uc *ListingUC) Dashboard(ctx context.Context, f domain.ListingFilter) (*domain.Dashboard, error) {
	all, err := uc.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("carregar anúncios")
		all = []domain.Listing{}
	}
	filtered := FilterListings(all, f)
	d := &domain.Dashboard{
		Filter:        f,
		Options:       FilterOptions(all),
		Listings:      filtered,
		Total:         len(all),
		Indicators:    Summarize(filtered),
		TypeHistogram: TypeHistogram(filtered),
		TopStock:      TopByStock(filtered, TopStockSize),
		GeneratedAt:   time.Now(),
	}
	if err != nil || len(all) == 0 {
		d.Warning = loadWarning
	}
	return d, err
}

// Ingest replaces the whole listing table with the normalized table. With
// dryRun nothing is written and the report only describes what would land.
func (uc *ListingUC) Ingest(ctx context.Context, t *domain.RawTable, fileName string, dryRun bool) (*domain.IngestReport, error) {
	n := uc.Normalizer
	if n == nil {
		n = NewNormalizer(nil)
	}
	res, err := n.Normalize(t)
	if err != nil {
		return nil, err
	}
	rep := &domain.IngestReport{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Inserted:  len(res.Listings),
		Dropped:   res.Dropped,
		Mapping:   res.Mapping,
		Warnings:  res.Warnings,
		DryRun:    dryRun,
		Timestamp: time.Now(),
	}
	if t != nil {
		rep.Sheet = t.Sheet
	}
	if dryRun {
		return rep, nil
	}
	if uc.Listings == nil {
		return nil, &domain.ConnectivityError{Op: "replace", Err: domain.ErrNoDatabase}
	}
	if err := uc.Listings.ReplaceAll(ctx, res.Listings); err != nil {
		var we *domain.WriteError
		var ce *domain.ConnectivityError
		if !errors.As(err, &we) && !errors.As(err, &ce) {
			err = &domain.WriteError{Rows: len(res.Listings), Err: err}
		}
		return nil, err
	}
	uc.Refresh(ctx)

	uc.mu.Lock()
	uc.lastIngest = rep
	uc.mu.Unlock()

	log.Info().
		Str("ingest_id", rep.ID).
		Str("file", fileName).
		Int("inseridos", rep.Inserted).
		Int("sem_id", rep.Dropped.MissingID).
		Int("duplicados", rep.Dropped.Duplicate).
		Int("avisos", len(rep.Warnings)).
		Msg("ingestão concluída")
	return rep, nil
}

func (uc *ListingUC) Refresh(ctx context.Context) {
	if uc.Cache != nil {
		uc.Cache.Invalidate(ctx)
	}
}

func (uc *ListingUC) LastIngest() *domain.IngestReport {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastIngest
}
