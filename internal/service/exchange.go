package service

import (
	"context"
	"log"
	"time"

	"mc-exchange-api/internal/ingest"
	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/repository"
	"mc-exchange-api/pkg/apierror"
)

// ShopResolver attributes a world point to a shop. Implemented by
// spatial.Resolver.
type ShopResolver interface {
	Resolve(ctx context.Context, dimension string, x, y, z int64) (*model.Shop, error)
}

// ExchangeService runs the ingestion pipeline and serves event reads.
type ExchangeService struct {
	repo     repository.ExchangeRepository
	resolver ShopResolver
	now      func() time.Time
}

// NewExchangeService creates a new exchange service.
func NewExchangeService(repo repository.ExchangeRepository, resolver ShopResolver) *ExchangeService {
	return &ExchangeService{
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

// SetClock overrides the receipt-time source. Test hook; production code
// never calls this.
func (s *ExchangeService) SetClock(now func() time.Time) {
	s.now = now
}

// Ingest runs the pipeline on a decoded payload: normalize, validate,
// resolve the shop, derive the dedup hash, upsert. Returns the hash as the
// client-visible idempotency token.
func (s *ExchangeService) Ingest(ctx context.Context, p *ingest.Payload) (string, error) {
	p.Normalize()

	if errs := ingest.Validate(p); len(errs) > 0 {
		return "", apierror.BadRequest(errs)
	}

	// Validation passed, so the numeric fields parse cleanly.
	x, _ := ingest.IntValue(p.X)
	y, _ := ingest.IntValue(p.Y)
	z, _ := ingest.IntValue(p.Z)
	inputQty, _ := ingest.IntValue(p.InputQty)
	outputQty, _ := ingest.IntValue(p.OutputQty)
	possible, _ := ingest.IntValue(p.ExchangePossible)

	// Attribute the event to a shop when the relay supplied a position.
	// Resolver failures leave the event unattributed rather than rejecting
	// it; the trade itself is still worth recording.
	var shopID *string
	locSrc := "manual"
	if s.resolver != nil && x != nil && y != nil && z != nil {
		shop, err := s.resolver.Resolve(ctx, p.Dimension, *x, *y, *z)
		if err != nil {
			log.Printf("[ExchangeService] Shop resolution failed: %v", err)
		} else if shop != nil {
			shopID = &shop.ID
			locSrc = "shop"
		}
	}

	now := s.now()
	hash := ingest.BlockHash(p.Player, p.Raw, now)

	ev := &model.ExchangeEvent{
		HashID:           hash,
		TS:               now.UTC(),
		Player:           p.Player,
		X:                x,
		Y:                y,
		Z:                z,
		Dimension:        p.Dimension,
		LocSrc:           locSrc,
		InputItemID:      p.InputItemID,
		InputQty:         *inputQty,
		OutputItemID:     p.OutputItemID,
		OutputQty:        *outputQty,
		ExchangePossible: possible,
		CompactedInput:   p.CompactedInput,
		CompactedOutput:  p.CompactedOutput,
		InputEnchants:    p.InputEnchantments,
		OutputEnchants:   p.OutputEnchantments,
		Raw:              p.Raw,
		Shop:             shopID,
	}

	if err := s.repo.Upsert(ctx, ev); err != nil {
		return "", apierror.DBError(err)
	}

	return hash, nil
}

// ListByShop returns a shop's exchange history, newest first.
func (s *ExchangeService) ListByShop(ctx context.Context, shopID string) ([]model.ExchangeEvent, error) {
	events, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return events, nil
}

// List returns filtered events for the admin listing.
func (s *ExchangeService) List(ctx context.Context, f model.ExchangeFilter) ([]model.ExchangeEvent, error) {
	events, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return events, nil
}

// ExportAll returns every stored event for the export endpoints.
func (s *ExchangeService) ExportAll(ctx context.Context) ([]model.ExchangeEvent, error) {
	events, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apierror.DBError(err)
	}
	return events, nil
}

// Stats summarizes event volume: all-time total and the last 12 hours.
type Stats struct {
	Total   int64 `json:"total"`
	HalfDay int64 `json:"halfday"`
}

// Stats returns ingestion volume counters.
func (s *ExchangeService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, apierror.DBError(err)
	}

	halfDay, err := s.repo.CountSince(ctx, s.now().Add(-12*time.Hour))
	if err != nil {
		return nil, apierror.DBError(err)
	}

	return &Stats{Total: total, HalfDay: halfDay}, nil
}
