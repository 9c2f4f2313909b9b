package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

const (
	defaultReserveAttempts = 3
	compensationTimeout    = 5 * time.Second
)

// Reservation lists the decrements applied by a successful Reserve.
type Reservation struct {
	Lines []domain.StockDemand
}

// StockGuard reserves stock for a whole order or for none of it. It checks
// every line against a snapshot before touching any stock, then applies
// conditional decrements; losing a race to a concurrent placement undoes the
// decrements already applied and re-validates against fresh stock.
type StockGuard struct {
	catalog     port.CatalogRepository
	maxAttempts int
	logger      *zap.Logger
}

func NewStockGuard(catalog port.CatalogRepository, maxAttempts int, logger *zap.Logger) *StockGuard {
	if maxAttempts <= 0 {
		maxAttempts = defaultReserveAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockGuard{
		catalog:     catalog,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Reserve expects lines resolved from the catalog; their stock quantities
// form the first snapshot.
func (g *StockGuard) Reserve(ctx context.Context, lines []domain.PricedLine) (Reservation, error) {
	ctx, span := tracer.Start(ctx, "StockGuard.Reserve")
	defer span.End()

	demand := domain.AggregateDemand(lines)
	snapshot := make(map[string]int, len(demand))
	for _, ln := range lines {
		snapshot[ln.Product.ID] = ln.Product.StockQuantity
	}

	var contended *domain.InsufficientStockError
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("stock.attempt", attempt))

		if attempt > 1 {
			if err := g.refresh(ctx, demand, snapshot); err != nil {
				recordError(span, err)
				return Reservation{}, err
			}
		}

		if err := check(demand, snapshot); err != nil {
			recordError(span, err)
			return Reservation{}, err
		}

		applied, conflict, err := g.apply(ctx, demand)
		if err != nil {
			recordError(span, err)
			return Reservation{}, err
		}
		if conflict == nil {
			return Reservation{Lines: applied}, nil
		}

		contended = &domain.InsufficientStockError{
			ProductID: conflict.ProductID,
			Requested: conflict.Quantity,
		}
		g.logger.Debug("conditional decrement lost race",
			zap.String("product_id", conflict.ProductID),
			zap.Int("attempt", attempt),
		)
	}

	// the snapshot lost the last race, so report what the store holds now;
	// Available stays zero when it cannot be read
	if p, err := g.catalog.GetProduct(ctx, contended.ProductID); err == nil {
		contended.Available = p.StockQuantity
	}
	recordError(span, contended)
	return Reservation{}, contended
}

// Release re-increments every line of r. It runs detached from ctx
// cancellation so a cancelled request still returns its stock.
func (g *StockGuard) Release(ctx context.Context, r Reservation) error {
	if len(r.Lines) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	var errs error
	for _, ln := range r.Lines {
		if err := g.catalog.IncrementStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			g.logger.Error("CRITICAL stock rollback failed",
				zap.String("product_id", ln.ProductID),
				zap.Int("quantity", ln.Quantity),
				zap.Error(err),
			)
			errs = errors.Join(errs, fmt.Errorf("release %s: %w", ln.ProductID, err))
		}
	}
	return errs
}

func check(demand []domain.StockDemand, snapshot map[string]int) error {
	for _, d := range demand {
		if available := snapshot[d.ProductID]; available < d.Quantity {
			return &domain.InsufficientStockError{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Available: available,
			}
		}
	}
	return nil
}

func (g *StockGuard) refresh(ctx context.Context, demand []domain.StockDemand, snapshot map[string]int) error {
	for _, d := range demand {
		p, err := g.catalog.GetProduct(ctx, d.ProductID)
		if err != nil {
			return err
		}
		snapshot[d.ProductID] = p.StockQuantity
	}
	return nil
}

// apply decrements in demand order. On a lost race it undoes what it applied
// and reports the conflicting line; on a store error it undoes and fails.
func (g *StockGuard) apply(ctx context.Context, demand []domain.StockDemand) ([]domain.StockDemand, *domain.StockDemand, error) {
	applied := make([]domain.StockDemand, 0, len(demand))

	for i := range demand {
		d := demand[i]
		ok, err := g.catalog.DecrementStock(ctx, d.ProductID, d.Quantity)
		if err == nil && ok {
			applied = append(applied, d)
			continue
		}

		rbErr := g.Release(ctx, Reservation{Lines: applied})
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("decrement stock %s: %w", d.ProductID, err), rbErr)
		}
		if rbErr != nil {
			return nil, nil, rbErr
		}
		return nil, &d, nil
	}

	return applied, nil, nil
}
