package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	catalogapp "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	"github.com/Apurer/go-gin-shop-server/internal/shared/transaction"
)

// Service runs the order placement and lifecycle workflows. Each call is one
// unit of work: authorization, stock checks, stock changes and the order write
// commit together or not at all.
type Service struct {
	orders      ports.Repository
	products    catalogports.Repository
	ledger      *catalogapp.Ledger
	access      userports.Authorizer
	tx          transaction.Transactor
	publisher   ports.EventPublisher
	idempotency ports.IdempotencyStore
	claimWait   time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

const (
	defaultClaimWait  = 5 * time.Second
	claimPollInterval = 20 * time.Millisecond
)

type Option func(*Service)

// WithEventPublisher ships committed events; the default drops them.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithIdempotencyStore enables replay of placements that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithIdempotencyWait bounds how long a request waits on a key held by a
// placement that has not finished yet.
func WithIdempotencyWait(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.claimWait = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its collaborators.
func NewService(
	orders ports.Repository,
	products catalogports.Repository,
	access userports.Authorizer,
	tx transaction.Transactor,
	opts ...Option,
) *Service {
	s := &Service{
		orders:    orders,
		products:  products,
		ledger:    catalogapp.NewLedger(products),
		access:    access,
		tx:        tx,
		publisher: ports.NoopPublisher{},
		claimWait: defaultClaimWait,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder creates an order for input.CustomerID and takes its quantities out of stock.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	items, err := lineItems(input.Items)
	if err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.place(ctx, input.CustomerID, items, "", "")
	}
	requestHash, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	claimer, ok := s.idempotency.(ports.IdempotencyClaimer)
	if !ok {
		return s.placeReplayable(ctx, input.CustomerID, items, key, requestHash)
	}

	replayed, claimed, err := s.claim(ctx, claimer, key, requestHash)
	if err != nil || !claimed {
		return replayed, mapError(err)
	}
	// The claim must be settled even when the caller has gone away.
	settleCtx := context.WithoutCancel(ctx)
	placed, err := s.place(ctx, input.CustomerID, items, "", "")
	if err != nil {
		if releaseErr := claimer.Release(settleCtx, key, requestHash); releaseErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release idempotency key",
				slog.String("idempotency.key", key),
				slog.String("error", releaseErr.Error()))
		}
		return nil, err
	}
	if err := claimer.Complete(settleCtx, key, requestHash, placed.ID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record idempotency key",
			slog.String("idempotency.key", key),
			slog.Int64("order.id", placed.ID),
			slog.String("error", err.Error()))
	}
	return placed, nil
}

// placeReplayable serves stores without claims: the transactional store writes
// the key with the order, anything else records it after commit.
func (s *Service) placeReplayable(ctx context.Context, customerID int64, items []domain.LineItem, key, requestHash string) (*domain.Order, error) {
	replayed, err := s.replay(ctx, key, requestHash)
	if err != nil || replayed != nil {
		return replayed, mapError(err)
	}
	store, ok := s.idempotency.(ports.TransactionalIdempotencyStore)
	if ok && store.Transactional() {
		placed, err := s.place(ctx, customerID, items, key, requestHash)
		if errors.Is(err, ports.ErrIdempotencyConflict) {
			// A concurrent request with the same key committed first.
			if replayed, replayErr := s.replay(ctx, key, requestHash); replayErr == nil && replayed != nil {
				return replayed, nil
			}
		}
		return placed, err
	}
	placed, err := s.place(ctx, customerID, items, "", "")
	if err != nil {
		return nil, err
	}
	if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: requestHash, OrderID: placed.ID}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record idempotency key",
			slog.String("idempotency.key", key),
			slog.Int64("order.id", placed.ID),
			slog.String("error", err.Error()))
	}
	return placed, nil
}

// claim takes key for this request. A key held by a pending placement with the
// same fingerprint is polled until that placement settles or the wait runs out.
func (s *Service) claim(ctx context.Context, store ports.IdempotencyClaimer, key, requestHash string) (*domain.Order, bool, error) {
	timeout := time.NewTimer(s.claimWait)
	defer timeout.Stop()
	for {
		existing, claimed, err := store.Claim(ctx, key, requestHash)
		if err != nil {
			return nil, false, err
		}
		if claimed {
			return nil, true, nil
		}
		if existing != nil && existing.RequestHash != requestHash {
			return nil, false, ports.ErrIdempotencyConflict
		}
		if existing != nil && !existing.Pending() {
			order, err := s.GetOrder(ctx, existing.OrderID)
			return order, false, err
		}
		poll := time.NewTimer(claimPollInterval)
		select {
		case <-ctx.Done():
			poll.Stop()
			return nil, false, ctx.Err()
		case <-timeout.C:
			poll.Stop()
			return nil, false, ports.ErrIdempotencyInProgress
		case <-poll.C:
		}
	}
}

// place runs the placement unit of work and publishes its events after commit.
// A non-empty key is written through the transactional idempotency store.
func (s *Service) place(ctx context.Context, customerID int64, items []domain.LineItem, key, requestHash string) (*domain.Order, error) {
	var (
		placed *domain.Order
		events []domain.Event
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.access.Authorize(ctx, customerID, userdomain.OperationPlaceOrder)
		if err != nil {
			return err
		}
		for _, item := range items {
			ok, err := s.ledger.HasSufficientStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return catalogdomain.ErrNotEnoughStock
			}
		}
		for i := range items {
			product, err := s.products.GetByID(ctx, items[i].ProductID)
			if err != nil {
				if errors.Is(err, catalogports.ErrNotFound) {
					return catalogdomain.ErrInvalidProductID
				}
				return err
			}
			items[i].ProductCode = product.Code
		}
		order, err := domain.NewOrder(user.ID, items, s.now())
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.ledger.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		saved, err := s.orders.Save(ctx, order)
		if err != nil {
			return err
		}
		order.ID = saved.ID
		order.MarkPlaced()
		events = order.Events()
		if key != "" {
			if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: requestHash, OrderID: saved.ID}); err != nil {
				return err
			}
		}
		placed = saved
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, events)
	return placed, nil
}

// Deliver marks an order delivered. Requires the EXPEDITOR role.
func (s *Service) Deliver(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	return s.transition(ctx, orderID, userID, userdomain.OperationDeliverOrder, func(order *domain.Order, at time.Time) error {
		return order.Deliver(userID, at)
	})
}

// Cancel marks an order canceled. Requires the CLIENT role.
func (s *Service) Cancel(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	return s.transition(ctx, orderID, userID, userdomain.OperationCancelOrder, func(order *domain.Order, at time.Time) error {
		return order.Cancel(userID, at)
	})
}

// Return marks a delivered order returned and puts every item back in stock.
// Requires the CLIENT role.
func (s *Service) Return(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	return s.transition(ctx, orderID, userID, userdomain.OperationReturnOrder, func(order *domain.Order, at time.Time) error {
		return order.Return(userID, at)
	})
}

// GetOrder loads an order without locking it.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(domain.ErrInvalidOrderID)
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) transition(
	ctx context.Context,
	orderID, userID int64,
	op userdomain.Operation,
	apply func(order *domain.Order, at time.Time) error,
) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	var (
		result *domain.Order
		events []domain.Event
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.Authorize(ctx, userID, op); err != nil {
			return err
		}
		order, err := s.orders.LockByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return domain.ErrInvalidOrderID
			}
			return err
		}
		wasReturned := order.Returned
		if err := apply(order, s.now()); err != nil {
			return err
		}
		if order.Returned && !wasReturned {
			for _, item := range order.Items {
				if err := s.ledger.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		events = order.Events()
		order.ClearEvents()
		saved, err := s.orders.Save(ctx, order)
		if err != nil {
			return err
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, events)
	return result, nil
}

func (s *Service) replay(ctx context.Context, key, requestHash string) (*domain.Order, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != requestHash {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.GetOrder(ctx, record.OrderID)
}

// publish runs after commit. A failed publish never undoes the committed change.
func (s *Service) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order events",
			slog.Int("event.count", len(events)),
			slog.String("error", err.Error()))
	}
}

// lineItems validates the requested quantities and orders lines by product id,
// which is also the order rows are locked in.
func lineItems(requested map[int64]int) ([]domain.LineItem, error) {
	if len(requested) == 0 {
		return nil, domain.ErrInvalidProducts
	}
	items := make([]domain.LineItem, 0, len(requested))
	for productID, quantity := range requested {
		items = append(items, domain.LineItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}
	return items, nil
}

var _ ports.Service = (*Service)(nil)
