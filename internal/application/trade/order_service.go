package trade

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNotMarketplaceIntent marks a payment intent without marketplace metadata
var ErrNotMarketplaceIntent = errors.New("payment intent has no store_id metadata")

// Payment intent metadata keys written at checkout
const (
	MetadataStoreID = "store_id"
	MetadataItems   = "items"
	MetadataEmail   = "email"
	MetadataName    = "name"
)

// OrderService handles purchases, store orders and customers
type OrderService struct {
	orderRepo trade.OrderRepository
	storeRepo merchant.StoreRepository
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. metrics may be nil.
func NewOrderService(orderRepo trade.OrderRepository, storeRepo merchant.StoreRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListPurchases returns the orders placed with the signed-in user's email.
// A session without an email has no purchases.
func (s *OrderService) ListPurchases(ctx context.Context, email string, params PurchaseListParams) (shared.Page[PurchaseResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "list_purchases")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	q, page := params.toQuery(email)
	if email == "" {
		return shared.NewPage[PurchaseResponse](nil, 0, page), nil
	}

	result, err := s.orderRepo.QueryPurchases(ctx, q, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[PurchaseResponse]{}, err
	}
	return shared.MapPage(result, ToPurchaseResponse), nil
}

// ListStoreOrders returns the orders received by a store the user owns
func (s *OrderService) ListStoreOrders(ctx context.Context, userID string, storeID int64, params StoreOrderListParams) (shared.Page[PurchaseResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "list_store_orders", attribute.Int64("store_id", storeID))
	defer span.End()

	if _, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID); err != nil {
		return shared.Page[PurchaseResponse]{}, err
	}

	q, page := params.toQuery(storeID)
	result, err := s.orderRepo.QueryStoreOrders(ctx, q, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[PurchaseResponse]{}, err
	}
	return shared.MapPage(result, ToPurchaseResponse), nil
}

// ListCustomers returns the customers of a store the user owns, one row per
// (email, name) pair
func (s *OrderService) ListCustomers(ctx context.Context, userID string, storeID int64, params CustomerListParams) (shared.Page[CustomerResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "list_customers", attribute.Int64("store_id", storeID))
	defer span.End()

	if _, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID); err != nil {
		return shared.Page[CustomerResponse]{}, err
	}

	q, page := params.toQuery(storeID)
	result, err := s.orderRepo.QueryCustomers(ctx, q, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[CustomerResponse]{}, err
	}
	return shared.MapPage(result, ToCustomerResponse), nil
}

// RecordPaymentIntent creates the order for a payment intent on first sight
// and updates its status afterwards. It reports whether an order was created.
// Intents without a store_id in their metadata return ErrNotMarketplaceIntent.
func (s *OrderService) RecordPaymentIntent(ctx context.Context, in PaymentIntentInput) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "record_payment_intent",
		attribute.String("payment_intent_id", in.ID),
		attribute.String("status", in.Status))
	defer span.End()

	status := trade.PaymentStatus(in.Status)

	existing, err := s.orderRepo.FindByPaymentIntentID(ctx, in.ID)
	switch {
	case err == nil:
		changed, err := existing.UpdatePaymentStatus(status)
		if err != nil {
			return false, err
		}
		if !changed {
			s.logger.Debug("Order payment status unchanged",
				zap.Int64("order_id", existing.ID),
				zap.String("payment_intent_id", in.ID),
				zap.String("current", string(existing.PaymentStatus)),
				zap.String("received", in.Status))
			return false, nil
		}
		if err := s.orderRepo.Save(ctx, existing); err != nil {
			telemetry.RecordError(span, err)
			return false, err
		}
		s.logger.Info("Order payment status updated",
			zap.Int64("order_id", existing.ID),
			zap.String("payment_intent_id", in.ID),
			zap.String("status", in.Status))
		return false, nil
	case !errors.Is(err, shared.ErrNotFound):
		telemetry.RecordError(span, err)
		return false, err
	}

	order, err := orderFromIntent(in, status)
	if err != nil {
		return false, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// a concurrent delivery created it first
			return false, nil
		}
		telemetry.RecordError(span, err)
		return false, err
	}

	s.metrics.RecordOrder(ctx, string(order.PaymentStatus), order.Amount)
	s.logger.Info("Order recorded from payment intent",
		zap.Int64("order_id", order.ID),
		zap.Int64("store_id", order.StoreID),
		zap.String("payment_intent_id", in.ID))
	telemetry.SetOK(span)
	return true, nil
}

func orderFromIntent(in PaymentIntentInput, status trade.PaymentStatus) (*trade.Order, error) {
	rawStoreID := strings.TrimSpace(in.Metadata[MetadataStoreID])
	if rawStoreID == "" {
		return nil, ErrNotMarketplaceIntent
	}
	storeID, err := strconv.ParseInt(rawStoreID, 10, 64)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_METADATA", "store_id metadata is not a number")
	}

	items, err := trade.ParseOrderItems(in.Metadata[MetadataItems])
	if err != nil {
		return nil, err
	}

	email := in.Metadata[MetadataEmail]
	if email == "" {
		email = in.Email
	}
	return trade.NewOrder(storeID, email, in.Metadata[MetadataName], items, in.Amount, in.ID, status)
}
