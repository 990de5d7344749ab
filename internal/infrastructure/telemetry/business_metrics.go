package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is provided
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics counts marketplace activity. A nil *BusinessMetrics
// records nothing, so services may run without metrics.
type BusinessMetrics struct {
	ordersRecorded  *Counter
	orderAmount     *FloatCounter
	storesCreated   *Counter
	productsCreated *Counter
	webhookEvents   *Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		bm  BusinessMetrics
		err error
	)
	if bm.ordersRecorded, err = NewCounter(meter, "orders_recorded_total",
		"Orders created from payment intents", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = NewFloatCounter(meter, "order_amount_total",
		"Sum of recorded order amounts", "{currency}"); err != nil {
		return nil, err
	}
	if bm.storesCreated, err = NewCounter(meter, "stores_created_total",
		"Stores created by merchants", "{stores}"); err != nil {
		return nil, err
	}
	if bm.productsCreated, err = NewCounter(meter, "products_created_total",
		"Products created by merchants", "{products}"); err != nil {
		return nil, err
	}
	if bm.webhookEvents, err = NewCounter(meter, "stripe_webhook_events_total",
		"Stripe webhook events received", "{events}"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrder counts a newly recorded order and adds its amount
func (bm *BusinessMetrics) RecordOrder(ctx context.Context, status string, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := attribute.String("status", status)
	bm.ordersRecorded.Inc(ctx, attrs)
	bm.orderAmount.Add(ctx, amount.InexactFloat64(), attrs)
}

// RecordStoreCreated counts a new store
func (bm *BusinessMetrics) RecordStoreCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.storesCreated.Inc(ctx)
}

// RecordProductCreated counts a new product
func (bm *BusinessMetrics) RecordProductCreated(ctx context.Context, category string) {
	if bm == nil {
		return
	}
	bm.productsCreated.Inc(ctx, attribute.String("category", category))
}

// Webhook outcomes
const (
	WebhookOutcomeProcessed = "processed"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeDuplicate = "duplicate"
	WebhookOutcomeFailed    = "failed"
)

// RecordWebhookEvent counts a received webhook event by type and outcome
func (bm *BusinessMetrics) RecordWebhookEvent(ctx context.Context, eventType, outcome string) {
	if bm == nil {
		return
	}
	bm.webhookEvents.Inc(ctx,
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome))
}
