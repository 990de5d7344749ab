package billing

import (
	"context"

	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stretchr/testify/mock"
)

// MockUserSubscriptionRepository is a mock implementation of UserSubscriptionRepository
type MockUserSubscriptionRepository struct {
	mock.Mock
}

func (m *MockUserSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*identity.UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserSubscription), args.Error(1)
}

func (m *MockUserSubscriptionRepository) Upsert(ctx context.Context, sub *identity.UserSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockSubscriptionReader is a mock implementation of SubscriptionReader
type MockSubscriptionReader struct {
	mock.Mock
}

func (m *MockSubscriptionReader) GetSubscription(ctx context.Context, subscriptionID string) (*infrabilling.SubscriptionStatus, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infrabilling.SubscriptionStatus), args.Error(1)
}

// MockEventVerifier is a mock implementation of EventVerifier
type MockEventVerifier struct {
	mock.Mock
}

func (m *MockEventVerifier) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(stripe.Event), args.Error(1)
}

// MockPaymentRecorder is a mock implementation of PaymentRecorder
type MockPaymentRecorder struct {
	mock.Mock
}

func (m *MockPaymentRecorder) RecordPaymentIntent(ctx context.Context, in tradeapp.PaymentIntentInput) (bool, error) {
	args := m.Called(ctx, in)
	return args.Bool(0), args.Error(1)
}

// MockPlanInvalidator is a mock implementation of PlanInvalidator
type MockPlanInvalidator struct {
	mock.Mock
}

func (m *MockPlanInvalidator) InvalidateUser(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}
