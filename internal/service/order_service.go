package service

import (
	"context"
	"fmt"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/pkg/database"
)

// OrderRepositoryInterface defines the interface for order data access.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, o *model.Order) error
	Stats(ctx context.Context) (revenue, count int, err error)
	Recent(ctx context.Context, limit int) ([]model.Order, error)
}

// OrderService provides order history and the admin status lifecycle.
type OrderService struct {
	orders OrderRepositoryInterface
}

// NewOrderService creates a new OrderService with the given repository.
func NewOrderService(orders OrderRepositoryInterface) *OrderService {
	return &OrderService{orders: orders}
}

// Get retrieves one order. When ownerID is non-empty the order must belong to
// that user; admin callers pass an empty ownerID.
// Returns ErrOrderNotFound if the order doesn't exist or belongs to someone else.
func (s *OrderService) Get(ctx context.Context, id, ownerID string) (*model.OrderResponse, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil || (ownerID != "" && o.UserID != ownerID) {
		// Hide other users' orders behind the same not-found answer.
		return nil, ErrOrderNotFound
	}
	return model.NewOrderResponse(o), nil
}

// ListByUser retrieves a user's order history, newest-first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]model.OrderResponse, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(orders), nil
}

// ListAll retrieves orders for the back office.
func (s *OrderService) ListAll(ctx context.Context, f model.OrderFilter) ([]model.OrderResponse, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidRequest
	}
	orders, err := s.orders.ListAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return toResponses(orders), nil
}

// UpdateStatus moves an order through its lifecycle. Invalid moves are
// rejected and the order is left unchanged. The tracking number may be set
// along with the transition (typically when shipping).
// Returns ErrOrderNotFound or ErrInvalidStatusTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *model.UpdateOrderStatusRequest) (*model.OrderResponse, error) {
	if req == nil || !req.Status.Valid() {
		return nil, ErrInvalidRequest
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !o.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, req.Status)
	}

	o.Status = req.Status
	if req.TrackingNumber != nil {
		o.TrackingNumber = req.TrackingNumber
	}
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	return model.NewOrderResponse(o), nil
}

func toResponses(orders []model.Order) []model.OrderResponse {
	out := make([]model.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *model.NewOrderResponse(&orders[i]))
	}
	return out
}
