package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/pkg/database"
)

// mockOrderRepository is a mock implementation of OrderRepositoryInterface.
type mockOrderRepository struct {
	insertFn       func(ctx context.Context, tx database.TxQuerier, o *model.Order) error
	getByIDFn      func(ctx context.Context, id string) (*model.Order, error)
	listByUserFn   func(ctx context.Context, userID string) ([]model.Order, error)
	listAllFn      func(ctx context.Context, f model.OrderFilter) ([]model.Order, error)
	updateStatusFn func(ctx context.Context, o *model.Order) error
	statsFn        func(ctx context.Context) (int, int, error)
	recentFn       func(ctx context.Context, limit int) ([]model.Order, error)
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, o)
	}
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Order{}, nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, f)
	}
	return []model.Order{}, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, o *model.Order) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, o)
	}
	return nil
}

func (m *mockOrderRepository) Stats(ctx context.Context) (int, int, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return 0, 0, nil
}

func (m *mockOrderRepository) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return []model.Order{}, nil
}

func orderWithStatus(status model.OrderStatus) *mockOrderRepository {
	return &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: id, UserID: "user-1", Status: status}, nil
		},
	}
}

func TestOrderService_Get_OwnerMismatchHidden(t *testing.T) {
	svc := NewOrderService(orderWithStatus(model.StatusPending))

	_, err := svc.Get(context.Background(), "o1", "someone-else")

	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Get_AdminSeesAnyOrder(t *testing.T) {
	svc := NewOrderService(orderWithStatus(model.StatusShipped))

	resp, err := svc.Get(context.Background(), "o1", "")

	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, resp.Status)
	assert.Equal(t, 75, resp.ProgressPercent)
}

func TestOrderService_UpdateStatus_ForwardStep(t *testing.T) {
	repo := orderWithStatus(model.StatusPending)
	var saved *model.Order
	repo.updateStatusFn = func(ctx context.Context, o *model.Order) error {
		saved = o
		return nil
	}
	svc := NewOrderService(repo)

	resp, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{
		Status: model.StatusConfirmed,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, model.StatusConfirmed, saved.Status)
	assert.Equal(t, 50, resp.ProgressPercent)
}

func TestOrderService_UpdateStatus_SkipRejected(t *testing.T) {
	repo := orderWithStatus(model.StatusPending)
	var called bool
	repo.updateStatusFn = func(ctx context.Context, o *model.Order) error {
		called = true
		return nil
	}
	svc := NewOrderService(repo)

	_, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{
		Status: model.StatusShipped,
	})

	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.False(t, called, "a rejected transition must not touch the store")
}

func TestOrderService_UpdateStatus_CancelFromNonTerminal(t *testing.T) {
	for _, from := range []model.OrderStatus{model.StatusPending, model.StatusConfirmed, model.StatusShipped} {
		svc := NewOrderService(orderWithStatus(from))

		resp, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{
			Status: model.StatusCancelled,
		})

		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, 0, resp.ProgressPercent)
	}
}

func TestOrderService_UpdateStatus_TerminalIsFinal(t *testing.T) {
	for _, from := range []model.OrderStatus{model.StatusDelivered, model.StatusCancelled} {
		svc := NewOrderService(orderWithStatus(from))

		for _, to := range []model.OrderStatus{model.StatusPending, model.StatusConfirmed, model.StatusShipped, model.StatusDelivered, model.StatusCancelled} {
			_, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{Status: to})
			require.ErrorIs(t, err, ErrInvalidStatusTransition, "%s -> %s", from, to)
		}
	}
}

func TestOrderService_UpdateStatus_SetsTrackingNumber(t *testing.T) {
	repo := orderWithStatus(model.StatusConfirmed)
	var saved *model.Order
	repo.updateStatusFn = func(ctx context.Context, o *model.Order) error {
		saved = o
		return nil
	}
	svc := NewOrderService(repo)

	tracking := "TRK-123456"
	_, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{
		Status:         model.StatusShipped,
		TrackingNumber: &tracking,
	})

	require.NoError(t, err)
	require.NotNil(t, saved.TrackingNumber)
	assert.Equal(t, "TRK-123456", *saved.TrackingNumber)
}

func TestOrderService_UpdateStatus_OrderNotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.UpdateStatus(context.Background(), "missing", &model.UpdateOrderStatusRequest{
		Status: model.StatusConfirmed,
	})

	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewOrderService(orderWithStatus(model.StatusPending))

	_, err := svc.UpdateStatus(context.Background(), "o1", &model.UpdateOrderStatusRequest{
		Status: "returned",
	})

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestOrderService_ListAll_InvalidStatusFilter(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.ListAll(context.Background(), model.OrderFilter{Status: "bogus"})

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestOrderService_ListByUser_AddsProgress(t *testing.T) {
	repo := &mockOrderRepository{
		listByUserFn: func(ctx context.Context, userID string) ([]model.Order, error) {
			return []model.Order{
				{ID: "o1", UserID: userID, Status: model.StatusDelivered},
				{ID: "o2", UserID: userID, Status: model.StatusPending},
			}, nil
		},
	}
	svc := NewOrderService(repo)

	orders, err := svc.ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 100, orders[0].ProgressPercent)
	assert.Equal(t, 25, orders[1].ProgressPercent)
}
