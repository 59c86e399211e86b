package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/pkg/database"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn       func(ctx context.Context, c *model.Coupon) error
	getByCodeFn    func(ctx context.Context, code string) (*model.Coupon, error)
	getForUpdateFn func(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	incrementFn    func(ctx context.Context, tx database.TxQuerier, code string) error
	listFn         func(ctx context.Context) ([]model.Coupon, error)
	updateFn       func(ctx context.Context, c *model.Coupon) error
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockCouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, c)
	}
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, code)
	}
	return nil, ErrCouponNotFound
}

func (m *mockCouponRepository) IncrementUsedCount(ctx context.Context, tx database.TxQuerier, code string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, tx, code)
	}
	return nil
}

func (m *mockCouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) Update(ctx context.Context, c *model.Coupon) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockCouponRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestCouponService_Create_NormalizesCode(t *testing.T) {
	var inserted *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.Coupon) error {
			inserted = c
			return nil
		},
	}
	svc := NewCouponService(repo)

	c, err := svc.Create(context.Background(), &model.CreateCouponRequest{
		Code:       " welcome10 ",
		Type:       model.CouponPercentage,
		Value:      intPtr(10),
		UsageLimit: intPtr(100),
		ExpiryDate: time.Now().Add(24 * time.Hour),
		IsActive:   true,
	})

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "WELCOME10", c.Code)
	assert.Equal(t, 0, c.UsedCount, "a new coupon starts unused")
	assert.NotEmpty(t, c.ID)
}

func TestCouponService_Create_DuplicateCode(t *testing.T) {
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.Coupon) error {
			return ErrCouponExists
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Create(context.Background(), &model.CreateCouponRequest{
		Code: "WELCOME10", Type: model.CouponPercentage, Value: intPtr(10),
		UsageLimit: intPtr(100), ExpiryDate: time.Now().Add(24 * time.Hour),
	})

	require.ErrorIs(t, err, ErrCouponExists)
}

func TestCouponService_Create_InvalidType(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	_, err := svc.Create(context.Background(), &model.CreateCouponRequest{
		Code: "BAD", Type: "bogo", Value: intPtr(10),
		UsageLimit: intPtr(100), ExpiryDate: time.Now().Add(24 * time.Hour),
	})

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCouponService_Get_CaseInsensitive(t *testing.T) {
	var lookedUp string
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			lookedUp = code
			return &model.Coupon{Code: code}, nil
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Get(context.Background(), "welcome10")

	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", lookedUp)
}

func TestCouponService_Get_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	_, err := svc.Get(context.Background(), "MISSING")

	require.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCouponService_Update_MergesPartialFields(t *testing.T) {
	existing := &model.Coupon{
		ID: "c1", Code: "WELCOME10", Type: model.CouponPercentage, Value: 10,
		UsageLimit: 100, UsedCount: 25,
		ExpiryDate: time.Now().Add(24 * time.Hour), IsActive: true,
	}
	var updated *model.Coupon
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, c *model.Coupon) error {
			updated = c
			return nil
		},
	}
	svc := NewCouponService(repo)

	c, err := svc.Update(context.Background(), "WELCOME10", &model.UpdateCouponRequest{
		Value: intPtr(15),
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 15, c.Value)
	assert.Equal(t, "WELCOME10", c.Code, "code is immutable")
	assert.Equal(t, 25, c.UsedCount, "used count is immutable")
}

func TestCouponService_Update_LimitBelowUsedCount(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				ID: "c1", Code: code, Type: model.CouponPercentage, Value: 10,
				UsageLimit: 100, UsedCount: 40,
			}, nil
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Update(context.Background(), "WELCOME10", &model.UpdateCouponRequest{
		UsageLimit: intPtr(30),
	})

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCouponService_Delete_ResolvesCodeToID(t *testing.T) {
	var deletedID string
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{ID: "c1", Code: code}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewCouponService(repo)

	err := svc.Delete(context.Background(), "welcome10")

	require.NoError(t, err)
	assert.Equal(t, "c1", deletedID)
}

func TestCouponService_Delete_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	err := svc.Delete(context.Background(), "MISSING")

	require.ErrorIs(t, err, ErrCouponNotFound)
}
