package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// --- Mock Repository ---

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Get(ctx context.Context, storeName string) (*domain.Wishlist, error) {
	args := m.Called(ctx, storeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Save(ctx context.Context, list *domain.Wishlist) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *mockWishlistRepository) Delete(ctx context.Context, storeName string) error {
	args := m.Called(ctx, storeName)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestService(repo *mockWishlistRepository) *WishlistService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return NewWishlistService(repo, producer, logger)
}

func listWithItems(storeName string) *domain.Wishlist {
	list := domain.NewWishlist(storeName)
	list.Items = []domain.WishlistItem{
		{ID: "prod-1", Title: "Laptop", Price: 999},
		{ID: "prod-2", Title: "Phone", Price: 599},
	}
	return list
}

func notFound(storeName string) error {
	return apperrors.NotFound("wishlist", storeName)
}

// --- Tests ---

func TestGetWishlist_Empty(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(nil, notFound("shop"))

	list, err := svc.GetWishlist(ctx, "shop")

	require.NoError(t, err)
	assert.Equal(t, "shop", list.StoreName)
	assert.True(t, list.IsEmpty())
}

func TestAddItem_New(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(nil, notFound("shop"))
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	list, err := svc.AddItem(ctx, "shop", domain.WishlistItem{ID: "prod-1", Title: "Laptop"})

	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalItems())
	repo.AssertExpectations(t)
}

func TestAddItem_DuplicateIsIdempotent(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)

	list, err := svc.AddItem(ctx, "shop", domain.WishlistItem{ID: "prod-1", Title: "Laptop (again)"})

	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalItems())
	// First-seen fields survive.
	assert.Equal(t, "Laptop", list.Items[0].Title)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)

	list, err := svc.RemoveItem(ctx, "shop", "prod-404")

	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalItems())
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestToggleItem_RoundTrip(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	item := domain.WishlistItem{ID: "prod-9", Title: "Headphones", Price: 89}

	// First toggle: absent, so added.
	repo.On("Get", ctx, "shop").Return(nil, notFound("shop")).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	list, added, err := svc.ToggleItem(ctx, "shop", item)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, list.TotalItems())

	// Second toggle: present, so removed. Return the state after the first
	// toggle.
	repo.On("Get", ctx, "shop").Return(list, nil).Once()

	list, added, err = svc.ToggleItem(ctx, "shop", item)
	require.NoError(t, err)
	assert.False(t, added)
	assert.True(t, list.IsEmpty())
}

func TestIsItemInWishlist(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)

	in, err := svc.IsItemInWishlist(ctx, "shop", "prod-1")
	require.NoError(t, err)
	assert.True(t, in)

	out, err := svc.IsItemInWishlist(ctx, "shop", "prod-404")
	require.NoError(t, err)
	assert.False(t, out)
}

func TestClearWishlist(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "shop").Return(nil)

	require.NoError(t, svc.ClearWishlist(ctx, "shop"))
	repo.AssertExpectations(t)
}

func TestMoveToCart_AbsentLeavesBothStoresUnchanged(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)

	calls := 0
	item, err := svc.MoveToCart(ctx, "shop", "prod-404", func(context.Context, domain.WishlistItem, int) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Zero(t, calls)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMoveToCart_PresentInvokesCallbackOnceWithQuantityOne(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Wishlist")).Return(nil)

	var gotQuantity, calls int
	var gotItem domain.WishlistItem
	item, err := svc.MoveToCart(ctx, "shop", "prod-1", func(_ context.Context, it domain.WishlistItem, qty int) error {
		calls++
		gotItem = it
		gotQuantity = qty
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, gotQuantity)
	assert.Equal(t, "prod-1", gotItem.ID)
	assert.Equal(t, "Laptop", item.Title)

	repo.AssertExpectations(t)
}

func TestMoveToCart_CallbackFailureKeepsItem(t *testing.T) {
	repo := new(mockWishlistRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "shop").Return(listWithItems("shop"), nil)

	_, err := svc.MoveToCart(ctx, "shop", "prod-1", func(context.Context, domain.WishlistItem, int) error {
		return errors.New("cart unavailable")
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
