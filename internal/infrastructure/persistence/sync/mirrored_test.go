package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindLowStock(ctx context.Context) ([]inventory.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testItem(t *testing.T) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(
		"Filtro de óleo", "FLT-01", "Filtros",
		valueobject.NewMoneyBRLFromFloat(20), valueobject.NewMoneyBRLFromFloat(45),
		10, 2, "A3", "",
	)
	require.NoError(t, err)
	return item
}

func TestMirroredItemRepositorySave(t *testing.T) {
	ctx := context.Background()

	t.Run("remote success marks the write synced", func(t *testing.T) {
		remote := new(MockItemRepository)
		local := new(MockItemRepository)
		journal := newTestJournal(t)
		repo := NewMirroredItemRepository(remote, local, journal, zap.NewNop())

		item := testItem(t)
		local.On("Save", ctx, item).Return(nil)
		remote.On("Save", ctx, item).Return(nil)

		require.NoError(t, repo.Save(ctx, item))

		synced, err := journal.CountByStatus(ctx, StatusSynced)
		require.NoError(t, err)
		assert.Equal(t, int64(1), synced)
		remote.AssertExpectations(t)
		local.AssertExpectations(t)
	})

	t.Run("remote failure leaves the write pending, not an error", func(t *testing.T) {
		remote := new(MockItemRepository)
		local := new(MockItemRepository)
		journal := newTestJournal(t)
		repo := NewMirroredItemRepository(remote, local, journal, zap.NewNop())

		item := testItem(t)
		local.On("Save", ctx, item).Return(nil)
		remote.On("Save", ctx, item).Return(errors.New("remote down"))

		require.NoError(t, repo.Save(ctx, item))

		pending, err := journal.CountByStatus(ctx, StatusPending)
		require.NoError(t, err)
		assert.Equal(t, int64(1), pending)
	})

	t.Run("local failure fails the write outright", func(t *testing.T) {
		remote := new(MockItemRepository)
		local := new(MockItemRepository)
		journal := newTestJournal(t)
		repo := NewMirroredItemRepository(remote, local, journal, zap.NewNop())

		item := testItem(t)
		local.On("Save", ctx, item).Return(errors.New("disk full"))

		assert.Error(t, repo.Save(ctx, item))
		remote.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestMirroredItemRepositoryReads(t *testing.T) {
	ctx := context.Background()

	t.Run("remote answer wins", func(t *testing.T) {
		remote := new(MockItemRepository)
		local := new(MockItemRepository)
		repo := NewMirroredItemRepository(remote, local, newTestJournal(t), zap.NewNop())

		item := testItem(t)
		remote.On("FindByID", ctx, item.ID).Return(item, nil)

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.Code, found.Code)
		local.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("remote outage falls back to the local mirror", func(t *testing.T) {
		remote := new(MockItemRepository)
		local := new(MockItemRepository)
		repo := NewMirroredItemRepository(remote, local, newTestJournal(t), zap.NewNop())

		item := testItem(t)
		remote.On("FindByID", ctx, item.ID).Return(nil, errors.New("remote down"))
		local.On("FindByID", ctx, item.ID).Return(item, nil)

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
	})
}
