package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByVehiclePlate(ctx context.Context, plate string) (*partner.Customer, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	args := m.Called(ctx, document)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newService(t *testing.T) (*CustomerService, *MockCustomerRepository) {
	t.Helper()
	repo := new(MockCustomerRepository)
	bus := new(MockEventPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewCustomerService(repo, bus), repo
}

// Tests

func TestCustomerServiceCreate(t *testing.T) {
	t.Run("creates customer with initial vehicle", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("ExistsByDocument", mock.Anything, "123.456.789-00").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateCustomerRequest{
			Name:     "João Silva",
			Document: "123.456.789-00",
			Phone:    "(11) 99999-0000",
			Vehicles: []CreateVehicleRequest{
				{Model: "Gol", Plate: "abc-1234", Year: "2019"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "João Silva", resp.Name)
		require.Len(t, resp.Vehicles, 1)
		assert.Equal(t, "ABC-1234", resp.Vehicles[0].Plate)
		assert.Equal(t, "2019 Gol", resp.Vehicles[0].Descriptor)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate document", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("ExistsByDocument", mock.Anything, "123").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateCustomerRequest{
			Name:     "João",
			Document: "123",
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("propagates domain validation errors", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
		assert.Error(t, err)
	})
}

func TestCustomerServiceUpdate(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		svc, repo := newService(t)
		customer, err := partner.NewCustomer("João", "123", "(11) 1111-1111", "", "Rua A")
		require.NoError(t, err)
		customer.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		newName := "João Silva"
		resp, err := svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{Name: &newName})

		require.NoError(t, err)
		assert.Equal(t, "João Silva", resp.Name)
		assert.Equal(t, "123", resp.Document)
		assert.Equal(t, "Rua A", resp.Address)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newService(t)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), id, UpdateCustomerRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerServiceVehicles(t *testing.T) {
	t.Run("add vehicle", func(t *testing.T) {
		svc, repo := newService(t)
		customer, err := partner.NewCustomer("João", "", "", "", "")
		require.NoError(t, err)
		customer.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := svc.AddVehicle(context.Background(), customer.ID, CreateVehicleRequest{
			Model: "Uno", Plate: "xyz-9876",
		})

		require.NoError(t, err)
		require.Len(t, resp.Vehicles, 1)
		assert.Equal(t, "XYZ-9876", resp.Vehicles[0].Plate)
	})

	t.Run("remove unknown vehicle", func(t *testing.T) {
		svc, repo := newService(t)
		customer, err := partner.NewCustomer("João", "", "", "", "")
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

		_, err = svc.RemoveVehicle(context.Background(), customer.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerServiceList(t *testing.T) {
	svc, repo := newService(t)
	customer, err := partner.NewCustomer("João", "", "", "", "")
	require.NoError(t, err)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "joão" && f.Page == 1 && f.PageSize == 20
	})).Return([]partner.Customer{*customer}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	customers, total, err := svc.List(context.Background(), CustomerListFilter{Search: "joão"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "João", customers[0].Name)
}

func TestCustomerServiceDelete(t *testing.T) {
	svc, repo := newService(t)
	customer, err := partner.NewCustomer("João", "", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	repo.On("Delete", mock.Anything, customer.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), customer.ID))
	repo.AssertExpectations(t)
}
