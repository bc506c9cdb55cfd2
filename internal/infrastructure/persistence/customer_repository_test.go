package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func customerRows(id uuid.UUID, name, document string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "sync_status",
		"name", "document", "phone", "email", "address",
	}).AddRow(id, now, now, 1, "pending", name, document, "11 99999-0000", "", "")
}

func TestNewGormCustomerRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer with vehicles", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		vehicleID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(customerRows(customerID, "João Silva", "123.456.789-00"))

		vehicleRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "customer_id",
			"model", "plate", "color", "chassis", "km", "year", "image_url",
		}).AddRow(vehicleID, now, now, customerID, "Fiat Uno", "ABC1D23", "Branco", "", "85000", "2015", "")

		mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE "vehicles"\."customer_id" = \$1`).
			WithArgs(customerID).
			WillReturnRows(vehicleRows)

		customer, err := repo.FindByID(context.Background(), customerID)

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "João Silva", customer.Name)
		require.Len(t, customer.Vehicles, 1)
		assert.Equal(t, "ABC1D23", customer.Vehicles[0].Plate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.Nil(t, customer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByDocument(t *testing.T) {
	t.Run("finds customer and trims the document", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE document = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("123.456.789-00", 1).
			WillReturnRows(customerRows(customerID, "João Silva", "123.456.789-00"))

		mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE "vehicles"\."customer_id" = \$1`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "model", "plate"}))

		customer, err := repo.FindByDocument(context.Background(), "  123.456.789-00  ")

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown document", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE document = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("000.000.000-00", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByDocument(context.Background(), "000.000.000-00")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByVehiclePlate(t *testing.T) {
	t.Run("normalizes the plate before searching", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		vehicleID := uuid.New()
		now := time.Now()

		vehicleRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "customer_id",
			"model", "plate", "color", "chassis", "km", "year", "image_url",
		}).AddRow(vehicleID, now, now, customerID, "Fiat Uno", "ABC1D23", "", "", "", "2015", "")

		mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE plate = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ABC1D23", 1).
			WillReturnRows(vehicleRows)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(customerRows(customerID, "João Silva", "123.456.789-00"))

		mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE "vehicles"\."customer_id" = \$1`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "model", "plate"}))

		customer, err := repo.FindByVehiclePlate(context.Background(), " abc1d23 ")

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown plate", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE plate = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ZZZ9Z99", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByVehiclePlate(context.Background(), "ZZZ9Z99")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Count(t *testing.T) {
	t.Run("applies the search filter", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE name ILIKE \$1 OR document ILIKE \$2`).
			WithArgs("%Carl%", "%Carl%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.Count(context.Background(), shared.Filter{Search: "Carl"})

		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_ExistsByDocument(t *testing.T) {
	t.Run("reports existing document", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE document = \$1`).
			WithArgs("123.456.789-00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByDocument(context.Background(), "123.456.789-00")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports missing document", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE document = \$1`).
			WithArgs("000.000.000-00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByDocument(context.Background(), "000.000.000-00")

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	t.Run("deletes customer and vehicles", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "vehicles" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), customerID)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing is deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "vehicles" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
