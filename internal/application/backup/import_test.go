package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// importStore is a minimal in-memory stand-in for the persistence
// layer. Atomically snapshots the data and restores it when the
// callback fails, mirroring a database rollback.
type importStore struct {
	customers []string
}

func (s *importStore) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := append([]string(nil), s.customers...)
	if err := fn(ctx); err != nil {
		s.customers = snapshot
		return err
	}
	return nil
}

func (s *importStore) Wipe(ctx context.Context) error {
	s.customers = nil
	return nil
}

type storeCustomerRepo struct {
	partner.CustomerRepository
	store  *importStore
	failOn string
}

func (r *storeCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	if r.failOn != "" && customer.Name == r.failOn {
		return errors.New("connection reset during save")
	}
	r.store.customers = append(r.store.customers, customer.Name)
	return nil
}

type storeSettingsRepo struct {
	settings.Repository
	cfg *settings.Settings
}

func (r *storeSettingsRepo) Load(ctx context.Context) (*settings.Settings, error) {
	return r.cfg, nil
}

func (r *storeSettingsRepo) Save(ctx context.Context, s *settings.Settings) error {
	return nil
}

// newImportService wires a Service against the in-memory store; only
// the customer path is exercised, the other repositories stay unused.
func newImportService(store *importStore, failOn string) *Service {
	return NewService(
		&storeCustomerRepo{store: store, failOn: failOn},
		nil,
		nil,
		nil,
		&storeSettingsRepo{cfg: settings.NewSettings()},
		store,
		store,
		zap.NewNop(),
	)
}

func TestImportAtomicity(t *testing.T) {
	doc := &Document{
		NextServiceNumber: 5,
		Customers: []CustomerDoc{
			{ID: "legacy-1", Name: "Maria Souza"},
			{ID: "legacy-2", Name: "Pedro Lima"},
		},
	}

	t.Run("failed restore leaves prior data intact", func(t *testing.T) {
		store := &importStore{customers: []string{"Cliente Antigo"}}
		svc := newImportService(store, "Pedro Lima")

		err := svc.Import(context.Background(), doc)

		require.Error(t, err)
		assert.Equal(t, []string{"Cliente Antigo"}, store.customers)
	})

	t.Run("successful import replaces the data", func(t *testing.T) {
		store := &importStore{customers: []string{"Cliente Antigo"}}
		svc := newImportService(store, "")

		require.NoError(t, svc.Import(context.Background(), doc))
		assert.Equal(t, []string{"Maria Souza", "Pedro Lima"}, store.customers)
	})
}
