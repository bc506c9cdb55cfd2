package settings

import "context"

// Repository defines the interface for the settings singleton.
// Load creates the row on first access so callers always get a value.
type Repository interface {
	// Load returns the settings row, creating it when missing
	Load(ctx context.Context) (*Settings, error)

	// Save persists the settings row
	Save(ctx context.Context, s *Settings) error
}
