package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  string
	}{
		{"add vehicle color", "add_vehicle_color"},
		{"Add-Vehicle-Color", "add_vehicle_color"},
		{"ADD__VEHICLE__COLOR", "add_vehicle_color"},
		{"service orders v2", "service_orders_v2"},
		{"   spaces   ", "spaces"},
		{"acentuação!@#ok", "ok"},
		{"trailing_", "trailing"},
		{"", ""},
	} {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add vehicle color", "Adds the color column to vehicles")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14) // YYYYMMDDHHMMSS
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_vehicle_color.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_vehicle_color.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add vehicle color")
	assert.Contains(t, string(up), "Adds the color column to vehicles")
	assert.Contains(t, string(up), "UP migration")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
	assert.Contains(t, string(down), "DOWN migration")
}

func TestCreateMigrationMakesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(nested, "init schema", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init_schema.up.sql", "000001_init_schema.down.sql",
		"000002_add_vehicles.up.sql", "000002_add_vehicles.down.sql",
		"README.md", ".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_vehicles"}, migrations)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
