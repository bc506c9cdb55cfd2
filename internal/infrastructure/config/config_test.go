package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setenv applies a batch of MECANICPRO_ variables for one subtest.
// t.Setenv restores the previous values on cleanup, and viper treats
// an empty value as unset.
func setenv(t *testing.T, vars map[string]string) {
	t.Helper()
	base := []string{
		"MECANICPRO_APP_NAME", "MECANICPRO_APP_ENV", "MECANICPRO_APP_PORT",
		"MECANICPRO_DATABASE_HOST", "MECANICPRO_DATABASE_PORT",
		"MECANICPRO_DATABASE_USER", "MECANICPRO_DATABASE_PASSWORD",
		"MECANICPRO_DATABASE_DBNAME", "MECANICPRO_DATABASE_SSLMODE",
		"MECANICPRO_DATABASE_MAX_OPEN_CONNS", "MECANICPRO_DATABASE_MAX_IDLE_CONNS",
		"MECANICPRO_JWT_SECRET", "MECANICPRO_COOKIE_SECURE",
		"MECANICPRO_SWAGGER_ENABLED", "MECANICPRO_SWAGGER_REQUIRE_AUTH",
		"MECANICPRO_SWAGGER_ALLOWED_IPS",
	}
	for _, k := range base {
		t.Setenv(k, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setenv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mecanicpro-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "mecanicpro", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoadFromEnvironment(t *testing.T) {
	setenv(t, map[string]string{
		"MECANICPRO_APP_NAME":                "oficina-api",
		"MECANICPRO_APP_ENV":                 "testing",
		"MECANICPRO_APP_PORT":                "9000",
		"MECANICPRO_DATABASE_HOST":           "testdb.local",
		"MECANICPRO_DATABASE_PORT":           "5433",
		"MECANICPRO_DATABASE_USER":           "testuser",
		"MECANICPRO_DATABASE_PASSWORD":       "testpass",
		"MECANICPRO_DATABASE_DBNAME":         "testdb",
		"MECANICPRO_DATABASE_SSLMODE":        "require",
		"MECANICPRO_DATABASE_MAX_OPEN_CONNS": "50",
		"MECANICPRO_DATABASE_MAX_IDLE_CONNS": "10",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "oficina-api", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "testdb.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadPoolValidation(t *testing.T) {
	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		setenv(t, map[string]string{
			"MECANICPRO_DATABASE_MAX_OPEN_CONNS": "10",
			"MECANICPRO_DATABASE_MAX_IDLE_CONNS": "20",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("explicit zero open conns falls back to default", func(t *testing.T) {
		setenv(t, map[string]string{"MECANICPRO_DATABASE_MAX_OPEN_CONNS": "0"})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("negative idle conns rejected", func(t *testing.T) {
		setenv(t, map[string]string{"MECANICPRO_DATABASE_MAX_IDLE_CONNS": "-1"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

// productionEnv is a baseline that passes every production check;
// subtests break one knob at a time.
func productionEnv(overrides map[string]string) map[string]string {
	vars := map[string]string{
		"MECANICPRO_APP_ENV":           "production",
		"MECANICPRO_JWT_SECRET":        "this-is-a-very-secure-jwt-secret-key-32chars",
		"MECANICPRO_DATABASE_PASSWORD": "secure-password",
		"MECANICPRO_DATABASE_SSLMODE":  "require",
		"MECANICPRO_COOKIE_SECURE":     "true",
		"MECANICPRO_SWAGGER_ENABLED":   "false",
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return vars
}

func TestLoadProductionValidation(t *testing.T) {
	t.Run("valid production config passes", func(t *testing.T) {
		setenv(t, productionEnv(nil))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	cases := []struct {
		name      string
		overrides map[string]string
		wantErr   string
	}{
		{
			name:      "missing jwt secret",
			overrides: map[string]string{"MECANICPRO_JWT_SECRET": ""},
			wantErr:   "jwt.secret is required in production",
		},
		{
			name:      "short jwt secret",
			overrides: map[string]string{"MECANICPRO_JWT_SECRET": "short-secret"},
			wantErr:   "jwt.secret must be at least 32 characters",
		},
		{
			name:      "missing database password",
			overrides: map[string]string{"MECANICPRO_DATABASE_PASSWORD": ""},
			wantErr:   "database.password is required in production",
		},
		{
			name:      "ssl disabled",
			overrides: map[string]string{"MECANICPRO_DATABASE_SSLMODE": "disable"},
			wantErr:   "database.sslmode cannot be 'disable' in production",
		},
		{
			name: "swagger open to the world",
			overrides: map[string]string{
				"MECANICPRO_SWAGGER_ENABLED":      "true",
				"MECANICPRO_SWAGGER_REQUIRE_AUTH": "false",
			},
			wantErr: "swagger endpoint must be disabled, require authentication, or have IP restriction",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setenv(t, productionEnv(tc.overrides))

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("swagger behind auth is allowed", func(t *testing.T) {
		setenv(t, productionEnv(map[string]string{
			"MECANICPRO_SWAGGER_ENABLED":      "true",
			"MECANICPRO_SWAGGER_REQUIRE_AUTH": "true",
		}))

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "oficina",
		DBName:  "mecanicpro",
		SSLMode: "disable",
	}

	t.Run("carries host, user and sslmode", func(t *testing.T) {
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "oficina")
		assert.Contains(t, dsn, "mecanicpro")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		withPass := cfg
		withPass.Password = "pass@word#123"
		assert.Contains(t, withPass.DSN(), "pass%40word%23123")
	})

	t.Run("empty password still builds", func(t *testing.T) {
		assert.NotEmpty(t, cfg.DSN())
	})
}
