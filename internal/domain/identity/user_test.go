package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		user, err := NewUser("Mecanico1", "senha12345")

		require.NoError(t, err)
		assert.Equal(t, "mecanico1", user.Username, "username is lower-cased")
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "senha12345", user.PasswordHash)
		assert.NotNil(t, user.PasswordChangedAt)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("username too short", func(t *testing.T) {
		_, err := NewUser("ab", "senha12345")
		assert.Error(t, err)
	})

	t.Run("username with invalid characters", func(t *testing.T) {
		_, err := NewUser("user name!", "senha12345")
		assert.Error(t, err)
	})

	t.Run("password too short", func(t *testing.T) {
		_, err := NewUser("mecanico", "abc1")
		assert.Error(t, err)
	})

	t.Run("password without a number", func(t *testing.T) {
		_, err := NewUser("mecanico", "onlyletters")
		assert.Error(t, err)
	})
}

func TestUserVerifyPassword(t *testing.T) {
	user, err := NewUser("mecanico", "senha12345")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("senha12345"))
	assert.False(t, user.VerifyPassword("wrong-password"))
}

func TestUserChangePassword(t *testing.T) {
	t.Run("with correct current password", func(t *testing.T) {
		user, err := NewUser("mecanico", "senha12345")
		require.NoError(t, err)

		require.NoError(t, user.ChangePassword("senha12345", "novasenha99"))

		assert.True(t, user.VerifyPassword("novasenha99"))
		assert.False(t, user.VerifyPassword("senha12345"))
	})

	t.Run("with wrong current password", func(t *testing.T) {
		user, err := NewUser("mecanico", "senha12345")
		require.NoError(t, err)

		err = user.ChangePassword("wrong", "novasenha99")

		assert.Error(t, err)
		assert.True(t, user.VerifyPassword("senha12345"))
	})
}

func TestUserLocking(t *testing.T) {
	t.Run("lock and unlock", func(t *testing.T) {
		user, err := NewUser("mecanico", "senha12345")
		require.NoError(t, err)

		require.NoError(t, user.Lock(15*time.Minute))
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())

		require.NoError(t, user.Unlock())
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
		assert.Zero(t, user.FailedAttempts)
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		user, err := NewUser("mecanico", "senha12345")
		require.NoError(t, err)

		require.NoError(t, user.Lock(time.Nanosecond))
		time.Sleep(time.Millisecond)

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("deactivated user cannot be locked", func(t *testing.T) {
		user, err := NewUser("mecanico", "senha12345")
		require.NoError(t, err)
		require.NoError(t, user.Deactivate())

		assert.Error(t, user.Lock(time.Minute))
	})
}

func TestUserRecordLoginFailure(t *testing.T) {
	user, err := NewUser("mecanico", "senha12345")
	require.NoError(t, err)

	assert.False(t, user.RecordLoginFailure(3, 15*time.Minute))
	assert.False(t, user.RecordLoginFailure(3, 15*time.Minute))
	assert.Equal(t, 2, user.FailedAttempts)

	locked := user.RecordLoginFailure(3, 15*time.Minute)

	assert.True(t, locked)
	assert.True(t, user.IsLocked())
}

func TestUserRecordLoginSuccess(t *testing.T) {
	user, err := NewUser("mecanico", "senha12345")
	require.NoError(t, err)

	user.FailedAttempts = 2
	user.RecordLoginSuccess("192.168.0.10")

	assert.Zero(t, user.FailedAttempts)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "192.168.0.10", user.LastLoginIP)
}

func TestUserDeactivate(t *testing.T) {
	user, err := NewUser("mecanico", "senha12345")
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.True(t, user.IsDeactivated())
	assert.False(t, user.CanLogin())

	assert.Error(t, user.Deactivate(), "cannot deactivate twice")
}

func TestUserGetDisplayNameOrUsername(t *testing.T) {
	user, err := NewUser("mecanico", "senha12345")
	require.NoError(t, err)

	assert.Equal(t, "mecanico", user.GetDisplayNameOrUsername())

	require.NoError(t, user.SetDisplayName("João Mecânico"))
	assert.Equal(t, "João Mecânico", user.GetDisplayNameOrUsername())
}
