//go:build unit

package user_test

import (
	"testing"

	"shareit/internal/domain/user"
	"shareit/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewUserBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestUser(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "Test User", actual.Name())
		assert.Equal(t, "test@example.com", actual.Email().String())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid email OK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "empty email rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "malformed email rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing @ rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("email stored lowercase", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().WithEmail("Mixed.Case@Example.COM").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "mixed.case@example.com", actual.Email().String())
	})

	t.Run("name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty name rejected",
				mutate: func(b *builder.UserBuilder) { b.WithName("") },
				errIs:  user.ErrEmptyName,
			},
			{
				name:   "whitespace-only name rejected",
				mutate: func(b *builder.UserBuilder) { b.WithName("   ") },
				errIs:  user.ErrEmptyName,
			},
		})
	})

	t.Run("rename", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, actual.Rename("  New Name  "))
		assert.Equal(t, "New Name", actual.Name())

		assert.ErrorIs(t, actual.Rename(" "), user.ErrEmptyName)
		assert.Equal(t, "New Name", actual.Name())
	})

	t.Run("change email", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, actual.ChangeEmail("other@example.com"))
		assert.Equal(t, "other@example.com", actual.Email().String())

		assert.ErrorIs(t, actual.ChangeEmail("not-an-email"), user.ErrInvalidEmail)
		assert.Equal(t, "other@example.com", actual.Email().String())
	})
}
