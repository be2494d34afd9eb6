package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare-okc/foodshare/internal/model"
	"github.com/foodshare-okc/foodshare/internal/testutil"
	"github.com/foodshare-okc/foodshare/internal/utils"
)

func str(s string) *string { return &s }

func TestUserCreateAndFetch(t *testing.T) {
	repo := NewUserRepo(testutil.OpenDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, CreateUserParams{
		Email:       "  Alice@Example.COM ",
		Password:    "hunter22",
		DisplayName: "Alice",
		ZipCode:     str("73102"),
		IsGiver:     true,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotEqual(t, "hunter22", u.PasswordHash)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "hunter22"))
	require.True(t, u.IsGiver)
	require.False(t, u.IsReceiver)
	require.Equal(t, "all", u.NotificationPref)
	require.False(t, u.CreatedAt.IsZero())

	// lookup normalizes case the same way create does
	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, u.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepo(testutil.OpenDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserParams{
		Email:       "bob@example.com",
		Password:    "secret123",
		DisplayName: "Bob",
		IsReceiver:  true,
	}, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserParams{
		Email:       "BOB@example.com",
		Password:    "different",
		DisplayName: "Other Bob",
		IsGiver:     true,
	}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailExists)

	n, err := repo.CountByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUserUpdateProfilePartialMerge(t *testing.T) {
	repo := NewUserRepo(testutil.OpenDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, CreateUserParams{
		Email:       "carol@example.com",
		Password:    "secret123",
		DisplayName: "Carol",
		ZipCode:     str("73119"),
		IsReceiver:  true,
	}, bcrypt.MinCost)
	require.NoError(t, err)

	// only display_name is sent; everything else must survive untouched
	got, err := repo.UpdateProfile(ctx, u.ID, UpdateProfileParams{
		DisplayName: str("Carol D."),
	})
	require.NoError(t, err)
	require.Equal(t, "Carol D.", got.DisplayName)
	require.NotNil(t, got.ZipCode)
	require.Equal(t, "73119", *got.ZipCode)
	require.True(t, got.IsReceiver)

	driver := true
	notes := "leave on porch"
	got, err = repo.UpdateProfile(ctx, u.ID, UpdateProfileParams{
		IsDriver:    &driver,
		PickupNotes: &notes,
	})
	require.NoError(t, err)
	require.True(t, got.IsDriver)
	require.True(t, got.IsReceiver)
	require.Equal(t, "leave on porch", got.PickupNotes)
	require.Equal(t, "Carol D.", got.DisplayName)

	// an all-nil update is just a read
	got, err = repo.UpdateProfile(ctx, u.ID, UpdateProfileParams{})
	require.NoError(t, err)
	require.Equal(t, "Carol D.", got.DisplayName)

	_, err = repo.UpdateProfile(ctx, u.ID+100, UpdateProfileParams{
		DisplayName: str("Ghost"),
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPublicUserOmitsHash(t *testing.T) {
	u := model.User{ID: 1, Email: "a@b.c", PasswordHash: "$2a$hash", DisplayName: "A"}
	pub := u.Public()
	require.Equal(t, u.ID, pub.ID)
	require.Equal(t, u.Email, pub.Email)
}
