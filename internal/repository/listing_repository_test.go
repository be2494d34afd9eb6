package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare-okc/foodshare/internal/model"
	"github.com/foodshare-okc/foodshare/internal/testutil"
)

func seedUser(t *testing.T, db *sql.DB, email, name string) model.User {
	t.Helper()
	u, err := NewUserRepo(db).Create(context.Background(), CreateUserParams{
		Email:       email,
		Password:    "secret123",
		DisplayName: name,
		IsGiver:     true,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func TestListingCreateStartsAvailable(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	owner := seedUser(t, db, "giver@example.com", "Giver")

	l, err := repo.Create(ctx, CreateListingParams{
		UserID:         owner.ID,
		Title:          "Half a lasagna",
		Description:    "Vegetarian, made yesterday",
		PickupLocation: str("porch on 23rd St"),
	})
	require.NoError(t, err)
	require.NotZero(t, l.ID)
	require.Equal(t, model.StatusAvailable, l.Status)
	require.Equal(t, owner.ID, l.UserID)
	require.False(t, l.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Giver", got.DisplayName)
	require.Equal(t, l.ID, got.ID)

	_, err = repo.GetByID(ctx, l.ID+100)
	require.ErrorIs(t, err, ErrListingNotFound)
}

func TestFeedLimitAndOrdering(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	owner := seedUser(t, db, "giver@example.com", "Giver")

	var ids []uint64
	for i := 0; i < 25; i++ {
		l, err := repo.Create(ctx, CreateListingParams{
			UserID:      owner.ID,
			Title:       "Loaf of bread",
			Description: "Day old sourdough",
		})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	// one claimed listing must never show up in the feed
	require.NoError(t, repo.Claim(ctx, ids[0]))

	feed, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 20)
	for i := 1; i < len(feed); i++ {
		require.Greater(t, feed[i-1].ID, feed[i].ID, "feed must be newest first")
	}
	for _, lw := range feed {
		require.NotEqual(t, ids[0], lw.ID)
		require.Equal(t, model.StatusAvailable, lw.Status)
		require.Equal(t, "Giver", lw.DisplayName)
	}
}

func TestListByOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	a := seedUser(t, db, "a@example.com", "A")
	b := seedUser(t, db, "b@example.com", "B")

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, CreateListingParams{UserID: a.ID, Title: "x", Description: "y"})
		require.NoError(t, err)
	}
	claimed, err := repo.Create(ctx, CreateListingParams{UserID: a.ID, Title: "x", Description: "y"})
	require.NoError(t, err)
	require.NoError(t, repo.Claim(ctx, claimed.ID))

	mine, err := repo.ListByOwner(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 4, "owner view includes non-available listings")

	other, err := repo.ListByOwner(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestClaimCompleteTransitions(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewListingRepo(db)
	ctx := context.Background()
	owner := seedUser(t, db, "giver@example.com", "Giver")

	l, err := repo.Create(ctx, CreateListingParams{UserID: owner.ID, Title: "x", Description: "y"})
	require.NoError(t, err)

	// completing before any claim must fail
	require.ErrorIs(t, repo.Complete(ctx, l.ID), ErrListingNotFound)

	require.NoError(t, repo.Claim(ctx, l.ID))
	require.ErrorIs(t, repo.Claim(ctx, l.ID), ErrListingNotFound)

	require.NoError(t, repo.Complete(ctx, l.ID))
	require.ErrorIs(t, repo.Complete(ctx, l.ID), ErrListingNotFound)

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, got.Status)

	require.ErrorIs(t, repo.Claim(ctx, l.ID+100), ErrListingNotFound)
}

func TestConcurrentClaimSingleWinner(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewListingRepo(db)
	events := NewEventRepo(db)
	ctx := context.Background()
	owner := seedUser(t, db, "giver@example.com", "Giver")

	l, err := repo.Create(ctx, CreateListingParams{UserID: owner.ID, Title: "x", Description: "y"})
	require.NoError(t, err)

	const claimers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(receiverID uint64) {
			defer wg.Done()
			if err := repo.Claim(ctx, l.ID); err != nil {
				return
			}
			_, err := events.Append(ctx, model.ListingEvent{
				ListingID:   l.ID,
				ActorID:     receiverID,
				RecipientID: owner.ID,
				EventType:   model.EventClaimRequested,
			})
			mu.Lock()
			if err == nil {
				wins++
			}
			mu.Unlock()
		}(uint64(100 + i))
	}
	wg.Wait()

	require.Equal(t, 1, wins, "exactly one claimer may win")

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusClaimed, got.Status)

	n, err := events.CountByListing(ctx, l.ID, model.EventClaimRequested)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestEventHistoryOrdering(t *testing.T) {
	db := testutil.OpenDB(t)
	events := NewEventRepo(db)
	ctx := context.Background()
	owner := seedUser(t, db, "giver@example.com", "Giver")
	receiver := seedUser(t, db, "recv@example.com", "Recv")

	l, err := NewListingRepo(db).Create(ctx, CreateListingParams{
		UserID: owner.ID, Title: "x", Description: "y",
	})
	require.NoError(t, err)

	claim, err := events.Append(ctx, model.ListingEvent{
		ListingID:   l.ID,
		ActorID:     receiver.ID,
		RecipientID: owner.ID,
		EventType:   model.EventClaimRequested,
	})
	require.NoError(t, err)
	require.NotZero(t, claim.ID)
	require.False(t, claim.CreatedAt.IsZero())

	done, err := events.Append(ctx, model.ListingEvent{
		ListingID:   l.ID,
		ActorID:     owner.ID,
		RecipientID: receiver.ID,
		EventType:   model.EventCompleted,
	})
	require.NoError(t, err)

	hist, err := events.ListByListing(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, claim.ID, hist[0].ID)
	require.Equal(t, done.ID, hist[1].ID)
	require.Equal(t, model.EventClaimRequested, hist[0].EventType)
	require.Equal(t, model.EventCompleted, hist[1].EventType)
}
