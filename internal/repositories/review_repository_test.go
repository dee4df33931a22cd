package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "angido/internal/models/db_models"
)

func TestReviewWritesRecomputePlaceRating(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	place := seedPlace(t, db, "Bún chả Hương Liên")

	ratings := []int{5, 4, 4}
	reviews := make([]*dbm.Review, 0, len(ratings))
	for _, rating := range ratings {
		review := &dbm.Review{PlaceID: place.ID, AccountID: uuid.New(), Rating: rating}
		require.NoError(t, repo.Create(ctx, review))
		reviews = append(reviews, review)
	}

	got := reloadPlace(t, db, place.ID)
	assert.InDelta(t, 4.3, got.AvgRating, 1e-9)
	assert.EqualValues(t, 3, got.ReviewCount)

	reviews[0].Rating = 1
	require.NoError(t, repo.Update(ctx, reviews[0]))
	got = reloadPlace(t, db, place.ID)
	assert.InDelta(t, 3.0, got.AvgRating, 1e-9)
	assert.EqualValues(t, 3, got.ReviewCount)

	require.NoError(t, repo.Delete(ctx, reviews[1]))
	got = reloadPlace(t, db, place.ID)
	assert.InDelta(t, 2.5, got.AvgRating, 1e-9)
	assert.EqualValues(t, 2, got.ReviewCount)

	require.NoError(t, repo.Delete(ctx, reviews[0]))
	require.NoError(t, repo.Delete(ctx, reviews[2]))
	got = reloadPlace(t, db, place.ID)
	assert.Zero(t, got.AvgRating)
	assert.Zero(t, got.ReviewCount)
}

func TestReviewRatingIgnoresOtherPlaces(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	a := seedPlace(t, db, "Cơm gà Bà Buội")
	b := seedPlace(t, db, "Cao lầu Thanh")

	require.NoError(t, repo.Create(ctx, &dbm.Review{PlaceID: a.ID, AccountID: uuid.New(), Rating: 2}))
	require.NoError(t, repo.Create(ctx, &dbm.Review{PlaceID: b.ID, AccountID: uuid.New(), Rating: 5}))

	assert.InDelta(t, 2.0, reloadPlace(t, db, a.ID).AvgRating, 1e-9)
	assert.InDelta(t, 5.0, reloadPlace(t, db, b.ID).AvgRating, 1e-9)
}

func TestReviewUniquePerAccountUntilDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	place := seedPlace(t, db, "Bánh mì Phượng")
	account := uuid.New()

	first := &dbm.Review{PlaceID: place.ID, AccountID: account, Rating: 3}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &dbm.Review{PlaceID: place.ID, AccountID: account, Rating: 4})
	assert.Error(t, err)
	assert.EqualValues(t, 1, reloadPlace(t, db, place.ID).ReviewCount, "the failed insert rolls back")

	require.NoError(t, repo.Delete(ctx, first))
	found, err := repo.FindByPlaceAndAccount(ctx, place.ID.String(), account.String())
	require.NoError(t, err)
	assert.Nil(t, found)

	again := &dbm.Review{PlaceID: place.ID, AccountID: account, Rating: 5}
	require.NoError(t, repo.Create(ctx, again))
	assert.NotEqual(t, first.ID, again.ID)

	got := reloadPlace(t, db, place.ID)
	assert.InDelta(t, 5.0, got.AvgRating, 1e-9)
	assert.EqualValues(t, 1, got.ReviewCount)
}

func TestReviewDeleteUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)

	err := repo.Delete(context.Background(), &dbm.Review{BaseModel: dbm.BaseModel{ID: uuid.New()}})
	assert.Error(t, err)
}
