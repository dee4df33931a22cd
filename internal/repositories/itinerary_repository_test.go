package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "angido/internal/models/db_models"
	resp "angido/internal/models/response_models"
	"angido/pkg/utils"
)

func TestMaterializePlan(t *testing.T) {
	db := newTestDB(t)
	repo := NewItineraryRepository(db)
	ctx := context.Background()
	breakfast := seedPlace(t, db, "Phở Thìn")
	dinner := seedPlace(t, db, "Lẩu bò Ba Toa")
	bar := seedPlace(t, db, "Rooftop Chill")

	suggestionID := uuid.New()
	in := &CreateItineraryInput{
		AccountID:    uuid.New(),
		Title:        "Hà Nội 2 ngày",
		StartDate:    time.Date(2025, 3, 10, 15, 30, 0, 0, utils.VNLocation()),
		SuggestionID: &suggestionID,
	}
	plan := &resp.SuggestionPlan{
		Title: "Hà Nội 2 ngày",
		Days: []resp.SuggestionDay{
			{Day: 1, Activities: []resp.SuggestionActivity{
				{PlaceID: dinner.ID.String(), StartTime: "19:00", EndTime: "21:00", EstimatedCost: 250000},
				{PlaceID: breakfast.ID.String(), StartTime: "07:30", EndTime: "08:15"},
				{PlaceID: "invented-place", StartTime: "12:00"},
			}},
			{Day: 2, Activities: []resp.SuggestionActivity{
				{PlaceID: bar.ID.String(), StartTime: "22:30", EndTime: "01:00", Note: "late night"},
			}},
		},
	}

	id, err := repo.MaterializePlan(ctx, in, plan)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	it, err := repo.GetDetails(ctx, id.String())
	require.NoError(t, err)
	require.NotNil(t, it)

	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, utils.VNLocation())
	assert.Equal(t, dbm.SourceAI, it.Source)
	assert.True(t, it.StartDate.Equal(day1))
	assert.True(t, it.EndDate.Equal(day1.AddDate(0, 0, 1)))
	require.NotNil(t, it.SuggestionID)
	assert.Equal(t, suggestionID, *it.SuggestionID)

	require.Len(t, it.Days, 2)
	assert.Equal(t, 1, it.Days[0].DayNumber)
	assert.Equal(t, 2, it.Days[1].DayNumber)

	first := it.Days[0].Activities
	require.Len(t, first, 2, "activities with an unknown place id are dropped")
	assert.Equal(t, breakfast.ID, first[0].PlaceID)
	assert.Equal(t, "Phở Thìn", first[0].Place.Name)
	assert.Equal(t, dinner.ID, first[1].PlaceID)
	assert.True(t, first[1].StartTime.Equal(day1.Add(19*time.Hour)))
	assert.EqualValues(t, 250000, first[1].EstimatedCost)

	late := it.Days[1].Activities
	require.Len(t, late, 1)
	day2 := day1.AddDate(0, 0, 1)
	assert.True(t, late[0].StartTime.Equal(day2.Add(22*time.Hour+30*time.Minute)))
	require.NotNil(t, late[0].EndTime)
	assert.True(t, late[0].EndTime.Equal(day2.AddDate(0, 0, 1).Add(time.Hour)), "an end before the start rolls into the next day")
}

func TestMaterializePlanWithoutDays(t *testing.T) {
	db := newTestDB(t)
	repo := NewItineraryRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, utils.VNLocation())

	id, err := repo.MaterializePlan(ctx, &CreateItineraryInput{AccountID: uuid.New(), Title: "Trống", StartDate: start}, &resp.SuggestionPlan{})
	require.NoError(t, err)

	it, err := repo.GetDetails(ctx, id.String())
	require.NoError(t, err)
	assert.Empty(t, it.Days)
	assert.True(t, it.EndDate.Equal(it.StartDate))

	_, err = repo.MaterializePlan(ctx, nil, &resp.SuggestionPlan{})
	assert.Error(t, err)
}

func TestItineraryDeleteCascadesSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewItineraryRepository(db)
	ctx := context.Background()
	place := seedPlace(t, db, "Chè Hẻm")

	id, err := repo.MaterializePlan(ctx,
		&CreateItineraryInput{AccountID: uuid.New(), Title: "Sài Gòn", StartDate: time.Now()},
		&resp.SuggestionPlan{Days: []resp.SuggestionDay{{Day: 1, Activities: []resp.SuggestionActivity{{PlaceID: place.ID.String(), StartTime: "15:00"}}}}},
	)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id.String()))

	it, err := repo.GetByID(ctx, id.String())
	require.NoError(t, err)
	assert.Nil(t, it)

	var live int64
	require.NoError(t, db.Model(&dbm.ItineraryActivity{}).Count(&live).Error)
	assert.Zero(t, live)
	require.NoError(t, db.Model(&dbm.ItineraryDay{}).Count(&live).Error)
	assert.Zero(t, live)

	assert.Error(t, repo.Delete(ctx, id.String()))
}
