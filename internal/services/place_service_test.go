package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbm "angido/internal/models/db_models"
	"angido/internal/models/request_models"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

type placeFixture struct {
	svc        PlaceServiceInterface
	places     *mockPlaceRepo
	tags       *mockTagRepo
	provinces  *mockProvinceRepo
	embeddings *mockEmbeddingRepo
}

func newPlaceFixture() *placeFixture {
	f := &placeFixture{
		places:     new(mockPlaceRepo),
		tags:       new(mockTagRepo),
		provinces:  new(mockProvinceRepo),
		embeddings: new(mockEmbeddingRepo),
	}
	f.svc = NewPlaceService(f.places, f.tags, f.provinces, f.embeddings,
		utils.NewHashEmbeddingClient(), mem.NewStore(time.Minute, time.Minute), zap.NewNop())
	return f
}

func TestPriceLevelFor(t *testing.T) {
	cases := []struct {
		maxPrice int64
		want     int
	}{
		{0, 1},
		{50_000, 1},
		{50_001, 2},
		{150_000, 2},
		{400_000, 3},
		{1_000_000, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PriceLevelFor(tc.maxPrice), "max price %d", tc.maxPrice)
	}
}

func TestCreatePlaceSuffixesTakenSlug(t *testing.T) {
	f := newPlaceFixture()
	f.places.On("SlugExists", mock.Anything, "bun-cha-huong-lien").Return(true, nil)
	f.places.On("Create", mock.Anything, mock.MatchedBy(func(p *dbm.Place) bool {
		return strings.HasPrefix(p.Slug, "bun-cha-huong-lien-") && p.PriceLevel == 2 && p.Status == dbm.PlaceActive
	})).Return(nil)
	f.places.On("GetByID", mock.Anything, mock.Anything, true).Return(nil, nil)
	f.embeddings.On("Upsert", mock.Anything, mock.AnythingOfType("*db_models.PlaceEmbedding")).Return(nil)

	out, err := f.svc.CreatePlace(context.Background(), request_models.CreatePlaceRequest{
		Name:     "Bún chả Hương Liên",
		Category: "restaurant",
		Address:  "24 Lê Văn Hưu, Hà Nội",
		Latitude: 21.0181, Longitude: 105.8516,
		MinPrice: 40_000, MaxPrice: 90_000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bún chả Hương Liên", out.Name)
	f.places.AssertExpectations(t)
	f.embeddings.AssertExpectations(t)
}

func TestCreatePlaceValidation(t *testing.T) {
	f := newPlaceFixture()

	_, err := f.svc.CreatePlace(context.Background(), request_models.CreatePlaceRequest{
		Name: "Quán", Category: "cafe", Address: "x", MinPrice: 100, MaxPrice: 10,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	province := uuid.New()
	f.provinces.On("GetByID", mock.Anything, province.String()).Return(nil, nil)
	_, err = f.svc.CreatePlace(context.Background(), request_models.CreatePlaceRequest{
		Name: "Quán", Category: "cafe", Address: "x", ProvinceID: &province,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	tagID := uuid.NewString()
	f.tags.On("FindByIDs", mock.Anything, []string{tagID}).Return([]dbm.Tag{}, nil)
	_, err = f.svc.CreatePlace(context.Background(), request_models.CreatePlaceRequest{
		Name: "Quán", Category: "cafe", Address: "x", TagIDs: []string{tagID},
	})
	assert.ErrorIs(t, err, utils.ErrTagNotFound)
	f.places.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetPlaceIsCachedUntilInvalidated(t *testing.T) {
	f := newPlaceFixture()
	place := testPlace("Bánh mì Phượng")
	id := place.ID.String()
	f.places.On("GetByID", mock.Anything, id, false).Return(&place, nil)

	for i := 0; i < 2; i++ {
		out, err := f.svc.GetPlace(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Bánh mì Phượng", out.Name)
	}
	f.places.AssertNumberOfCalls(t, "GetByID", 1)

	f.svc.InvalidatePlace(id)
	_, err := f.svc.GetPlace(context.Background(), id)
	require.NoError(t, err)
	f.places.AssertNumberOfCalls(t, "GetByID", 2)

	_, err = f.svc.GetPlace(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrPlaceNotFound)
}

func TestMalformedPlaceIDIsNotFound(t *testing.T) {
	f := newPlaceFixture()
	name := "Bún chả"

	_, err := f.svc.UpdatePlace(context.Background(), "42'; --", request_models.UpdatePlaceRequest{Name: &name})
	assert.ErrorIs(t, err, utils.ErrPlaceNotFound)
	assert.ErrorIs(t, f.svc.DeletePlace(context.Background(), "not-a-uuid"), utils.ErrPlaceNotFound)

	f.places.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	f.places.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
