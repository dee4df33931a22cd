package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/services"
	"angido/pkg/middleware"
	"angido/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockSuggestionService struct {
	services.SuggestionServiceInterface
	mock.Mock
}

func (m *mockSuggestionService) Suggest(ctx context.Context, accountID string, req request_models.SuggestionRequest) (*response_models.SuggestionResponse, error) {
	args := m.Called(ctx, accountID, req)
	out, _ := args.Get(0).(*response_models.SuggestionResponse)
	return out, args.Error(1)
}

func (m *mockSuggestionService) PurgeAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func suggestionRouter(svc services.SuggestionServiceInterface, userID string) *gin.Engine {
	ctrl := NewSuggestionController(svc, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.CtxUserID, userID)
			c.Set(middleware.CtxRole, "user")
		}
		c.Next()
	})
	r.POST("/ai/suggestions", ctrl.Suggest)
	r.DELETE("/admin/ai/cache", ctrl.PurgeCache)
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var out utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSuggestController(t *testing.T) {
	const userID = "8f8e6f36-9d7f-4d5e-9a53-0c1b7f0d2a11"
	body := map[string]any{"city": "Đà Nẵng", "days": 2, "people": 3, "budget": "medium"}

	t.Run("cache hit message", func(t *testing.T) {
		svc := new(mockSuggestionService)
		svc.On("Suggest", mock.Anything, userID, mock.AnythingOfType("request_models.SuggestionRequest")).
			Return(&response_models.SuggestionResponse{ID: "s1", Cached: true}, nil).Once()

		w := postJSON(suggestionRouter(svc, userID), "/ai/suggestions", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Served from cache", decode(t, w).Message)
		svc.AssertExpectations(t)
	})

	t.Run("fresh generation message", func(t *testing.T) {
		svc := new(mockSuggestionService)
		svc.On("Suggest", mock.Anything, userID, mock.Anything).
			Return(&response_models.SuggestionResponse{ID: "s2"}, nil).Once()

		w := postJSON(suggestionRouter(svc, userID), "/ai/suggestions", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Suggestion generated successfully", decode(t, w).Message)
	})

	t.Run("quota exceeded maps to 429", func(t *testing.T) {
		svc := new(mockSuggestionService)
		svc.On("Suggest", mock.Anything, userID, mock.Anything).Return(nil, utils.ErrQuotaExceeded).Once()

		w := postJSON(suggestionRouter(svc, userID), "/ai/suggestions", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("no candidates maps to 422", func(t *testing.T) {
		svc := new(mockSuggestionService)
		svc.On("Suggest", mock.Anything, userID, mock.Anything).Return(nil, utils.ErrNoCandidatePlaces).Once()

		w := postJSON(suggestionRouter(svc, userID), "/ai/suggestions", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid body never reaches service", func(t *testing.T) {
		svc := new(mockSuggestionService)

		w := postJSON(suggestionRouter(svc, userID), "/ai/suggestions", map[string]any{"days": 9, "people": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decode(t, w).Message)
		svc.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous request", func(t *testing.T) {
		svc := new(mockSuggestionService)

		w := postJSON(suggestionRouter(svc, ""), "/ai/suggestions", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPurgeCacheController(t *testing.T) {
	svc := new(mockSuggestionService)
	svc.On("PurgeAll", mock.Anything).Return(int64(7), nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/admin/ai/cache", nil)
	w := httptest.NewRecorder()
	suggestionRouter(svc, "admin-id").ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data, ok := decode(t, w).Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, data["deleted"])
}
