package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.NoError(t, ComparePasswords(hash, "s3cret!"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}

func TestGenerateReferenceCode(t *testing.T) {
	code, err := GenerateReferenceCode(10)
	require.NoError(t, err)
	assert.Len(t, code, 10)
	assert.Regexp(t, `^[A-Z2-9]+$`, code)

	_, err = GenerateReferenceCode(0)
	assert.Error(t, err)
}

func TestMD5Hex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5Hex(nil))
	assert.Len(t, MD5Hex([]byte("phở")), 32)
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := tm.CreateToken(userID, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManagerRejectsForeignAndExpiredTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, _, err := other.CreateToken(uuid.New(), "user")
	require.NoError(t, err)
	_, err = tm.ValidateToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.CreateToken(uuid.New(), "user")
	require.NoError(t, err)
	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestCleanJSONResponse(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":              `{"a":1}`,
		"Here is the plan: {\"a\":{\"b\":2}} ok": `{"a":{"b":2}}`,
		"[1,2,3] trailing":                      `[1,2,3]`,
		`{"s":"brace } inside"}`:                `{"s":"brace } inside"}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanJSONResponse(in), in)
	}
}

func TestHashEmbeddingIsDeterministicAndNormalized(t *testing.T) {
	client := NewHashEmbeddingClient()
	a, err := client.GetEmbedding(context.Background(), "Bún chả Hà Nội")
	require.NoError(t, err)
	b, err := client.GetEmbedding(context.Background(), "bún chả hà nội")
	require.NoError(t, err)

	assert.Equal(t, a.Slice(), b.Slice())
	assert.Len(t, a.Slice(), EmbeddingDimensions)

	var norm float64
	for _, v := range a.Slice() {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-3)
}

func TestStartOfDayVNAndClockOnDay(t *testing.T) {
	ts := time.Date(2025, 3, 1, 20, 30, 0, 0, time.UTC) // 03:30 next day in VN
	start := StartOfDayVN(ts)
	assert.Equal(t, 2, start.Day())
	assert.Equal(t, 0, start.Hour())

	at, err := ClockOnDay(start, "09:15")
	require.NoError(t, err)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 15, at.Minute())

	_, err = ClockOnDay(start, "25:00")
	assert.Error(t, err)
}

func TestHandleServiceErrorMapsSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{ErrPlaceNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrQuotaExceeded), http.StatusTooManyRequests},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNoCandidatePlaces, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("trace_id", "trace-1")

		HandleServiceError(c, tc.err)

		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		var body APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "trace-1", body.TraceID)
	}
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(1, 20))
	assert.ErrorIs(t, ValidatePage(0, 20), ErrInvalidPage)
	assert.ErrorIs(t, ValidatePage(1, 101), ErrInvalidPageSize)
	assert.Equal(t, 40, Offset(3, 20))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "bun-cha-huong-lien", Slugify("Bún chả Hương Liên"))
	assert.Equal(t, "dac-san-da-lat", Slugify("  Đặc sản   Đà Lạt! "))
	assert.Equal(t, "pho-10", Slugify("Phở #10"))
}
