package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	mem "angido/pkg/memcache"
	"angido/pkg/metrics"
	"angido/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type brokenRevocations struct{}

func (brokenRevocations) Revoke(context.Context, string, time.Time) error { return nil }
func (brokenRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func authRouter(tokens *utils.TokenManager, revoked mem.RevocationStore, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(tokens, revoked)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(CtxUserID),
			"role":     c.GetString(CtxRole),
			"token_id": c.GetString(CtxTokenID),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	t.Run("missing header", func(t *testing.T) {
		r := authRouter(tokens, mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute)))
		w := doGet(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header missing or invalid")
	})

	t.Run("garbage token", func(t *testing.T) {
		r := authRouter(tokens, mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute)))
		w := doGet(r, "/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := utils.NewTokenManager("other-secret", time.Hour)
		tok, _, err := other.CreateToken(userID, "user")
		require.NoError(t, err)

		r := authRouter(tokens, mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute)))
		w := doGet(r, "/me", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets context", func(t *testing.T) {
		tok, _, err := tokens.CreateToken(userID, "admin")
		require.NoError(t, err)

		r := authRouter(tokens, mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute)))
		w := doGet(r, "/me", tok)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
	})

	t.Run("revoked token", func(t *testing.T) {
		tok, exp, err := tokens.CreateToken(userID, "user")
		require.NoError(t, err)
		claims, err := tokens.ValidateToken(tok)
		require.NoError(t, err)

		revoked := mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute))
		require.NoError(t, revoked.Revoke(context.Background(), claims.ID, exp))

		w := doGet(authRouter(tokens, revoked), "/me", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token is logged out")
	})

	t.Run("revocation store unavailable", func(t *testing.T) {
		tok, _, err := tokens.CreateToken(userID, "user")
		require.NoError(t, err)

		w := doGet(authRouter(tokens, brokenRevocations{}), "/me", tok)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	revoked := mem.NewMemoryRevocationStore(mem.NewStore(time.Minute, time.Minute))
	r := authRouter(tokens, revoked, RoleMiddleware("admin"))

	userTok, _, err := tokens.CreateToken(uuid.New(), "user")
	require.NoError(t, err)
	adminTok, _, err := tokens.CreateToken(uuid.New(), "admin")
	require.NoError(t, err)

	w := doGet(r, "/me", userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, "/me", adminTok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(TraceIDHeader))
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	minted := w.Header().Get(TraceIDHeader)
	assert.NotEqual(t, "<script>", minted)
	_, err := uuid.Parse(minted)
	assert.NoError(t, err)
}

func corsRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	handler, err := CORS(origins)
	require.NoError(t, err)

	r := gin.New()
	r.Use(handler)
	r.GET("/places", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func corsRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/places", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	r := corsRouter(t, []string{"https://angido.vn/", " http://localhost:5173", ""})

	w := corsRequest(r, http.MethodGet, "https://angido.vn")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://angido.vn", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), TraceIDHeader)

	w = corsRequest(r, http.MethodGet, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(r, http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "requests without an Origin are not cross-origin")
}

func TestCORSWildcard(t *testing.T) {
	r := corsRouter(t, []string{"https://angido.vn", "*"})

	w := corsRequest(r, http.MethodGet, "https://anywhere.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWithoutOriginsRefusesCrossOrigin(t *testing.T) {
	r := corsRouter(t, nil)

	w := corsRequest(r, http.MethodGet, "https://angido.vn")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSRejectsMalformedOrigin(t *testing.T) {
	_, err := CORS([]string{"angido.vn"})
	assert.Error(t, err)
}

func TestAccessLogFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(TraceIDMiddleware(), AccessLog(zap.New(core)))
	r.GET("/places/:id", func(c *gin.Context) {
		c.Set(CtxUserID, "7c1d0a4e-2f2b-4f0e-9a59-6b1d2c3e4f50")
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/places/"+uuid.NewString(), "")
	doGet(r, "/health", "")

	require.Equal(t, 1, logs.Len(), "health checks are not logged")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, w.Header().Get(TraceIDHeader), fields["trace_id"])
	assert.Equal(t, "7c1d0a4e-2f2b-4f0e-9a59-6b1d2c3e4f50", fields["user_id"])
	assert.Equal(t, "/places/:id", fields["route"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestAccessLogOmitsAnonymousUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(TraceIDMiddleware(), AccessLog(zap.New(core)))
	r.GET("/places", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGet(r, "/places", "")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "user_id")
	assert.Contains(t, fields, "trace_id")
}

func TestRecoveryLogsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	w := doGet(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "panic")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(AccessLog(zap.NewNop()), Metrics())
	r.GET("/places/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	read := func() float64 {
		var m dto.Metric
		require.NoError(t, metrics.HTTPRequests.WithLabelValues("/places/:id", http.MethodGet, "200").Write(&m))
		return m.GetCounter().GetValue()
	}
	before := read()

	doGet(r, "/places/"+uuid.NewString(), "")
	doGet(r, "/places/"+uuid.NewString(), "")

	assert.Equal(t, before+2, read())
}
