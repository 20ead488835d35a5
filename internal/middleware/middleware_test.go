package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/utils"
)

const testSecret = "test-secret"

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *auth.Session) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *auth.Session
	err := mw(func(c echo.Context) error {
		seen = CurrentSession(c)
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	return rec, seen
}

func loggedIn(t *testing.T, reg auth.Registry, email string) *auth.Session {
	t.Helper()
	s := &auth.Session{}
	s.Init(time.Now())
	s.Login(model.User{Email: email})
	require.NoError(t, reg.Save(context.Background(), s, time.Hour))
	return s
}

func TestRequireSession(t *testing.T) {
	reg := auth.NewMemoryRegistry()
	s := loggedIn(t, reg, "a@x.com")
	tok, err := utils.NewAccessToken(testSecret, "a@x.com", s.ID, 5)
	require.NoError(t, err)
	mw := RequireSession(testSecret, reg)

	rec, seen := serve(t, mw, "Bearer "+tok.Token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "a@x.com", seen.User.Email)

	rec, seen = serve(t, mw, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"please log in"}`, rec.Body.String())
	require.Nil(t, seen)

	rec, _ = serve(t, mw, "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, reg.Delete(context.Background(), s.ID))
	rec, _ = serve(t, mw, "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "revoked session")
}

func TestRequireSession_SubjectMustMatch(t *testing.T) {
	reg := auth.NewMemoryRegistry()
	s := loggedIn(t, reg, "a@x.com")
	tok, err := utils.NewAccessToken(testSecret, "b@x.com", s.ID, 5)
	require.NoError(t, err)

	rec, _ := serve(t, RequireSession(testSecret, reg), "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLimiter_PassThroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	rec, _ := serve(t, NewTokenBucket(cfg, nil, logger.Nop()).Charge(5), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	var nilLimiter *Limiter
	rec, _ = serve(t, nilLimiter.Charge(1), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, config.AdvisorCosts{}, nilLimiter.Costs())
}

func creditConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       4,
		RefillTokens:   2,
		RefillInterval: 10 * time.Second,
		TTL:            time.Minute,
		KeyStrategy:    "user",
		Prefix:         "test:credits",
		Costs:          config.AdvisorCosts{Chat: 1, Roadmap: 3},
	}
}

func newLimiter(t *testing.T, cfg config.RateLimitConfig) (*Limiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := NewTokenBucket(cfg, rdb, logger.Nop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, mr, &now
}

func TestLimiter_SpendsCostAndRefuses(t *testing.T) {
	l, mr, now := newLimiter(t, creditConfig())

	rec, _ := serve(t, l.Charge(3), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "4", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Cost"))

	key := "test:credits:ip:192.0.2.1"
	require.True(t, mr.Exists(key))
	require.Equal(t, time.Minute, mr.TTL(key))

	*now = now.Add(4 * time.Second)
	rec, _ = serve(t, l.Charge(3), "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "6", rec.Header().Get("Retry-After"))
	require.JSONEq(t, `{"error":"you are sending requests too quickly, please wait a moment","retry_after":6}`, rec.Body.String())

	rec, _ = serve(t, l.Charge(1), "")
	require.Equal(t, http.StatusNoContent, rec.Code, "a cheaper call still fits")
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	*now = now.Add(6 * time.Second)
	rec, _ = serve(t, l.Charge(1), "")
	require.Equal(t, http.StatusNoContent, rec.Code, "one refill step adds two credits")
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestLimiter_RefillIsCappedAtCapacity(t *testing.T) {
	l, _, now := newLimiter(t, creditConfig())

	rec, _ := serve(t, l.Charge(4), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	*now = now.Add(time.Hour)
	rec, _ = serve(t, l.Charge(1), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestLimiter_BucketPerLearner(t *testing.T) {
	l, mr, _ := newLimiter(t, creditConfig())
	reg := auth.NewMemoryRegistry()
	mw := RequireSession(testSecret, reg)
	chain := func(next echo.MiddlewareFunc) echo.MiddlewareFunc {
		return func(h echo.HandlerFunc) echo.HandlerFunc { return mw(next(h)) }
	}

	for _, email := range []string{"a@x.com", "b@x.com"} {
		s := loggedIn(t, reg, email)
		tok, err := utils.NewAccessToken(testSecret, email, s.ID, 5)
		require.NoError(t, err)
		rec, _ := serve(t, chain(l.Charge(4)), "Bearer "+tok.Token)
		require.Equal(t, http.StatusNoContent, rec.Code, email)
		require.True(t, mr.Exists("test:credits:user:"+email))
	}
}

func TestLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	l := NewTokenBucket(creditConfig(), rdb, logger.Nop())

	rec, _ := serve(t, l.Charge(1), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())

	cfg := config.RateLimitConfig{Prefix: "mentor:credits", KeyStrategy: "user"}
	require.Equal(t, "mentor:credits:ip:10.0.0.1", buildRateKey(cfg, c), "no session")

	c.Set(SessionKey, &auth.Session{User: model.User{Email: "a@x.com"}})
	require.Equal(t, "mentor:credits:user:a@x.com", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	require.Equal(t, "mentor:credits:ip:10.0.0.1", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	require.True(t, allowed)
	require.EqualValues(t, 4, remaining)
	require.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), int64(0), int64(1500)})
	require.True(t, ok)
	require.False(t, allowed)
	require.EqualValues(t, 1500, retry)

	_, _, _, ok = parseBucketResult("nope")
	require.False(t, ok)
}
