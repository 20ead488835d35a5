package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/handler"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/middleware"
	"github.com/iliyamo/learning-mentor/internal/queue"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type app struct {
	e      *echo.Echo
	repos  *repository.Repos
	events *recordingPublisher
}

func newApp(t *testing.T) *app {
	t.Helper()
	return newAppWith(t, config.HashSHA256, nil)
}

func newAppWith(t *testing.T, scheme string, limit *middleware.Limiter) *app {
	t.Helper()
	log := logger.Nop()
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 30, PasswordHash: scheme}

	repos, err := repository.Open(t.TempDir(), log)
	require.NoError(t, err)
	sessions := auth.NewMemoryRegistry()
	events := &recordingPublisher{}
	svc := auth.NewService(repos.Users, log, cfg.PasswordHash, bcrypt.MinCost)
	adv := advisor.New(nil, advisor.Models{}, log)

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, svc, sessions, events, log), cfg.JWTSecret, sessions)
	RegisterLearner(e, handler.NewLearnerHandler(cfg, repos, adv, sessions, events, log), cfg.JWTSecret, sessions, limit)
	return &app{e: e, repos: repos, events: events}
}

func (a *app) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (a *app) register(t *testing.T, email string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Ann","email":"`+email+`","password":"secret1","confirm_password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code, body)
	access := body["access"].(map[string]any)
	return access["token"].(string)
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	a := newApp(t)
	cases := map[string]string{
		"missing fields": `{"email":"a@x.com","password":"secret1"}`,
		"mismatch":       `{"name":"A","email":"a@x.com","password":"secret1","confirm_password":"secret2"}`,
		"too short":      `{"name":"A","email":"a@x.com","password":"abc","confirm_password":"abc"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			code, _ := a.do(t, http.MethodPost, "/v1/auth/register", "", body)
			require.Equal(t, http.StatusBadRequest, code)
		})
	}

	a.register(t, "a@x.com")
	code, _ := a.do(t, http.MethodPost, "/v1/auth/register", "",
		`{"name":"B","email":"a@x.com","password":"secret1","confirm_password":"secret1"}`)
	require.Equal(t, http.StatusConflict, code)

	users, err := a.repos.Users.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Beginner", users[0].ExperienceLevel)
	require.NotEmpty(t, users[0].CreatedAt)
}

func TestRegisterBcryptPasswordTooLong(t *testing.T) {
	a := newAppWith(t, config.HashBcrypt, nil)
	pw := strings.Repeat("p", 73)
	code, body := a.do(t, http.MethodPost, "/v1/auth/register", "",
		`{"name":"A","email":"a@x.com","password":"`+pw+`","confirm_password":"`+pw+`"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, body["error"], "72")

	users, err := a.repos.Users.LoadUsers()
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestLoginLogout(t *testing.T) {
	a := newApp(t)
	a.register(t, "a@x.com")

	code, _ := a.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"a@x.com","password":"wrong1"}`)
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := a.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, code)
	user := body["user"].(map[string]any)
	require.Equal(t, "a@x.com", user["email"])
	require.NotContains(t, user, "password")
	token := body["access"].(map[string]any)["token"].(string)

	code, body = a.do(t, http.MethodGet, "/v1/me", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["authenticated"])

	code, _ = a.do(t, http.MethodPost, "/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, code)

	code, body = a.do(t, http.MethodGet, "/v1/me", token, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "please log in", body["error"])
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	a := newApp(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/v1/me"},
		{http.MethodPut, "/v1/profile"},
		{http.MethodPost, "/v1/chat"},
		{http.MethodGet, "/v1/roadmaps"},
		{http.MethodGet, "/v1/stats"},
	} {
		code, body := a.do(t, r.method, r.path, "", "")
		require.Equal(t, http.StatusUnauthorized, code, r.path)
		require.Equal(t, "please log in", body["error"], r.path)
	}
}

func TestLearnerFlow(t *testing.T) {
	a := newApp(t)
	token := a.register(t, "a@x.com")

	code, body := a.do(t, http.MethodPut, "/v1/profile", token,
		`{"experience_level":"Intermediate","interests":["Go"," Data "],"short_term_goals":"ship a CLI"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Go, Data", body["interests"])
	u, found, err := a.repos.Users.FindByEmail("a@x.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Intermediate", u.ExperienceLevel)
	require.Equal(t, "Ann", u.Name, "unsupplied fields keep their value")
	require.NotEmpty(t, u.UpdatedAt)

	code, body = a.do(t, http.MethodGet, "/v1/me", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Intermediate", body["user"].(map[string]any)["experience_level"], "session refreshed")

	code, body = a.do(t, http.MethodPost, "/v1/projects/suggest", token, `{"focus_area":"Web Development","num_projects":1}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "fallback", body["source"])
	require.Len(t, body["projects"], 1)
	require.EqualValues(t, 1, body["interaction_id"])

	code, body = a.do(t, http.MethodGet, "/v1/interactions", token, "")
	require.Equal(t, http.StatusOK, code)
	items := body["interactions"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "Generated 1 projects for Web Development", items[0].(map[string]any)["details"])

	code, _ = a.do(t, http.MethodPost, "/v1/roadmaps", token, `{"goal":"   "}`)
	require.Equal(t, http.StatusBadRequest, code)
	code, body = a.do(t, http.MethodPost, "/v1/roadmaps", token, `{"goal":"Learn Go"}`)
	require.Equal(t, http.StatusCreated, code)
	rm := body["roadmap"].(map[string]any)
	require.EqualValues(t, 1, rm["id"])
	require.Equal(t, "Roadmap: Learn Go", rm["title"])
	require.Equal(t, "3 months", rm["timeline"])

	code, body = a.do(t, http.MethodPost, "/v1/chat", token, `{"message":"how do I start?"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, advisor.FallbackChatReply, body["reply"])
	code, body = a.do(t, http.MethodGet, "/v1/chat", token, "")
	require.Equal(t, http.StatusOK, code)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].(map[string]any)["role"])
	require.Equal(t, "assistant", msgs[1].(map[string]any)["role"])

	code, _ = a.do(t, http.MethodPost, "/v1/progress", token, `{"description":" "}`)
	require.Equal(t, http.StatusBadRequest, code)
	code, body = a.do(t, http.MethodPost, "/v1/progress", token,
		`{"progress_type":"Course","description":"finished the tour","skills_gained":["Go","testing"]}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Go, testing", body["skills_gained"])

	code, body = a.do(t, http.MethodGet, "/v1/progress/insights", token, "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["entries"])
	require.NotNil(t, body["insights"])

	code, body = a.do(t, http.MethodGet, "/v1/stats", token, "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total_roadmaps"])
	require.EqualValues(t, 1, body["total_interactions"])
	require.EqualValues(t, 1, body["total_chat_messages"])
	require.EqualValues(t, 1, body["total_progress_entries"])
	require.NotEmpty(t, body["join_date"])

	require.Eventually(t, func() bool { return len(a.events.types()) == 6 }, time.Second, 10*time.Millisecond)
	require.ElementsMatch(t, []string{
		queue.EventUserRegistered,
		queue.EventProfileUpdated,
		queue.EventProjectsSuggested,
		queue.EventRoadmapCreated,
		queue.EventChatMessage,
		queue.EventProgressLogged,
	}, a.events.types())
}

func TestUsersOnlySeeTheirOwnRows(t *testing.T) {
	a := newApp(t)
	ann := a.register(t, "ann@x.com")
	bob := a.register(t, "bob@x.com")

	code, _ := a.do(t, http.MethodPost, "/v1/progress", ann, `{"description":"ann's entry"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := a.do(t, http.MethodGet, "/v1/progress", bob, "")
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, body["entries"])

	code, body = a.do(t, http.MethodGet, "/v1/progress/insights", bob, "")
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, body["insights"])
}

func TestAdvisorRoutesSpendCredits(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	limit := middleware.NewTokenBucket(config.RateLimitConfig{
		Enabled:        true,
		Capacity:       5,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Hour,
		KeyStrategy:    "user",
		Prefix:         "test:credits",
		Costs:          config.AdvisorCosts{Chat: 1, Projects: 3, Roadmap: 5, Insights: 2},
	}, rdb, logger.Nop())
	a := newAppWith(t, config.HashSHA256, limit)
	ann := a.register(t, "ann@x.com")
	bob := a.register(t, "bob@x.com")

	code, _ := a.do(t, http.MethodPost, "/v1/roadmaps", ann, `{"goal":"Learn Go"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := a.do(t, http.MethodPost, "/v1/chat", ann, `{"message":"hi"}`)
	require.Equal(t, http.StatusTooManyRequests, code)
	require.EqualValues(t, 60, body["retry_after"])

	code, _ = a.do(t, http.MethodGet, "/v1/roadmaps", ann, "")
	require.Equal(t, http.StatusOK, code, "listing is free")

	code, _ = a.do(t, http.MethodPost, "/v1/chat", bob, `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, code, "buckets are per learner")
	require.Equal(t, "4", mr.HGet("test:credits:user:bob@x.com", "credits"))
}
