package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/khata/internal/application/auth"
	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/application/ledger"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/infrastructure/memory"
	"github.com/jhoicas/khata/internal/infrastructure/metrics"
	"github.com/jhoicas/khata/internal/infrastructure/sso"
	httpiface "github.com/jhoicas/khata/internal/interfaces/http"
)

type fakeSessions struct {
	mu       sync.Mutex
	sess     entity.SessionContext
	signOuts int
}

func (f *fakeSessions) SessionContext(context.Context) entity.SessionContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

func (f *fakeSessions) SignOut(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.sess = entity.SessionContext{IsLoaded: true}
}

type fakeSocial struct {
	result   auth.Result
	loading  string
	strategy string
}

func (f *fakeSocial) Start(_ context.Context, strategy string) auth.Result {
	f.strategy = strategy
	return f.result
}

func (f *fakeSocial) LoadingStrategy() string { return f.loading }

type testEnv struct {
	app      *fiber.App
	sessions *fakeSessions
	social   *fakeSocial
	registry *sso.CallbackRegistry
}

func newTestEnv(t *testing.T, sess entity.SessionContext) *testEnv {
	t.Helper()
	store := memory.NewStore(nil)
	svc := ledger.NewService(store.Businesses(), store.Stocks(), store.CustomerSuppliers(), nil,
		func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) })
	env := &testEnv{
		sessions: &fakeSessions{sess: sess},
		social:   &fakeSocial{},
		registry: sso.NewCallbackRegistry(),
	}
	env.app = httpiface.NewApp(httpiface.RouterDeps{
		Ledger:        svc,
		Sessions:      env.sessions,
		Social:        env.social,
		Callbacks:     env.registry,
		SignInTimeout: time.Second,
		ServiceName:   "khata-test",
	})
	return env
}

func signedIn(user string) entity.SessionContext {
	return entity.SessionContext{UserID: user, IsAuthenticated: true, IsLoaded: true}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, entity.SessionContext{})
	metrics.StorageOperations.WithLabelValues("get", "hit").Inc()

	code, raw := env.do(t, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok","service":"khata-test"}`, string(raw))

	code, raw = env.do(t, "GET", "/metrics", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "khata_secure_storage_operations_total")
}

func TestWritesRequireSession(t *testing.T) {
	env := newTestEnv(t, entity.SessionContext{IsLoaded: false})

	code, raw := env.do(t, "POST", "/api/stocks", `{"name":"Rice","unit":"kg","cost_per_unit":10,"opening_stock":1}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_NOT_READY", decode[dto.ErrorResponse](t, raw).Code)

	code, raw = env.do(t, "GET", "/api/stocks", "")
	assert.Equal(t, fiber.StatusOK, code)
	list := decode[dto.ListResponse[dto.StockResponse]](t, raw)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.Count)
}

func TestBusinessEndpoints(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))

	code, _ := env.do(t, "GET", "/api/business", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, raw := env.do(t, "POST", "/api/business", "")
	require.Equal(t, fiber.StatusOK, code, string(raw))
	first := decode[dto.BusinessResponse](t, raw)
	assert.Equal(t, "user_alice", first.UserID)

	code, raw = env.do(t, "GET", "/api/business", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, first.ID, decode[dto.BusinessResponse](t, raw).ID)
}

func TestStockLifecycle(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))

	code, raw := env.do(t, "POST", "/api/stocks", `{"name":"Rice","unit":"kg","cost_per_unit":12.345,"opening_stock":3}`)
	require.Equal(t, fiber.StatusCreated, code, string(raw))
	created := decode[dto.StockResponse](t, raw)
	assert.True(t, decimal.RequireFromString("37.04").Equal(created.TotalCost))

	code, raw = env.do(t, "PUT", "/api/stocks/"+created.ID, `{"name":"Rice","unit":"kg","cost_per_unit":10,"opening_stock":5,"total_sold":20}`)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	updated := decode[dto.StockResponse](t, raw)
	assert.True(t, decimal.NewFromInt(50).Equal(updated.TotalCost))

	code, raw = env.do(t, "GET", "/api/stocks", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.StockResponse]](t, raw).Count)

	code, raw = env.do(t, "GET", "/api/stocks/summary", "")
	require.Equal(t, fiber.StatusOK, code)
	sum := decode[dto.StockSummaryResponse](t, raw)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, decimal.NewFromInt(30).Equal(sum.Balance))
}

func TestStockErrors(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))

	code, raw := env.do(t, "POST", "/api/stocks", `{"name":"","unit":"kg","cost_per_unit":1,"opening_stock":1}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, dto.ErrorResponse{Code: "VALIDATION", Message: "Stock name is required"}, decode[dto.ErrorResponse](t, raw))

	code, raw = env.do(t, "POST", "/api/stocks", `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)

	code, raw = env.do(t, "PUT", "/api/stocks/missing", `{"name":"Rice","unit":"kg","cost_per_unit":1,"opening_stock":1}`)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)
}

func TestPartyLifecycle(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))

	code, raw := env.do(t, "POST", "/api/parties", `{"party_type":"customer","name":"Karim","phone":"+880 1711-000000","total_receivable":10.555,"description":"rice","avatar_url":"https://example.com/k.png"}`)
	require.Equal(t, fiber.StatusCreated, code, string(raw))
	karim := decode[dto.CustomerSupplierResponse](t, raw)
	assert.Equal(t, "2024-05-01", karim.RecordDate)
	assert.True(t, decimal.RequireFromString("10.56").Equal(karim.TotalReceivable))
	require.NotNil(t, karim.AvatarURL)

	code, _ = env.do(t, "POST", "/api/parties", `{"party_type":"supplier","name":"Rahim","phone":"01811000000"}`)
	require.Equal(t, fiber.StatusCreated, code)

	code, raw = env.do(t, "GET", "/api/parties?type=supplier", "")
	require.Equal(t, fiber.StatusOK, code)
	suppliers := decode[dto.ListResponse[dto.CustomerSupplierResponse]](t, raw)
	require.Equal(t, 1, suppliers.Count)
	assert.Equal(t, "Rahim", suppliers.Items[0].Name)

	code, raw = env.do(t, "PUT", "/api/parties/"+karim.ID, `{"party_type":"customer","name":"Karim Uddin","phone":"+880 1711-000000","total_receivable":5}`)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	edited := decode[dto.CustomerSupplierResponse](t, raw)
	assert.Equal(t, "Karim Uddin", edited.Name)
	require.NotNil(t, edited.Description)
	assert.Equal(t, "rice", *edited.Description)
	assert.Equal(t, karim.AvatarURL, edited.AvatarURL)

	code, _ = env.do(t, "DELETE", "/api/parties/"+karim.ID, "")
	assert.Equal(t, fiber.StatusNoContent, code)
	code, _ = env.do(t, "DELETE", "/api/parties/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, raw = env.do(t, "GET", "/api/parties", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.CustomerSupplierResponse]](t, raw).Count)
}

func TestPartiesAreScopedPerUser(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))
	code, _ := env.do(t, "POST", "/api/parties", `{"party_type":"customer","name":"Karim","phone":"01711000000"}`)
	require.Equal(t, fiber.StatusCreated, code)

	env.sessions.mu.Lock()
	env.sessions.sess = signedIn("user_bob")
	env.sessions.mu.Unlock()

	code, raw := env.do(t, "GET", "/api/parties", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Zero(t, decode[dto.ListResponse[dto.CustomerSupplierResponse]](t, raw).Count)
}

func TestSocialSignIn(t *testing.T) {
	env := newTestEnv(t, entity.SessionContext{IsLoaded: true})

	code, _ := env.do(t, "POST", "/api/auth/social/oauth_github", "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	env.social.result = auth.Result{Outcome: auth.OutcomeSignedIn, Route: auth.HomeRoute}
	code, raw := env.do(t, "POST", "/api/auth/social/oauth_google", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "oauth_google", env.social.strategy)
	assert.Equal(t, dto.SocialSignInResponse{Outcome: "signed_in", Route: "/(tabs)"}, decode[dto.SocialSignInResponse](t, raw))

	env.social.result = auth.Result{Outcome: auth.OutcomeIncomplete, Notice: &auth.Notice{Title: "Sign-in incomplete", Message: "Apple sign-in did not complete. Please try again."}}
	code, raw = env.do(t, "POST", "/api/auth/social/oauth_apple", "")
	require.Equal(t, fiber.StatusOK, code)
	out := decode[dto.SocialSignInResponse](t, raw)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "Sign-in incomplete", out.Notice.Title)

	env.social.result = auth.Result{Outcome: auth.OutcomeBusy}
	code, _ = env.do(t, "POST", "/api/auth/social/oauth_facebook", "")
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestAuthStatusAndSignOut(t *testing.T) {
	env := newTestEnv(t, signedIn("user_alice"))
	env.social.loading = "oauth_google"

	code, raw := env.do(t, "GET", "/api/auth/status", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, dto.AuthStatusResponse{IsLoaded: true, IsAuthenticated: true, UserID: "user_alice", LoadingStrategy: "oauth_google"},
		decode[dto.AuthStatusResponse](t, raw))

	code, _ = env.do(t, "POST", "/api/auth/signout", "")
	assert.Equal(t, fiber.StatusNoContent, code)
	assert.Equal(t, 1, env.sessions.signOuts)

	code, raw = env.do(t, "GET", "/api/auth/status", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.False(t, decode[dto.AuthStatusResponse](t, raw).IsAuthenticated)
}

func TestSSOCallback(t *testing.T) {
	env := newTestEnv(t, entity.SessionContext{})

	code, _ := env.do(t, "GET", "/sso-callback?state=nobody&code=x", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	env.registry.Register("s1")
	code, raw := env.do(t, "GET", "/sso-callback?state=s1&code=abc", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "Sign-in received")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cb, err := env.registry.Await(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "abc", cb.Code)
	assert.False(t, cb.Cancelled())
}
