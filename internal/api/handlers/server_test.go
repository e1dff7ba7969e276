package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"autoparts.dev/storefront/internal/api/handlers"
	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/catalog"
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/orders"
	"autoparts.dev/storefront/internal/pending"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/pkg/worker"
	"autoparts.dev/storefront/internal/store"
	"autoparts.dev/storefront/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "json")
}

const cookieName = "storefront_ctx"

type testEnv struct {
	router   *gin.Engine
	registry *nav.Registry
	base     store.Store
	faulty   *testutil.FaultyStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDelay(t, 0)
}

// newTestEnvWithDelay holds every marketplace submission for delay before it
// runs.
func newTestEnvWithDelay(t *testing.T, delay time.Duration) *testEnv {
	t.Helper()
	bus := store.NewBus()
	faulty := testutil.NewFaultyStore(store.NewMemory())
	base := store.NewNotifying(faulty, bus)

	pools, err := worker.NewPools(context.Background(), worker.PoolConfig{GeneralPoolSize: 4, SubmissionsPoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(pools.Shutdown)

	registry := nav.NewRegistry(base, nav.Options{Bus: bus, DefaultLocale: locale.Arabic}, 0)
	server := handlers.NewServer(handlers.ServerDeps{
		Registry: registry,
		Directory: auth.NewDirectory(base, auth.Options{
			BcryptCost:    bcrypt.MinCost,
			SeedDemoUsers: true,
		}),
		Catalog: catalog.New(catalog.Seed),
		Texts:   locale.MustLoadCatalog(),
		Orders:  orders.NewService(base),
		Market:  marketplace.New(base),
		Tracker: pending.NewTracker(pools, delay, time.Minute),
		Bus:     bus,
		Pools:   pools,
		Audit:   audit.NewLogger(base),
	})

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	v1 := router.Group("/api/v1")
	server.RegisterHealth(v1)
	tokenCfg := middleware.TokenConfig{
		SigningKey: []byte(strings.Repeat("k", 32)),
		Issuer:     "storefront",
		ExpiresIn:  time.Hour,
	}
	server.RegisterRoutes(v1.Group("", middleware.BrowserContext(tokenCfg, middleware.CookieConfig{Name: cookieName})))

	return &testEnv{router: router, registry: registry, base: base, faulty: faulty}
}

// client is one browser context: it keeps the context cookie between calls.
type client struct {
	t      *testing.T
	env    *testEnv
	cookie *http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cookieName {
			c.cookie = ck
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code        string `json:"code"`
	FieldErrors []struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	} `json:"field_errors"`
}

func (c *client) login(email, password string) handlers.AuthView {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	return decode[handlers.AuthView](c.t, w)
}

func TestState_NewContextStartsHome(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	w := c.do(http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)

	st := decode[handlers.StateView](t, w)
	assert.Equal(t, "home", st.Page.Key)
	assert.Equal(t, locale.Arabic, st.Lang)
	assert.Equal(t, "rtl", st.Direction)
	assert.Nil(t, st.Session)

	again := decode[handlers.StateView](t, c.do(http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, st.ContextID, again.ContextID)
	assert.Equal(t, 1, env.registry.Len())
}

func TestNavigate_LoginResumesCapturedPage(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	w := c.do(http.MethodPost, "/api/v1/nav/navigate", map[string]string{"page": "my-orders"})
	require.Equal(t, http.StatusOK, w.Code)
	tv := decode[handlers.TransitionView](t, w)
	assert.Equal(t, nav.RedirectLogin, tv.Transition.Decision.Outcome)
	assert.Equal(t, "login", tv.State.Page.Key)
	assert.Equal(t, "my-orders", tv.State.Navigation.ReturnTo)
	assert.Equal(t, "/ar/?page=login", tv.State.URL)

	av := c.login("customer@autoparts.demo", "customer123")
	require.NotNil(t, av.Session)
	assert.Equal(t, "my-orders", av.Transition.To)
	assert.Equal(t, "my-orders", av.State.Page.Key)
	assert.Empty(t, av.State.Navigation.ReturnTo)

	back := decode[handlers.TransitionView](t, c.do(http.MethodPost, "/api/v1/nav/back", nil))
	assert.Equal(t, "login", back.State.Page.Key)
}

func TestNavigate_RoleLandingAndRoleMismatch(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	av := c.login("admin@autoparts.demo", "admin123")
	assert.Equal(t, "admin-dashboard", av.State.Page.Key)

	tv := decode[handlers.TransitionView](t, c.do(http.MethodPost, "/api/v1/nav/navigate", map[string]string{"page": "profile"}))
	assert.Equal(t, nav.RedirectHome, tv.Transition.Decision.Outcome)
	assert.Equal(t, "home", tv.State.Page.Key)

	w := c.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ROLE_FORBIDDEN", decode[errorBody](t, w).Code)
}

func TestNavigate_UnknownPageAndBadBody(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	tv := decode[handlers.TransitionView](t, c.do(http.MethodPost, "/api/v1/nav/navigate", map[string]string{"page": "no-such-page"}))
	assert.Equal(t, "home", tv.State.Page.Key)
	assert.Equal(t, []string{"home"}, tv.State.Navigation.History)

	w := c.do(http.MethodPost, "/api/v1/nav/navigate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[errorBody](t, w).Code)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		code     string
	}{
		{"empty form", "", "", http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"bad email", "not-an-email", "secret123", http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"unknown account", "nobody@autoparts.demo", "secret123", http.StatusUnauthorized, "ACCOUNT_NOT_FOUND"},
		{"wrong password", "customer@autoparts.demo", "wrong-pass", http.StatusUnauthorized, "WRONG_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": tt.email, "password": tt.password})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
		})
	}

	st := decode[handlers.StateView](t, c.do(http.MethodGet, "/api/v1/state", nil))
	assert.Nil(t, st.Session)
}

func TestRegister_SignsInAndRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	form := map[string]string{
		"name":             "Sara",
		"email":            "sara@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	w := c.do(http.MethodPost, "/api/v1/auth/register", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	av := decode[handlers.AuthView](t, w)
	require.NotNil(t, av.Session)
	assert.Equal(t, "customer", string(av.Session.Role))
	assert.Equal(t, "home", av.State.Page.Key)

	other := env.client(t)
	w = other.do(http.MethodPost, "/api/v1/auth/register", form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode[errorBody](t, w).Code)

	other.login("sara@example.com", "secret123")
}

func TestProfile_UpdateAndLogout(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	w := c.do(http.MethodPatch, "/api/v1/profile", map[string]string{"phone": "0500000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_REQUIRED", decode[errorBody](t, w).Code)

	c.login("customer@autoparts.demo", "customer123")
	w = c.do(http.MethodPatch, "/api/v1/profile", map[string]string{"phone": "0500000000"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[domain.Session](t, w)
	assert.Equal(t, "Demo Customer", updated.Name)
	assert.Equal(t, "0500000000", updated.Phone)

	tv := decode[handlers.TransitionView](t, c.do(http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Nil(t, tv.State.Session)
	assert.Equal(t, "home", tv.State.Page.Key)

	// The saved phone comes back on the next sign-in, from any context.
	other := env.client(t)
	av := other.login("customer@autoparts.demo", "customer123")
	assert.Equal(t, "0500000000", av.Session.Phone)
}

func TestProfile_PartialUpdateKeepsExtras(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.login("customer@autoparts.demo", "customer123")

	w := c.do(http.MethodPatch, "/api/v1/profile", map[string]any{
		"extra": map[string]string{"city": "Riyadh", "company": "Desert Motors"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Riyadh", decode[domain.Session](t, w).Extra["city"])

	w = c.do(http.MethodPatch, "/api/v1/profile", map[string]any{
		"name":  "Sara",
		"extra": map[string]string{"city": "Jeddah", "company": ""},
	})
	require.Equal(t, http.StatusOK, w.Code)

	profile := decode[domain.Session](t, c.do(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, "Sara", profile.Name)
	assert.Equal(t, map[string]string{"city": "Jeddah", "company": "Desert Motors"}, profile.Extra)

	// Extras follow the account into another context.
	other := env.client(t)
	av := other.login("customer@autoparts.demo", "customer123")
	assert.Equal(t, "Desert Motors", av.Session.Extra["company"])
}

func TestRestorePage_AppliesURLState(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	w := c.do(http.MethodGet, "/api/v1/page?url="+url("/en/?page=products&q=filter&car_type=hyundai"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	tv := decode[handlers.TransitionView](t, w)
	assert.Equal(t, locale.English, tv.State.Lang)
	assert.Equal(t, "products", tv.State.Page.Key)
	assert.Empty(t, tv.State.Navigation.History)
	assert.Equal(t, "filter", tv.State.Filters.Term)
	assert.Equal(t, "/en/?car_type=hyundai&page=products&q=filter", tv.State.URL)

	// The product list picks up the filters the page was opened with.
	list := decode[productList](t, c.do(http.MethodGet, "/api/v1/products?lang=en", nil))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "3", list.Products[0].ID)
	assert.Equal(t, "Oil filter", list.Products[0].Name)

	// A stored preference beats the URL segment.
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/locale", map[string]string{"lang": "en"}).Code)
	tv = decode[handlers.TransitionView](t, c.do(http.MethodGet, "/api/v1/page?url="+url("/ar/?page=cart"), nil))
	assert.Equal(t, locale.English, tv.State.Lang)
	assert.Equal(t, "cart", tv.State.Page.Key)
}

type productList struct {
	Filters  domain.SearchFilters   `json:"filters"`
	Products []handlers.ProductView `json:"products"`
}

func url(raw string) string {
	return strings.NewReplacer("?", "%3F", "&", "%26", "=", "%3D", "/", "%2F").Replace(raw)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	w := c.do(http.MethodGet, "/api/v1/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, c.cookie)

	w = c.do(http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "workers")
}

func TestAudit_AdminSeesAccountActivity(t *testing.T) {
	env := newTestEnv(t)

	c := env.client(t)
	w := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "Customer@autoparts.demo", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	c.login("customer@autoparts.demo", "customer123")
	c.do(http.MethodPost, "/api/v1/auth/logout", nil)

	w = c.do(http.MethodGet, "/api/v1/admin/audit", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := env.client(t)
	admin.login("admin@autoparts.demo", "admin123")
	w = admin.do(http.MethodGet, "/api/v1/admin/audit?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	recs := decode[[]audit.Record](t, w)
	require.Len(t, recs, 3)
	assert.Equal(t, audit.ActionLogin, recs[0].Action)
	assert.Equal(t, "demo-admin", recs[0].Actor)
	assert.Equal(t, audit.ActionLogout, recs[1].Action)
	assert.Equal(t, audit.ActionLogin, recs[2].Action)
	assert.Equal(t, "demo-customer", recs[2].Actor)

	all := decode[[]audit.Record](t, admin.do(http.MethodGet, "/api/v1/admin/audit", nil))
	require.Len(t, all, 4)
	assert.Equal(t, audit.ActionLoginFailed, all[3].Action)
	assert.Equal(t, "customer@autoparts.demo", all[3].Actor)

	w = admin.do(http.MethodGet, "/api/v1/admin/audit?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogLevel_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { _ = logger.SetLevel("error") })

	customer := env.client(t)
	customer.login("customer@autoparts.demo", "customer123")
	assert.Equal(t, http.StatusForbidden, customer.do(http.MethodPut, "/api/v1/admin/log-level", map[string]string{"level": "debug"}).Code)

	admin := env.client(t)
	admin.login("admin@autoparts.demo", "admin123")
	type levelBody struct {
		Level string `json:"level"`
	}
	assert.Equal(t, "error", decode[levelBody](t, admin.do(http.MethodGet, "/api/v1/admin/log-level", nil)).Level)

	w := admin.do(http.MethodPut, "/api/v1/admin/log-level", map[string]string{"level": "warn"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "warn", logger.GetLevel().String())
}
