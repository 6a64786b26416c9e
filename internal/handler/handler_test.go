package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/tedris-portal/internal/config"
	"github.com/iliyamo/tedris-portal/internal/database"
	"github.com/iliyamo/tedris-portal/internal/handler"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/router"
	"github.com/iliyamo/tedris-portal/internal/service"
	"github.com/iliyamo/tedris-portal/internal/utils"
)

const secret = "handler-test-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatal(err)
	}

	users := repository.NewUserRepo(db)
	schools := repository.NewSchoolRepo(db)
	if _, err := schools.Seed(ctx, database.DefaultSchools); err != nil {
		t.Fatal(err)
	}
	auth, err := service.NewAuth(users, bcrypt.MinCost, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := router.Handlers{
		Auth: handler.NewAuthHandler(cfg,
			service.NewRegistration(users, schools, nil, bcrypt.MinCost, nil),
			auth, users, repository.NewTokenRepo(db), nil),
		Admin:  handler.NewAdminHandler(service.NewStats(repository.NewStatsRepo(db), nil), users, nil),
		Public: handler.NewPublicHandler(schools, nil),
		DB:     db,
	}
	return router.New(h, router.Options{
		JWTSecret: secret,
		Redis:     rdb,
		Cache: config.CacheConfig{
			Enabled: true, Methods: map[string]bool{http.MethodGet: true},
			TTL: 30 * time.Second, Prefix: "test:cache", MaxBodyBytes: 1 << 20,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
	})
}

func do(t *testing.T, e *echo.Echo, method, target string, body any, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func registration() map[string]any {
	return map[string]any{
		"phone":        "30000000",
		"nationalId":   "123456",
		"employeeId":   "EMP1",
		"fullName":     "Ahmed Salem",
		"password":     "secret1",
		"userCategory": "professor",
		"specificRole": "prof_1er_cycle",
		"region":       "Nouakchott-Nord",
		"subRegion":    "Dar Naim",
		"school":       "Ecole A",
		"isNewSchool":  true,
	}
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, 999, "administration", "Admin", 5)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Token
}

func TestRegisterAndLoginFlow(t *testing.T) {
	e := newServer(t)

	rec, body := do(t, e, http.MethodPost, "/v1/auth/register", registration(), "")
	if rec.Code != http.StatusOK || body["success"] != true || body["userId"] == nil {
		t.Fatalf("register: %d %v", rec.Code, body)
	}

	rec, body = do(t, e, http.MethodPost, "/v1/auth/register", registration(), "")
	if rec.Code != http.StatusConflict || body["error"] != "duplicate" || body["field"] != "phone" {
		t.Fatalf("duplicate register: %d %v", rec.Code, body)
	}

	rec, body = do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "30000000", "password": "secret1"}, "")
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("login: %d %v", rec.Code, body)
	}
	user := body["user"].(map[string]any)
	if user["fullName"] != "Ahmed Salem" || user["passwordHash"] != nil {
		t.Errorf("user part = %v", user)
	}
	access := body["access"].(map[string]any)["token"].(string)
	refresh := body["refresh"].(map[string]any)["token"].(string)

	rec, body = do(t, e, http.MethodGet, "/v1/me", nil, access)
	if rec.Code != http.StatusOK || body["role"] != "professor" || body["name"] != "Ahmed Salem" {
		t.Errorf("me: %d %v", rec.Code, body)
	}

	rec, body = do(t, e, http.MethodPost, "/v1/auth/refresh-access", map[string]string{"refresh_token": refresh}, "")
	if rec.Code != http.StatusOK || body["access"] == nil {
		t.Errorf("refresh-access: %d %v", rec.Code, body)
	}

	rec, body = do(t, e, http.MethodPost, "/v1/auth/refresh", map[string]string{"refresh_token": refresh}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %v", rec.Code, body)
	}
	rotated := body["refresh"].(map[string]any)["token"].(string)
	if rec, _ := do(t, e, http.MethodPost, "/v1/auth/refresh", map[string]string{"refresh_token": refresh}, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh token: %d", rec.Code)
	}

	if rec, _ := do(t, e, http.MethodPost, "/v1/auth/logout", map[string]string{"refresh_token": rotated}, ""); rec.Code != http.StatusNoContent {
		t.Errorf("logout: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodPost, "/v1/auth/refresh", map[string]string{"refresh_token": rotated}, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout: %d", rec.Code)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	e := newServer(t)

	in := registration()
	in["phone"] = "21999999"
	in["password"] = "abc"
	rec, body := do(t, e, http.MethodPost, "/v1/auth/register", in, "")
	if rec.Code != http.StatusBadRequest || body["error"] != "invalid-range" {
		t.Fatalf("range: %d %v", rec.Code, body)
	}
	fields := body["fields"].(map[string]any)
	if fields["phone"] != "invalid-range" || fields["password"] != "too-short" {
		t.Errorf("fields = %v", fields)
	}

	in = registration()
	in["subRegion"] = "Rosso"
	rec, body = do(t, e, http.MethodPost, "/v1/auth/register", in, "")
	if rec.Code != http.StatusBadRequest || body["error"] != "invalid-selection" {
		t.Errorf("selection: %d %v", rec.Code, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	raw := httptest.NewRecorder()
	e.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Errorf("malformed body: %d", raw.Code)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	e := newServer(t)
	if rec, body := do(t, e, http.MethodPost, "/v1/auth/register", registration(), ""); rec.Code != http.StatusOK {
		t.Fatalf("register: %d %v", rec.Code, body)
	}

	unknown, ub := do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "00000000", "password": "x"}, "")
	wrong, wb := do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "30000000", "password": "wrongpassword"}, "")
	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("status unknown=%d wrong=%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() || ub["error"] != "invalid-credentials" || wb["error"] != "invalid-credentials" {
		t.Errorf("bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}

	rec, body := do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "12", "password": "x"}, "")
	if rec.Code != http.StatusBadRequest || body["error"] != "invalid-form" {
		t.Errorf("malformed login: %d %v", rec.Code, body)
	}
}

func TestAdminRoutes(t *testing.T) {
	e := newServer(t)
	if rec, body := do(t, e, http.MethodPost, "/v1/auth/register", registration(), ""); rec.Code != http.StatusOK {
		t.Fatalf("register: %d %v", rec.Code, body)
	}
	_, login := do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "30000000", "password": "secret1"}, "")
	professor := login["access"].(map[string]any)["token"].(string)

	if rec, _ := do(t, e, http.MethodGet, "/v1/admin/stats", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous stats: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodGet, "/v1/admin/stats", nil, professor); rec.Code != http.StatusForbidden {
		t.Errorf("professor stats: %d", rec.Code)
	}

	admin := adminToken(t)
	rec, body := do(t, e, http.MethodGet, "/v1/admin/stats", nil, admin)
	if rec.Code != http.StatusOK || body["total_users"] != float64(1) {
		t.Fatalf("stats: %d %v", rec.Code, body)
	}
	if body["by_category"].(map[string]any)["professor"] != float64(1) {
		t.Errorf("by_category = %v", body["by_category"])
	}
	if top := body["top_regions"].([]any); len(top) != 1 {
		t.Errorf("top_regions = %v", top)
	}
	if rec, _ := do(t, e, http.MethodGet, "/v1/admin/stats", nil, admin); rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second stats call not cached: %q", rec.Header().Get("X-Cache"))
	}

	rec, body = do(t, e, http.MethodGet, "/v1/admin/users?limit=10", nil, admin)
	if rec.Code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("users: %d %v", rec.Code, body)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("password hash leaked")
	}
	if rec, _ := do(t, e, http.MethodGet, "/v1/admin/users?limit=abc", nil, admin); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: %d", rec.Code)
	}
}

func TestPublicLookups(t *testing.T) {
	e := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/schools?region=Guidimakha", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var schools []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &schools); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("schools: %d %s", rec.Code, rec.Body.String())
	}
	if len(schools) != 2 {
		t.Errorf("guidimakha schools = %v", schools)
	}

	if rec, _ := do(t, e, http.MethodGet, "/v1/schools?region=Atlantis", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown region: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodGet, "/v1/schools?region=Trarza&subRegion=Aleg", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched sub-region: %d", rec.Code)
	}

	rec, body := do(t, e, http.MethodGet, "/v1/catalog", nil, "")
	if rec.Code != http.StatusOK || len(body["categories"].([]any)) != 3 || len(body["regions"].([]any)) != 15 {
		t.Errorf("catalog: %d", rec.Code)
	}

	if rec, _ := do(t, e, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodGet, "/readyz", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("readyz: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodGet, "/metrics", nil, ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("metrics: %d", rec.Code)
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	e := newServer(t)
	e.GET("/v1/boom", func(echo.Context) error { panic("nil map write") })

	rec, body := do(t, e, http.MethodGet, "/v1/boom", nil, "")
	if rec.Code != http.StatusInternalServerError || body["error"] != "internal" {
		t.Fatalf("panicking route: %d %v", rec.Code, body)
	}
	if strings.Contains(rec.Body.String(), "nil map write") {
		t.Error("panic value leaked into response")
	}
	if rec, _ := do(t, e, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("server unusable after panic: %d", rec.Code)
	}
}

func TestRevokedRefreshTokenCannotLogOut(t *testing.T) {
	e := newServer(t)
	if rec, body := do(t, e, http.MethodPost, "/v1/auth/register", registration(), ""); rec.Code != http.StatusOK {
		t.Fatalf("register: %d %v", rec.Code, body)
	}
	_, login := do(t, e, http.MethodPost, "/v1/auth/login", map[string]string{"phone": "30000000", "password": "secret1"}, "")
	refresh := login["refresh"].(map[string]any)["token"].(string)

	if rec, _ := do(t, e, http.MethodPost, "/v1/auth/logout", map[string]string{"refresh_token": refresh}, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec, _ := do(t, e, http.MethodPost, "/v1/auth/logout", map[string]string{"refresh_token": refresh}, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("second logout: %d", rec.Code)
	}
}
