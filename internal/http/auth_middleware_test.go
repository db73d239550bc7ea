package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

type fakeUserLookup struct {
	users map[string]domain.User
	err   error
}

func (f *fakeUserLookup) GetByID(_ context.Context, id string) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func newMiddlewareRouter(t *testing.T, jwtSvc *service.JWTService, users userLookup, optional bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authz := NewAuthorizer(zap.NewNop(), jwtSvc, users)
	mw := authz.RequireAuth()
	if optional {
		mw = authz.OptionalAuth()
	}
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		identity := IdentityFrom(c)
		if user, ok := identity.User(); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": identity.IsAnonymous()})
	})
	return r
}

func newTestJWT(t *testing.T) *service.JWTService {
	t.Helper()
	jwtSvc, err := service.NewJWTService("secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}
	return jwtSvc
}

func doGet(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func assertErrorKind(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != kind {
		t.Fatalf("expected kind %q, got %v", kind, body["error"])
	}
}

func TestAuthorizer_AllowsValidToken(t *testing.T) {
	jwtSvc := newTestJWT(t)
	users := &fakeUserLookup{users: map[string]domain.User{"u1": {ID: "u1", Email: "user@example.com"}}}
	token, err := jwtSvc.Issue(users.users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doGet(newMiddlewareRouter(t, jwtSvc, users, false), "/protected", "Bearer "+token.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["user_id"] != "u1" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthorizer_RejectsMissingToken(t *testing.T) {
	r := newMiddlewareRouter(t, newTestJWT(t), &fakeUserLookup{}, false)
	rec := doGet(r, "/protected", "")
	assertErrorKind(t, rec, http.StatusUnauthorized, kindUnauthorized)
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected WWW-Authenticate header")
	}
}

func TestAuthorizer_ExpiredTokenIsUnauthorized(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	current := base
	jwtSvc := newTestJWT(t).WithClock(func() time.Time { return current })
	users := &fakeUserLookup{users: map[string]domain.User{"u1": {ID: "u1"}}}
	token, err := jwtSvc.Issue(users.users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	current = base.Add(30 * time.Minute)
	rec := doGet(newMiddlewareRouter(t, jwtSvc, users, false), "/protected", "Bearer "+token.AccessToken)
	assertErrorKind(t, rec, http.StatusUnauthorized, kindUnauthorized)
	if decodeBody(t, rec)["message"] != "token expired" {
		t.Fatalf("unexpected message %s", rec.Body.String())
	}
}

func TestAuthorizer_MalformedTokens(t *testing.T) {
	jwtSvc := newTestJWT(t)
	other, err := service.NewJWTService("other-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}
	forged, err := other.Issue(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	users := &fakeUserLookup{users: map[string]domain.User{"u1": {ID: "u1"}}}
	r := newMiddlewareRouter(t, jwtSvc, users, false)

	cases := map[string]string{
		"garbage":        "Bearer not-a-jwt",
		"wrong scheme":   "Basic dXNlcjpwdw==",
		"no token":       "Bearer ",
		"forged":         "Bearer " + forged.AccessToken,
		"missing scheme": forged.AccessToken,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doGet(r, "/protected", header)
			assertErrorKind(t, rec, http.StatusUnauthorized, kindMalformed)
		})
	}
}

func TestAuthorizer_DeletedUserIsUnauthorized(t *testing.T) {
	jwtSvc := newTestJWT(t)
	token, err := jwtSvc.Issue(domain.User{ID: "gone"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := doGet(newMiddlewareRouter(t, jwtSvc, &fakeUserLookup{}, false), "/protected", "Bearer "+token.AccessToken)
	assertErrorKind(t, rec, http.StatusUnauthorized, kindUnauthorized)
}

func TestAuthorizer_DisabledUserIsUnauthorized(t *testing.T) {
	jwtSvc := newTestJWT(t)
	users := &fakeUserLookup{users: map[string]domain.User{"u1": {ID: "u1", Disabled: true}}}
	token, err := jwtSvc.Issue(users.users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := doGet(newMiddlewareRouter(t, jwtSvc, users, false), "/protected", "Bearer "+token.AccessToken)
	assertErrorKind(t, rec, http.StatusUnauthorized, kindUnauthorized)
}

func TestAuthorizer_StoreUnavailable(t *testing.T) {
	jwtSvc := newTestJWT(t)
	token, err := jwtSvc.Issue(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	users := &fakeUserLookup{err: errors.Join(domain.ErrUpstreamUnavailable, errors.New("dial tcp: refused"))}
	rec := doGet(newMiddlewareRouter(t, jwtSvc, users, false), "/protected", "Bearer "+token.AccessToken)
	assertErrorKind(t, rec, http.StatusServiceUnavailable, kindUpstreamUnavailable)
	if body := rec.Body.String(); containsAny(body, "dial tcp", "refused") {
		t.Fatalf("internal detail leaked: %s", body)
	}
}

func TestAuthorizer_OptionalWithoutHeaderIsAnonymous(t *testing.T) {
	rec := doGet(newMiddlewareRouter(t, newTestJWT(t), &fakeUserLookup{}, true), "/protected", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["anonymous"] != true {
		t.Fatalf("expected anonymous identity, got %s", rec.Body.String())
	}
}

func TestAuthorizer_OptionalWithValidTokenIsKnown(t *testing.T) {
	jwtSvc := newTestJWT(t)
	users := &fakeUserLookup{users: map[string]domain.User{"u1": {ID: "u1"}}}
	token, err := jwtSvc.Issue(users.users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := doGet(newMiddlewareRouter(t, jwtSvc, users, true), "/protected", "Bearer "+token.AccessToken)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["user_id"] != "u1" {
		t.Fatalf("expected known identity, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthorizer_OptionalRejectsInvalidToken(t *testing.T) {
	rec := doGet(newMiddlewareRouter(t, newTestJWT(t), &fakeUserLookup{}, true), "/protected", "Bearer garbage")
	assertErrorKind(t, rec, http.StatusUnauthorized, kindMalformed)
}
