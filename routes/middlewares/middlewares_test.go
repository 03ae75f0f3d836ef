package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/oauth"
)

func requestWithClaims(claims map[string]string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	return req.WithContext(context.WithValue(req.Context(), oauth.ClaimsContext, claims))
}

func TestHasRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := []struct {
		name       string
		rolesClaim string
		required   []string
		wantStatus int
	}{
		{"matching role passes", "admin", []string{"admin"}, http.StatusTeapot},
		{"one of several claim roles passes", "advisor,admin", []string{"admin"}, http.StatusTeapot},
		{"any-of requirement passes", "advisor", []string{"admin", "advisor"}, http.StatusTeapot},
		{"wrong role is forbidden", "client", []string{"admin"}, http.StatusForbidden},
		{"empty claim is forbidden", "", []string{"client"}, http.StatusForbidden},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler := hasRole(c.required...)(next)
			handler.ServeHTTP(w, requestWithClaims(map[string]string{"roles": c.rolesClaim}))

			if w.Code != c.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, c.wantStatus)
			}
		})
	}
}

func TestUserID(t *testing.T) {
	t.Run("parses the claim", func(t *testing.T) {
		id, ok := UserID(requestWithClaims(map[string]string{"user_id": "42"}))
		if !ok || id != 42 {
			t.Errorf("got (%d, %v), want (42, true)", id, ok)
		}
	})

	t.Run("missing claim", func(t *testing.T) {
		if _, ok := UserID(requestWithClaims(map[string]string{})); ok {
			t.Error("expected ok = false for missing user_id")
		}
	})

	t.Run("no claims in context", func(t *testing.T) {
		if _, ok := UserID(httptest.NewRequest("GET", "/", nil)); ok {
			t.Error("expected ok = false without claims")
		}
	})
}
