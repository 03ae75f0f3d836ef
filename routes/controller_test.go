package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"

	"github.com/regal-advisory/backoffice/app"
	"github.com/regal-advisory/backoffice/config"
	"github.com/regal-advisory/backoffice/database"
	"github.com/regal-advisory/backoffice/forms"
)

func setupTestApp(t *testing.T) (app.App, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return app.App{
		DB:     db,
		Config: config.Config{TokenSecret: "test-secret"},
		Forms:  forms.NewStore(db),
	}, db
}

// newRequest builds a request carrying chi URL params and, when clientID is
// set, the token claims the middlewares would have attached.
func newRequest(t *testing.T, method, body string, params map[string]string, clientID string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	ctx := req.Context()

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	if clientID != "" {
		ctx = context.WithValue(ctx, oauth.ClaimsContext, map[string]string{
			"roles":   "client",
			"user_id": clientID,
		})
	}
	return req.WithContext(ctx)
}

func TestClientGetForm(t *testing.T) {
	testApp, db := setupTestApp(t)
	handler := ClientGetForm(testApp)

	t.Run("empty form yields empty list, not 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "GET", "", map[string]string{"formName": "assets"}, "7"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != "[]" {
			t.Errorf("body = %q, want []", got)
		}
	})

	t.Run("returns only active fields", func(t *testing.T) {
		mustExec(t, db, `
			INSERT INTO form_field (id, form_name, label, field_type, field_order, active)
			VALUES (1, 'assets', 'Property', 'select', 1, TRUE),
			       (2, 'assets', 'Hidden', 'text', 2, FALSE)`)

		w := httptest.NewRecorder()
		handler(w, newRequest(t, "GET", "", map[string]string{"formName": "assets"}, "7"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var tree []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &tree); err != nil {
			t.Fatalf("parse body: %v", err)
		}
		if len(tree) != 1 {
			t.Fatalf("got %d fields, want 1", len(tree))
		}
		if tree[0]["field_label"] != "Property" {
			t.Errorf("field_label = %v, want Property", tree[0]["field_label"])
		}
	})
}

func TestUpsertOwnAnswers(t *testing.T) {
	testApp, db := setupTestApp(t)
	handler := UpsertOwnAnswers(testApp)

	mustExec(t, db, `
		INSERT INTO user (id, username, password_hash, role)
		VALUES (7, 'client7', 'x', 'client')`)
	mustExec(t, db, `
		INSERT INTO form_field (id, form_name, label, field_type, field_order)
		VALUES (5, 'investor_profile', 'Risk Tolerance', 'select', 1)`)

	t.Run("persists a valid batch", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"answers":[{"field_id":5,"value":"aggressive"}]}`
		handler(w, newRequest(t, "PUT", body, nil, "7"))

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}

		var value string
		err := db.QueryRow(`SELECT value FROM client_answer WHERE client_id = 7 AND field_id = 5`).Scan(&value)
		if err != nil {
			t.Fatalf("read back answer: %v", err)
		}
		if value != "aggressive" {
			t.Errorf("value = %q, want aggressive", value)
		}
	})

	t.Run("empty batch is a validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "PUT", `{"answers":[]}`, nil, "7"))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing claims is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "PUT", `{"answers":[{"field_id":5,"value":"x"}]}`, nil, ""))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestUpdateFormField(t *testing.T) {
	testApp, db := setupTestApp(t)
	handler := UpdateFormField(testApp)

	mustExec(t, db, `
		INSERT INTO form_field (id, form_name, label, field_type, field_order)
		VALUES (1, 'assets', 'Property', 'select', 1)`)

	t.Run("empty patch is a validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "PUT", `{}`, map[string]string{"id": "1"}, ""))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing field is not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "PUT", `{"field_label":"X"}`, map[string]string{"id": "999"}, ""))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("applies a partial update", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, newRequest(t, "PUT", `{"is_active":false}`, map[string]string{"id": "1"}, ""))

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
		var active bool
		if err := db.QueryRow(`SELECT active FROM form_field WHERE id = 1`).Scan(&active); err != nil {
			t.Fatal(err)
		}
		if active {
			t.Error("field still active after patch")
		}
	})
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
