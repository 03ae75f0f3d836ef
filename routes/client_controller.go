package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/regal-advisory/backoffice/app"
	"github.com/regal-advisory/backoffice/forms"
	"github.com/regal-advisory/backoffice/httpx"
	"github.com/regal-advisory/backoffice/log"
	"github.com/regal-advisory/backoffice/model"
	"github.com/regal-advisory/backoffice/routes/middlewares"
)

// ClientGetForm returns the active-only field tree of one form. A form with
// no active fields yields an empty list, not a 404.
func ClientGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formName := chi.URLParam(r, "formName")

		tree, err := app.Forms.FormTree(r.Context(), formName, true)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form_tree", err)
			return
		}

		render.JSON(w, r, tree)
	}
}

// GetOwnAnswers returns the calling client's saved (field_id, value) pairs.
func GetOwnAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := middlewares.UserID(r)
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "request.claims.user_id")
			return
		}

		answers, err := app.Forms.Answers(r.Context(), clientID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answers", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"answers": answers,
		})
	}
}

// UpsertOwnAnswers saves a batch of answers for the calling client. Pairs
// missing a field id or a value are discarded; the rest are written in one
// transaction, replacing any previously saved value per field.
func UpsertOwnAnswers(app app.App) http.HandlerFunc {
	type request struct {
		Answers []model.AnswerInput `json:"answers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := middlewares.UserID(r)
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "request.claims.user_id")
			return
		}

		req := request{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Forms.UpsertAnswers(r.Context(), clientID, req.Answers)
		switch {
		case errors.Is(err, forms.ErrNoValidAnswers):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"upsert_answers.validate", "no valid answers provided")
			return
		case err != nil:
			httpx.LogInternalError(w, "db.upsert_answers", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
