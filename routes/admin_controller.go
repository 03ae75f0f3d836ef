package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/regal-advisory/backoffice/app"
	"github.com/regal-advisory/backoffice/forms"
	"github.com/regal-advisory/backoffice/httpx"
	"github.com/regal-advisory/backoffice/log"
	"github.com/regal-advisory/backoffice/model"
)

// AdminGetForm returns the full field tree of one form, inactive fields
// included, for the authoring UI.
func AdminGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formName := chi.URLParam(r, "formName")

		tree, err := app.Forms.FormTree(r.Context(), formName, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form_tree", err)
			return
		}

		render.JSON(w, r, tree)
	}
}

func CreateFormField(app app.App) http.HandlerFunc {
	type request struct {
		Label         string `json:"field_label"`
		Type          string `json:"field_type"`
		ParentFieldID *int   `json:"parent_field_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		formName := chi.URLParam(r, "formName")

		req := request{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Label == "" || req.Type == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"create_field.validate", "field_label and field_type are required")
			return
		}

		fieldID, err := app.Forms.CreateField(r.Context(), formName, req.Label, req.Type, req.ParentFieldID)
		switch {
		case isParentError(err):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "create_field.parent", "%s", err)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.insert_field", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"field_id": fieldID,
		})
	}
}

func UpdateFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		patch := model.FieldPatch{}
		err = render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Forms.UpdateField(r.Context(), fieldID, patch)
		switch {
		case errors.Is(err, forms.ErrNothingToUpdate):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"update_field.validate", "no updateable fields provided")
			return
		case isParentError(err):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "update_field.parent", "%s", err)
			return
		case errors.Is(err, forms.ErrNotFound):
			httpx.LogNotFound(w, "update_field", fieldID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.update_field", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteFormField removes a field; the storage layer cascades the delete to
// child fields, their options and any saved answers.
func DeleteFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.Forms.DeleteField(r.Context(), fieldID)
		switch {
		case errors.Is(err, forms.ErrNotFound):
			httpx.LogNotFound(w, "delete_field", fieldID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.delete_field", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func CreateFieldOption(app app.App) http.HandlerFunc {
	type request struct {
		Label string `json:"option_label"`
		Value string `json:"option_value"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		fieldID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		req := request{}
		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		optionID, err := app.Forms.CreateOption(r.Context(), fieldID, req.Label, req.Value)
		switch {
		case errors.Is(err, forms.ErrNotFound):
			httpx.LogNotFound(w, "create_option", fieldID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.insert_option", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"option_id": optionID,
		})
	}
}

func UpdateFieldOption(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optionID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		patch := model.OptionPatch{}
		err = render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Forms.UpdateOption(r.Context(), optionID, patch)
		switch {
		case errors.Is(err, forms.ErrNothingToUpdate):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"update_option.validate", "no updateable fields provided")
			return
		case errors.Is(err, forms.ErrNotFound):
			httpx.LogNotFound(w, "update_option", optionID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.update_option", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteFieldOption(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optionID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.Forms.DeleteOption(r.Context(), optionID)
		switch {
		case errors.Is(err, forms.ErrNotFound):
			httpx.LogNotFound(w, "delete_option", optionID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.delete_option", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetClientAnswerSummary returns one client's answers joined with their
// question labels, for the advisor and admin review views.
func GetClientAnswerSummary(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		summary, err := app.Forms.AnswerSummary(r.Context(), clientID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answer_summary", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"answers": summary,
		})
	}
}

func isParentError(err error) bool {
	return errors.Is(err, forms.ErrParentNotFound) ||
		errors.Is(err, forms.ErrParentForm) ||
		errors.Is(err, forms.ErrParentCycle)
}
