package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/regal-advisory/backoffice/app"
	"github.com/regal-advisory/backoffice/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// form authoring
	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Get("/forms/{formName}", AdminGetForm(app))
		r.Post("/forms/{formName}/fields", CreateFormField(app))
		r.Put(`/forms/fields/{id:^\d+$}`, UpdateFormField(app))
		r.Delete(`/forms/fields/{id:^\d+$}`, DeleteFormField(app))
		r.Post(`/forms/fields/{id:^\d+$}/options`, CreateFieldOption(app))
		r.Put(`/forms/options/{id:^\d+$}`, UpdateFieldOption(app))
		r.Delete(`/forms/options/{id:^\d+$}`, DeleteFieldOption(app))
	})

	// advisor/admin review of a client's saved answers
	api.
		With(middlewares.RequireRole(app.TokenSecret, "admin", "advisor")).
		Get(`/clients/{id:^\d+$}/answers`, GetClientAnswerSummary(app))

	// form presentation and answers
	api.Route("/client", func(r chi.Router) {
		r.Use(middlewares.Client(app.TokenSecret))

		r.Get("/forms/{formName}", ClientGetForm(app))
		r.Get("/answers", GetOwnAnswers(app))
		r.Put("/answers", UpsertOwnAnswers(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
