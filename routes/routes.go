package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/surwhen/app"
	"github.com/mbolis/surwhen/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get(`/surveys/{hash:^[0-9a-f]{16}$}`, PublicGetSurvey(app))
	api.Post("/submit", PublicSubmitSurvey(app))
	api.Get("/accent-color", PublicAccentColor(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.AdminToken(app.AdminToken))

		// CRUD survey
		r.Get("/surveys", ListSurveys(app))
		r.Post("/surveys", CreateSurvey(app))
		r.Put("/surveys", UpdateSurvey(app))
		r.Delete("/surveys", DeleteSurvey(app))

		// global settings
		r.Put("/config", UpdateDefaultTargetEmail(app))
		r.Put("/accent-color", UpdateAccentColor(app))

		// bulk config transfer
		r.Get("/config/export", ExportConfig(app))
		r.Post("/config/import", ImportConfig(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
