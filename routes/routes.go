package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formhive/survey-api/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Route("/users", func(r chi.Router) {
		r.Post("/", CreateUser(app))
		r.Get("/", ListUsers(app))
		r.Get(`/{id:^\d+$}`, GetUserById(app))
	})

	root.Route("/surveys", func(r chi.Router) {
		r.Post("/", CreateSurvey(app))
		r.Get(`/{id:^\d+$}`, GetSurveyById(app))
	})

	root.Route("/questions", func(r chi.Router) {
		r.Post("/", CreateQuestion(app))
	})

	root.Route("/responses", func(r chi.Router) {
		r.Post("/", SubmitResponse(app))
		r.Get(`/{surveyId:^\d+$}`, GetSurveyResponses(app))
	})

	root.Get("/greet/", Greet(app))

	return root
}
