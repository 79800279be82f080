package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/formhive/survey-api/app"
	"github.com/formhive/survey-api/httpx"
	"github.com/formhive/survey-api/log"
)

var greetings = map[string]string{
	"en": "Hello",
	"es": "Hola",
	"fr": "Bonjour",
	"hi": "Namaste",
}

func Greet(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "Guest"
		}
		if len(name) > 50 {
			httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "greet.name", "name is too long")
			return
		}

		language := r.URL.Query().Get("language")
		if language == "" {
			language = "en"
		}
		if len(language) > 2 {
			httpx.LogDetailMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "greet.language", "language is too long")
			return
		}

		greeting, ok := greetings[language]
		if !ok {
			greeting = greetings["en"]
		}

		render.JSON(w, r, map[string]any{
			"message":  fmt.Sprintf("%s, %s!", greeting, name),
			"language": language,
		})
	}
}
