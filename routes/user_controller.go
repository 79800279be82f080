package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/formhive/survey-api/app"
	"github.com/formhive/survey-api/httpx"
	"github.com/formhive/survey-api/log"
	"github.com/formhive/survey-api/model"
)

func CreateUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := model.User{}
		err := render.DecodeJSON(r.Body, &user)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var taken bool
		err = app.QueryRowContext(r.Context(),
			`SELECT 1 FROM user WHERE email = ?`,
			user.Email,
		).Scan(&taken)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			httpx.LogInternalError(w, "db.get_user_by_email", err)
			return
		}
		if taken {
			httpx.LogDetailMsg(w, http.StatusBadRequest, log.DebugLevel, "create_user.email_taken", "Email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.LogInternalError(w, "create_user.hash_password", err)
			return
		}

		err = app.QueryRowContext(r.Context(), `
			INSERT INTO user (email, username, password_hash, full_name)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			user.Email,
			user.Username,
			string(hash),
			user.FullName,
		).Scan(&user.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_user", err)
			return
		}

		user.Password = ""
		render.JSON(w, r, map[string]any{
			"message": "User created successfully",
			"user":    user,
		})
	}
}

func ListUsers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 10)

		rows, err := app.QueryContext(r.Context(), `
			SELECT id, email, username, full_name
			FROM user
			ORDER BY id
			LIMIT ? OFFSET ?`,
			limit,
			skip,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_users", err)
			return
		}
		defer rows.Close()

		users := []model.User{}
		for rows.Next() {
			u := model.User{}
			err = rows.Scan(&u.ID, &u.Email, &u.Username, &u.FullName)
			if err != nil {
				httpx.LogInternalError(w, "db.get_users.scan", err)
				return
			}
			users = append(users, u)
		}

		render.JSON(w, r, users)
	}
}

func GetUserById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		user := model.User{}
		err = app.QueryRowContext(r.Context(), `
			SELECT id, email, username, full_name
			FROM user
			WHERE id = ?`,
			userId,
		).Scan(&user.ID, &user.Email, &user.Username, &user.FullName)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_user", "User not found", userId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}

		render.JSON(w, r, user)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
