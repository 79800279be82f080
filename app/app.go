package app

import (
	"database/sql"

	"github.com/formhive/survey-api/config"
)

type App struct {
	*sql.DB
	config.Config
}
