package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/regal-advisory/backoffice/config"
	"github.com/regal-advisory/backoffice/forms"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Forms *forms.Store
}
