package app

import (
	"github.com/mbolis/surwhen/config"
	"github.com/mbolis/surwhen/email"
	"github.com/mbolis/surwhen/store"
)

type App struct {
	Store  *store.Store
	Mailer email.Notifier
	config.Config
}
