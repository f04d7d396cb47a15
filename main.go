package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/surwhen/app"
	"github.com/mbolis/surwhen/config"
	"github.com/mbolis/surwhen/email"
	"github.com/mbolis/surwhen/log"
	"github.com/mbolis/surwhen/routes"
	"github.com/mbolis/surwhen/storage"
	"github.com/mbolis/surwhen/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	backend, err := storage.FromConfig(cfg)
	if err != nil {
		log.Fatal("main.storage:", err)
	}

	mailer := email.NewMailer(cfg)
	if !mailer.Enabled() {
		log.Warn("main.mail: SMTP not configured, submissions will not be relayed")
	}

	app := app.App{
		Store:  store.New(backend),
		Mailer: mailer,
		Config: cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
