package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/surwhen/app"
	"github.com/mbolis/surwhen/email"
	"github.com/mbolis/surwhen/httpx"
	"github.com/mbolis/surwhen/log"
	"github.com/mbolis/surwhen/model"
	"github.com/mbolis/surwhen/store"
)

func PublicGetSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := chi.URLParam(r, "hash")

		survey, err := app.Store.SurveyByHash(r.Context(), hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "get_survey", hash)
			} else {
				httpx.LogInternalError(w, r, "store.get_survey", err)
			}
			return
		}

		// targetEmail stays private to the admin surface
		render.JSON(w, r, map[string]any{
			"title":       survey.Title,
			"description": survey.Description,
			"reasons":     survey.Reasons,
		})
	}
}

type submitRequest struct {
	Hash   string `json:"hash"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

func PublicSubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub submitRequest
		err := render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}

		sub.Name = strings.TrimSpace(sub.Name)
		sub.Reason = strings.TrimSpace(sub.Reason)
		if sub.Hash == "" || sub.Name == "" || sub.Reason == "" {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "submit.fields", "Missing required fields")
			return
		}
		if sub.Email != "" && !model.IsValidEmail(sub.Email) {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "submit.email", "Invalid email format")
			return
		}

		cfg, err := app.Store.Load(r.Context())
		if err != nil {
			httpx.LogInternalError(w, r, "store.load", err)
			return
		}
		survey, ok := cfg.SurveyByHash(sub.Hash)
		if !ok {
			httpx.LogNotFound(w, r, "submit.survey", sub.Hash)
			return
		}

		if !app.Mailer.Enabled() {
			log.Warn("submit.mail: email not configured, dropping notification")
		} else {
			err = app.Mailer.SubmissionReceived(email.Submission{
				TargetEmail:       cfg.TargetEmailFor(survey),
				Name:              sub.Name,
				UserEmail:         sub.Email,
				Reason:            sub.Reason,
				SurveyTitle:       survey.Title,
				SurveyDescription: survey.Description,
			})
			if err != nil {
				httpx.LogInternalError(w, r, "submit.mail", err)
				return
			}
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}

// PublicAccentColor never fails: any store error degrades to the system
// default color so the UI can always paint something.
func PublicAccentColor(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		color := model.DefaultAccentColor

		cfg, err := app.Store.Load(r.Context())
		if err != nil {
			log.Warnf("store.accent_color: %s", err)
		} else if cfg.AccentColor != "" {
			color = cfg.AccentColor
		}

		render.JSON(w, r, map[string]any{"accentColor": color})
	}
}
