package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/surwhen/app"
	"github.com/mbolis/surwhen/httpx"
	"github.com/mbolis/surwhen/log"
	"github.com/mbolis/surwhen/model"
	"github.com/mbolis/surwhen/store"
)

// writeStoreError maps repository failures shared by every admin handler.
// id names the record the operation addressed, for the not-found log line.
func writeStoreError(w http.ResponseWriter, r *http.Request, code string, id any, err error) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		httpx.JSONErrors(w, r, http.StatusBadRequest, "Validation failed", validation.Violations())
	case errors.Is(err, store.ErrDuplicateTitle):
		httpx.LogStatus(w, r, http.StatusConflict, log.DebugLevel, code, store.ErrDuplicateTitle.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.LogNotFound(w, r, code, id)
	case errors.Is(err, store.ErrInvalidEmail):
		httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, code, store.ErrInvalidEmail.Error())
	default:
		httpx.LogInternalError(w, r, code, err)
	}
}

type adminSurvey struct {
	model.Survey
	Hash string `json:"hash"`
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := app.Store.Load(r.Context())
		if err != nil {
			writeStoreError(w, r, "store.list_surveys", "", err)
			return
		}

		surveys := make([]adminSurvey, len(cfg.Surveys))
		for i, s := range cfg.Surveys {
			surveys[i] = adminSurvey{Survey: s, Hash: s.Hash()}
		}

		render.JSON(w, r, map[string]any{
			"defaultTargetEmail": cfg.DefaultTargetEmail,
			"accentColor":        cfg.AccentColor,
			"surveys":            surveys,
		})
	}
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var survey model.Survey
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}
		// an empty targetEmail means "use the default"
		if survey.TargetEmail != nil && *survey.TargetEmail == "" {
			survey.TargetEmail = nil
		}

		if err := app.Store.AddSurvey(r.Context(), survey); err != nil {
			writeStoreError(w, r, "store.add_survey", survey.Title, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success": true,
			"hash":    survey.Hash(),
		})
	}
}

type updateSurveyRequest struct {
	Hash string `json:"hash"`
	model.SurveyPatch
}

func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSurveyRequest
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}
		if req.Hash == "" {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "update_survey.hash", "Hash is required")
			return
		}

		if err := app.Store.UpdateSurvey(r.Context(), req.Hash, req.SurveyPatch); err != nil {
			writeStoreError(w, r, "store.update_survey", req.Hash, err)
			return
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := r.URL.Query().Get("hash")
		if hash == "" {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "delete_survey.hash", "Hash is required")
			return
		}

		if err := app.Store.DeleteSurvey(r.Context(), hash); err != nil {
			writeStoreError(w, r, "store.delete_survey", hash, err)
			return
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}

type configRequest struct {
	DefaultTargetEmail string `json:"defaultTargetEmail"`
}

func UpdateDefaultTargetEmail(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req configRequest
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}
		if req.DefaultTargetEmail == "" {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "update_config.email", "defaultTargetEmail is required")
			return
		}

		if err := app.Store.SetDefaultTargetEmail(r.Context(), req.DefaultTargetEmail); err != nil {
			writeStoreError(w, r, "store.update_default_email", "", err)
			return
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}

type accentColorRequest struct {
	AccentColor model.OptionalString `json:"accentColor"`
}

func UpdateAccentColor(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accentColorRequest
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}

		// null or empty reverts to the system default
		color := ""
		if req.AccentColor.Set && req.AccentColor.Value != nil {
			color = *req.AccentColor.Value
		}
		if color != "" && !model.IsValidHexColor(color) {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "update_accent_color.format", "accentColor must be a #RRGGBB color")
			return
		}

		if err := app.Store.SetAccentColor(r.Context(), color); err != nil {
			writeStoreError(w, r, "store.update_accent_color", "", err)
			return
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}

func ExportConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := app.Store.Load(r.Context())
		if err != nil {
			writeStoreError(w, r, "store.export", "", err)
			return
		}

		content, err := store.Encode(cfg)
		if err != nil {
			httpx.LogInternalError(w, r, "store.export.encode", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="surveys.json"`)
		w.Write(content)
	}
}

type importRequest struct {
	Config             model.SurveysConfig      `json:"config"`
	Strategy           store.Strategy           `json:"strategy"`
	ConflictPreference store.ConflictPreference `json:"conflictPreference"`
}

func ImportConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid JSON body")
			return
		}
		if req.ConflictPreference == "" {
			req.ConflictPreference = store.PreferExisting
		}

		err = app.Store.Import(r.Context(), req.Config, req.Strategy, req.ConflictPreference)
		if err != nil {
			var validation *model.ValidationError
			switch {
			case errors.Is(err, store.ErrBadStrategy):
				httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "import.strategy", err.Error())
			case errors.As(err, &validation):
				// err carries the failing survey's index, keep it
				httpx.JSONErrors(w, r, http.StatusBadRequest, err.Error(), validation.Violations())
			default:
				writeStoreError(w, r, "store.import", "", err)
			}
			return
		}

		render.JSON(w, r, map[string]any{"success": true})
	}
}
