package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/surwhen/log"
)

// Will log an error, and send a JSON error response with status 500
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	JSONError(w, r, http.StatusInternalServerError, "Internal server error")
}

// Will log a debug message, and send a JSON error response with status 404
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	JSONError(w, r, http.StatusNotFound, "Not found")
}

// Will log an error code at the given level, and send
// a JSON error response with the given status and message
func LogStatus(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string) {
	log.Log(level, code+":", msg)
	JSONError(w, r, status, msg)
}

// JSONError sends `{"error": msg}` with the given status. Every error
// response of the API has this shape.
func JSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg})
}

// JSONErrors sends an error plus the individual violated rules, so the
// client can surface them one by one.
func JSONErrors(w http.ResponseWriter, r *http.Request, status int, msg string, violations []string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg, "errors": violations})
}
