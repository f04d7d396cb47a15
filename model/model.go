package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	json "github.com/goccy/go-json"
)

const DefaultAccentColor = "#2563eb"

type Survey struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Reasons     []string `json:"reasons"`
	// TargetEmail overrides the document default recipient for this
	// survey. nil means "use the default", and is distinct from "".
	TargetEmail *string `json:"targetEmail,omitempty"`
}

// Hash is the externally shared identifier of a survey: the first 16 hex
// characters of SHA-256 over the title. It is recomputed on demand, never
// stored, so renaming a survey changes its identity and breaks any link
// distributed under the old title.
func (s Survey) Hash() string {
	return HashFromTitle(s.Title)
}

func HashFromTitle(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])[:16]
}

// SurveysConfig is the whole persisted document. There is exactly one;
// it is read and written in full on every operation.
type SurveysConfig struct {
	DefaultTargetEmail string   `json:"defaultTargetEmail"`
	AccentColor        string   `json:"accentColor,omitempty"`
	Surveys            []Survey `json:"surveys"`
}

// SurveyByHash scans the survey list recomputing each hash. Linear, but
// the document holds tens of surveys at most.
func (c SurveysConfig) SurveyByHash(hash string) (Survey, bool) {
	for _, s := range c.Surveys {
		if s.Hash() == hash {
			return s, true
		}
	}
	return Survey{}, false
}

func (c SurveysConfig) TargetEmailFor(s Survey) string {
	if s.TargetEmail != nil {
		return *s.TargetEmail
	}
	return c.DefaultTargetEmail
}

// SurveyPatch is a partial update to a survey. nil pointer fields were not
// supplied and leave the current value untouched. TargetEmail is tri-state:
// absent, set to a value, or an explicit JSON null that clears the field.
type SurveyPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Reasons     []string       `json:"reasons"`
	TargetEmail OptionalString `json:"targetEmail"`
}

func (p SurveyPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Reasons == nil && !p.TargetEmail.Set
}

// ApplyTo merges the patch into a survey.
func (p SurveyPatch) ApplyTo(s Survey) Survey {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Reasons != nil {
		s.Reasons = p.Reasons
	}
	if p.TargetEmail.Set {
		s.TargetEmail = p.TargetEmail.Value
	}
	return s
}

// OptionalString distinguishes a JSON field that was absent (Set=false)
// from one that was present as null (Set=true, Value=nil).
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

var (
	reEmail    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reHexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func IsValidEmail(email string) bool {
	return reEmail.MatchString(email)
}

// IsValidHexColor reports whether color is a 6-hex-digit color code.
// Cosmetic: handlers check it, the repository stores colors verbatim.
func IsValidHexColor(color string) bool {
	return reHexColor.MatchString(color)
}
