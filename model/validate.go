package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ValidationError carries every rule a payload violated, so callers can
// surface them individually instead of one at a time.
type ValidationError struct {
	err *multierror.Error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

// Violations lists the violated rules as plain messages.
func (e *ValidationError) Violations() []string {
	msgs := make([]string, len(e.err.Errors))
	for i, err := range e.err.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// ValidateSurvey checks a full survey record. All checks run independently
// and accumulate: a survey missing both title and reasons reports both.
func ValidateSurvey(s Survey) error {
	var errs *multierror.Error
	if strings.TrimSpace(s.Title) == "" {
		errs = multierror.Append(errs, errors.New("title is required"))
	}
	if strings.TrimSpace(s.Description) == "" {
		errs = multierror.Append(errs, errors.New("description is required"))
	}
	if len(s.Reasons) == 0 {
		errs = multierror.Append(errs, errors.New("at least one reason is required"))
	}
	if s.TargetEmail != nil && !IsValidEmail(*s.TargetEmail) {
		errs = multierror.Append(errs, errors.New("targetEmail is not a valid email address"))
	}
	if errs != nil {
		return &ValidationError{errs}
	}
	return nil
}

// ValidatePatch checks only the fields the patch actually supplies;
// a cleared targetEmail is always fine.
func ValidatePatch(p SurveyPatch) error {
	var errs *multierror.Error
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = multierror.Append(errs, errors.New("title must not be blank"))
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		errs = multierror.Append(errs, errors.New("description must not be blank"))
	}
	if p.Reasons != nil && len(p.Reasons) == 0 {
		errs = multierror.Append(errs, errors.New("at least one reason is required"))
	}
	if p.TargetEmail.Set && p.TargetEmail.Value != nil && !IsValidEmail(*p.TargetEmail.Value) {
		errs = multierror.Append(errs, errors.New("targetEmail is not a valid email address"))
	}
	if errs != nil {
		return &ValidationError{errs}
	}
	return nil
}

// ValidateConfig is the structural gate for an uploaded document: the
// default email must be a valid address when non-empty, every survey must
// pass ValidateSurvey, and no two surveys may share a title, since the
// title is the survey's identity. Stops at the first invalid survey,
// reporting its index along with the violated rules.
func ValidateConfig(c SurveysConfig) error {
	if c.DefaultTargetEmail != "" && !IsValidEmail(c.DefaultTargetEmail) {
		return &ValidationError{multierror.Append(nil,
			errors.New("defaultTargetEmail is not a valid email address"))}
	}
	seen := make(map[string]bool, len(c.Surveys))
	for i, s := range c.Surveys {
		if err := ValidateSurvey(s); err != nil {
			return fmt.Errorf("survey %d: %w", i, err)
		}
		if seen[s.Title] {
			return fmt.Errorf("survey %d: %w", i, &ValidationError{multierror.Append(nil,
				errors.New("title duplicates an earlier survey"))})
		}
		seen[s.Title] = true
	}
	return nil
}
