package store

import (
	"context"
	"fmt"

	"github.com/mbolis/surwhen/model"
)

type Strategy string

const (
	// StrategyReplace discards the current document wholesale.
	StrategyReplace Strategy = "replace"
	// StrategyMerge reconciles the uploaded document against the live
	// one, record by record.
	StrategyMerge Strategy = "merge"
)

type ConflictPreference string

const (
	// PreferSource resolves a title collision in favor of the uploaded
	// survey.
	PreferSource ConflictPreference = "source"
	// PreferExisting keeps the live survey and discards the uploaded one.
	PreferExisting ConflictPreference = "existing"
)

var ErrBadStrategy = fmt.Errorf("strategy must be %q or %q", StrategyReplace, StrategyMerge)

// Import validates an uploaded document and applies it under the given
// strategy, persisting the result.
func (s *Store) Import(ctx context.Context, uploaded model.SurveysConfig, strategy Strategy, prefer ConflictPreference) error {
	if err := model.ValidateConfig(uploaded); err != nil {
		return err
	}

	switch strategy {
	case StrategyReplace:
		return s.Save(ctx, uploaded)
	case StrategyMerge:
		existing, err := s.Load(ctx)
		if err != nil {
			return err
		}
		return s.Save(ctx, Merge(existing, uploaded, prefer))
	default:
		return ErrBadStrategy
	}
}

// Merge reconciles uploaded against existing, keyed on each survey's
// derived hash. Existing surveys keep their order; uploaded surveys with a
// new identity are appended in upload order; a collision keeps the entry
// at its original position and resolves per the preference. Settings come
// from the upload when set, from the live document otherwise.
func Merge(existing, uploaded model.SurveysConfig, prefer ConflictPreference) model.SurveysConfig {
	position := make(map[string]int, len(existing.Surveys))
	for i, s := range existing.Surveys {
		position[s.Hash()] = i
	}

	merged := make([]model.Survey, len(existing.Surveys))
	copy(merged, existing.Surveys)

	for _, s := range uploaded.Surveys {
		idx, collision := position[s.Hash()]
		if !collision {
			// track the new identity too, so a repeated upload entry
			// collides instead of appending twice
			position[s.Hash()] = len(merged)
			merged = append(merged, s)
			continue
		}
		if prefer == PreferSource {
			merged[idx] = s
		}
	}

	result := model.SurveysConfig{
		DefaultTargetEmail: existing.DefaultTargetEmail,
		AccentColor:        existing.AccentColor,
		Surveys:            merged,
	}
	if uploaded.DefaultTargetEmail != "" {
		result.DefaultTargetEmail = uploaded.DefaultTargetEmail
	}
	if uploaded.AccentColor != "" {
		result.AccentColor = uploaded.AccentColor
	}
	return result
}
