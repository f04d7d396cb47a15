// Package store owns the surveys document: a single JSON aggregate holding
// every survey plus global settings. Each mutation is a full
// load-modify-save cycle with no locking; concurrent writers race and the
// last write wins, which is acceptable for low-frequency admin edits.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/mbolis/surwhen/model"
	"github.com/mbolis/surwhen/storage"
)

// Key is the storage entry holding the document.
const Key = "surveys.json"

//go:embed seed/surveys.json
var seed []byte

var (
	ErrNotFound       = errors.New("survey not found")
	ErrDuplicateTitle = errors.New("a survey with this title already exists")
	ErrInvalidEmail   = errors.New("invalid email format")
	// ErrCorruptConfig means the stored bytes are not a well-shaped
	// document. Never repaired automatically: refuse to serve rather
	// than silently reset data.
	ErrCorruptConfig = errors.New("stored surveys config is corrupt")
)

type Store struct {
	backend storage.Backend
}

func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// ensureSeed bootstraps the storage key from the bundled seed document the
// first time any operation touches an empty backend.
func (s *Store) ensureSeed(ctx context.Context) error {
	exists, err := s.backend.Exists(ctx, Key)
	if err != nil {
		return fmt.Errorf("store.seed.exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.backend.Write(ctx, Key, seed); err != nil {
		return fmt.Errorf("store.seed.write: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (model.SurveysConfig, error) {
	if err := s.ensureSeed(ctx); err != nil {
		return model.SurveysConfig{}, err
	}

	content, err := s.backend.Read(ctx, Key)
	if err != nil {
		return model.SurveysConfig{}, fmt.Errorf("store.load: %w", err)
	}

	var cfg model.SurveysConfig
	if err := json.Unmarshal(content, &cfg); err != nil {
		return model.SurveysConfig{}, fmt.Errorf("%w: %s", ErrCorruptConfig, err)
	}
	return cfg, nil
}

func (s *Store) Save(ctx context.Context, cfg model.SurveysConfig) error {
	if err := s.ensureSeed(ctx); err != nil {
		return err
	}

	content, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("store.save.encode: %w", err)
	}
	if err := s.backend.Write(ctx, Key, content); err != nil {
		return fmt.Errorf("store.save: %w", err)
	}
	return nil
}

// Encode renders the document the way it is persisted and exported:
// pretty-printed, fields in declaration order.
func Encode(cfg model.SurveysConfig) ([]byte, error) {
	if cfg.Surveys == nil {
		cfg.Surveys = []model.Survey{}
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func (s *Store) AddSurvey(ctx context.Context, survey model.Survey) error {
	if err := model.ValidateSurvey(survey); err != nil {
		return err
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	for _, existing := range cfg.Surveys {
		if existing.Title == survey.Title {
			return ErrDuplicateTitle
		}
	}

	cfg.Surveys = append(cfg.Surveys, survey)
	return s.Save(ctx, cfg)
}

func (s *Store) UpdateSurvey(ctx context.Context, hash string, patch model.SurveyPatch) error {
	if err := model.ValidatePatch(patch); err != nil {
		return err
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexByHash(cfg.Surveys, hash)
	if idx < 0 {
		return ErrNotFound
	}

	// a rename must not collide with any other survey's identity
	if patch.Title != nil && *patch.Title != cfg.Surveys[idx].Title {
		for i, other := range cfg.Surveys {
			if i != idx && other.Title == *patch.Title {
				return ErrDuplicateTitle
			}
		}
	}

	cfg.Surveys[idx] = patch.ApplyTo(cfg.Surveys[idx])
	return s.Save(ctx, cfg)
}

func (s *Store) DeleteSurvey(ctx context.Context, hash string) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexByHash(cfg.Surveys, hash)
	if idx < 0 {
		return ErrNotFound
	}

	cfg.Surveys = append(cfg.Surveys[:idx], cfg.Surveys[idx+1:]...)
	return s.Save(ctx, cfg)
}

func (s *Store) SurveyByHash(ctx context.Context, hash string) (model.Survey, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return model.Survey{}, err
	}

	survey, ok := cfg.SurveyByHash(hash)
	if !ok {
		return model.Survey{}, ErrNotFound
	}
	return survey, nil
}

func (s *Store) SetDefaultTargetEmail(ctx context.Context, email string) error {
	if !model.IsValidEmail(email) {
		return ErrInvalidEmail
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	cfg.DefaultTargetEmail = email
	return s.Save(ctx, cfg)
}

// SetAccentColor stores the color verbatim; an empty string clears the
// field, reverting to the system default. Format checks are the caller's
// concern, the value is cosmetic.
func (s *Store) SetAccentColor(ctx context.Context, color string) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	cfg.AccentColor = color
	return s.Save(ctx, cfg)
}

func indexByHash(surveys []model.Survey, hash string) int {
	for i, s := range surveys {
		if s.Hash() == hash {
			return i
		}
	}
	return -1
}
