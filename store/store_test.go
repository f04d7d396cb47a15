package store

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/surwhen/model"
	"github.com/mbolis/surwhen/storage"
)

func testStore(t *testing.T) (*Store, storage.Backend) {
	t.Helper()
	backend := storage.NewLocal(t.TempDir())
	return New(backend), backend
}

func seedSurveys(t *testing.T, s *Store, surveys ...model.Survey) {
	t.Helper()
	for _, survey := range surveys {
		require.NoError(t, s.AddSurvey(context.Background(), survey))
	}
}

func survey(title string) model.Survey {
	return model.Survey{
		Title:       title,
		Description: "Pick a reason",
		Reasons:     []string{"yes", "no"},
	}
}

func TestLoadBootstrapsSeed(t *testing.T) {
	ctx := context.Background()
	s, backend := testStore(t)

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DefaultTargetEmail)
	assert.Empty(t, cfg.Surveys)

	// the seed was persisted, not just returned
	exists, err := backend.Exists(ctx, Key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	target := "team@example.com"
	cfg := model.SurveysConfig{
		DefaultTargetEmail: "admin@example.com",
		AccentColor:        "#ff0000",
		Surveys: []model.Survey{
			{Title: "Team Lunch", Description: "d", Reasons: []string{"a"}, TargetEmail: &target},
		},
	}
	require.NoError(t, s.Save(ctx, cfg))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// save(load()) leaves the document content untouched
	require.NoError(t, s.Save(ctx, loaded))
	reloaded, err := s.Load(ctx)
	require.NoError(t, err)

	first, err := Encode(loaded)
	require.NoError(t, err)
	second, err := Encode(reloaded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLoadCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s, backend := testStore(t)

	require.NoError(t, backend.Write(ctx, Key, []byte("{not json")))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptConfig)
}

func TestAddSurvey(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	require.NoError(t, s.AddSurvey(ctx, survey("Team Lunch")))

	got, err := s.SurveyByHash(ctx, model.HashFromTitle("Team Lunch"))
	require.NoError(t, err)
	assert.Equal(t, "Team Lunch", got.Title)
}

func TestAddSurveyDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	seedSurveys(t, s, survey("Team Lunch"))

	err := s.AddSurvey(ctx, survey("Team Lunch"))
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// merely similar titles are fine
	assert.NoError(t, s.AddSurvey(ctx, survey("Team lunch")))
}

func TestAddSurveyInvalidLeavesDocumentUnchanged(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	seedSurveys(t, s, survey("Team Lunch"))

	err := s.AddSurvey(ctx, model.Survey{Title: "Broken"})
	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Surveys, 1)
}

func TestUpdateSurveyPartial(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	target := "team@example.com"
	original := survey("Team Lunch")
	original.TargetEmail = &target
	seedSurveys(t, s, original)

	desc := "changed"
	err := s.UpdateSurvey(ctx, original.Hash(), model.SurveyPatch{Description: &desc})
	require.NoError(t, err)

	got, err := s.SurveyByHash(ctx, original.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Team Lunch", got.Title)
	assert.Equal(t, "changed", got.Description)
	assert.Equal(t, []string{"yes", "no"}, got.Reasons)
	require.NotNil(t, got.TargetEmail)
	assert.Equal(t, "team@example.com", *got.TargetEmail)
}

func TestUpdateSurveyClearsTargetEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	target := "team@example.com"
	original := survey("Team Lunch")
	original.TargetEmail = &target
	seedSurveys(t, s, original)
	require.NoError(t, s.SetDefaultTargetEmail(ctx, "default@example.com"))

	// an explicit JSON null clears the override entirely
	var patch model.SurveyPatch
	require.NoError(t, json.Unmarshal([]byte(`{"targetEmail":null}`), &patch))
	require.NoError(t, s.UpdateSurvey(ctx, original.Hash(), patch))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	got, ok := cfg.SurveyByHash(original.Hash())
	require.True(t, ok)
	assert.Nil(t, got.TargetEmail)
	assert.Equal(t, "default@example.com", cfg.TargetEmailFor(got))
}

func TestUpdateSurveyRename(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	seedSurveys(t, s, survey("Team Lunch"), survey("Coffee Break"))

	// renaming onto another survey's title is an identity collision
	title := "Coffee Break"
	err := s.UpdateSurvey(ctx, model.HashFromTitle("Team Lunch"), model.SurveyPatch{Title: &title})
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// a rename changes the survey's hash: old links break
	title = "Team Dinner"
	require.NoError(t, s.UpdateSurvey(ctx, model.HashFromTitle("Team Lunch"), model.SurveyPatch{Title: &title}))

	_, err = s.SurveyByHash(ctx, model.HashFromTitle("Team Lunch"))
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := s.SurveyByHash(ctx, model.HashFromTitle("Team Dinner"))
	require.NoError(t, err)
	assert.Equal(t, "Team Dinner", got.Title)
}

func TestUpdateSurveyNotFound(t *testing.T) {
	s, _ := testStore(t)

	desc := "x"
	err := s.UpdateSurvey(context.Background(), "0000000000000000", model.SurveyPatch{Description: &desc})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSurvey(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	seedSurveys(t, s, survey("Team Lunch"), survey("Coffee Break"))

	require.NoError(t, s.DeleteSurvey(ctx, model.HashFromTitle("Team Lunch")))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.Surveys, 1)
	assert.Equal(t, "Coffee Break", cfg.Surveys[0].Title)

	err = s.DeleteSurvey(ctx, model.HashFromTitle("Team Lunch"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDefaultTargetEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	assert.ErrorIs(t, s.SetDefaultTargetEmail(ctx, "not-an-email"), ErrInvalidEmail)

	require.NoError(t, s.SetDefaultTargetEmail(ctx, "admin@example.com"))
	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", cfg.DefaultTargetEmail)
}

func TestSetAccentColor(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	require.NoError(t, s.SetAccentColor(ctx, "#ff0000"))
	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", cfg.AccentColor)

	// empty clears the field, reverting to the system default
	require.NoError(t, s.SetAccentColor(ctx, ""))
	cfg, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.AccentColor)
}

func TestEncodeStableShape(t *testing.T) {
	content, err := Encode(model.SurveysConfig{DefaultTargetEmail: "a@b.co"})
	require.NoError(t, err)

	// pretty-printed, surveys always present even when empty,
	// accentColor omitted when unset
	assert.Contains(t, string(content), "\n  \"defaultTargetEmail\": \"a@b.co\"")
	assert.Contains(t, string(content), "\"surveys\": []")
	assert.NotContains(t, string(content), "accentColor")
}
