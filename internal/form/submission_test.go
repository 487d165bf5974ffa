package form_test

import (
	"errors"
	"strings"
	"testing"

	"pentacore/internal/form"
	"pentacore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() form.Submission {
	return form.Submission{
		ContentKind: "Story",
		Theme:       "Adventure",
		Tone:        "Funny",
		Length:      "100",
		PointOfView: "First Person (I)",
		Setting:     "a floating city",
		Characters:  "Mira",
	}
}

func TestValidate_AcceptsValidSubmission(t *testing.T) {
	got, err := form.Validate(validSubmission())
	require.NoError(t, err)
	assert.Equal(t, validSubmission(), got)
}

func TestValidate_MissingPromptSource(t *testing.T) {
	s := validSubmission()
	s.Theme = ""
	s.CustomPrompt = "   "

	_, err := form.Validate(s)

	require.Error(t, err)
	assert.True(t, errors.Is(err, form.ErrMissingPrompt))
	assert.True(t, errors.Is(err, form.ErrInvalidSubmission))
}

func TestValidate_MissingPromptKeepsOtherFieldErrors(t *testing.T) {
	s := validSubmission()
	s.Theme = ""
	s.CustomPrompt = ""
	s.Tone = "Angry"

	_, err := form.Validate(s)

	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrMissingPrompt)
	assert.ErrorIs(t, err, form.ErrInvalidSubmission)

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.MissingPrompt())
	assert.Equal(t, map[string]string{"customPrompt": "prompt_source", "tone": "tone"}, verr.Fields)
}

func TestValidate_CustomPromptWithoutTheme(t *testing.T) {
	s := validSubmission()
	s.Theme = ""
	s.CustomPrompt = "a lighthouse that learns to sing"

	got, err := form.Validate(s)

	require.NoError(t, err)
	assert.Equal(t, "a lighthouse that learns to sing", got.ToRequest().EffectiveTheme())
}

func TestValidate_RejectsUnknownEnums(t *testing.T) {
	cases := map[string]func(*form.Submission){
		"writingType": func(s *form.Submission) { s.ContentKind = "Essay" },
		"tone":        func(s *form.Submission) { s.Tone = "Angry" },
		"theme":       func(s *form.Submission) { s.Theme = "Cooking" },
		"pointOfView": func(s *form.Submission) { s.PointOfView = "Fourth Person" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			s := validSubmission()
			mutate(&s)

			_, err := form.Validate(s)

			require.Error(t, err)
			assert.ErrorIs(t, err, form.ErrInvalidSubmission)
			assert.NotErrorIs(t, err, form.ErrMissingPrompt)

			var verr *form.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, field)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestValidate_RequiredTone(t *testing.T) {
	s := validSubmission()
	s.Tone = ""

	_, err := form.Validate(s)

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["tone"])
}

func TestValidate_TooLongFreeText(t *testing.T) {
	s := validSubmission()
	s.Setting = strings.Repeat("x", 501)

	_, err := form.Validate(s)

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "max", verr.Fields["setting"])
}

func TestValidate_SanitizesFreeText(t *testing.T) {
	s := validSubmission()
	s.CustomPrompt = "  <b>Dragons</b> & <script>alert(1)</script>knights  "
	s.Characters = "<i>Mira</i> <Tom>"
	s.WritingStyle = "\n noir \t"
	s.Tone = " Dark "

	got, err := form.Validate(s)

	require.NoError(t, err)
	assert.Equal(t, "Dragons & knights", got.CustomPrompt)
	assert.Equal(t, "Mira", got.Characters)
	assert.Equal(t, "noir", got.WritingStyle)
	assert.Equal(t, "Dark", got.Tone)
}

func TestDefaults(t *testing.T) {
	d := form.Defaults()

	assert.Equal(t, "Story", d.ContentKind)
	assert.Equal(t, "Adventure", d.Theme)
	assert.Equal(t, "Funny", d.Tone)
	assert.Equal(t, "Third Person Limited", d.PointOfView)

	_, err := form.Validate(d)
	assert.NoError(t, err)
}

func TestToRequest(t *testing.T) {
	s := validSubmission()
	s.WritingStyle = "noir"

	req := s.ToRequest()

	assert.Equal(t, model.GenerationRequest{
		ContentKind:       model.ContentKindStory,
		ThemeTag:          model.ThemeAdventure,
		Tone:              model.ToneFunny,
		ApproximateLength: "100",
		Style:             "noir",
		PointOfView:       model.PointOfViewFirstPerson,
		Setting:           "a floating city",
		Characters:        "Mira",
	}, req)
	assert.True(t, req.HasPromptSource())
}
