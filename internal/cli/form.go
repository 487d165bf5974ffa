package cli

import (
	"context"
	"fmt"
	"os"

	"pentacore/internal/form"
	"pentacore/internal/model"

	"gopkg.in/yaml.v3"
)

const optionCustomPrompt = "Custom prompt..."

// AskSubmission задает вопросы формы. Перспектива, место действия и персонажи
// спрашиваются только для историй.
func AskSubmission(ctx context.Context, p Prompter, defaults form.Submission) (form.Submission, error) {
	sub := defaults

	kind, err := p.Select(ctx, "Writing type:", []string{string(model.ContentKindStory), string(model.ContentKindPoem)}, defaults.ContentKind)
	if err != nil {
		return form.Submission{}, err
	}
	sub.ContentKind = kind

	themeOptions := append(toStrings(model.Themes), optionCustomPrompt)
	theme, err := p.Select(ctx, "Theme:", themeOptions, defaults.Theme)
	if err != nil {
		return form.Submission{}, err
	}
	if theme == optionCustomPrompt {
		custom, err := p.Input(ctx, "Your prompt:", "Free-form topic, used instead of a theme", defaults.CustomPrompt)
		if err != nil {
			return form.Submission{}, err
		}
		sub.CustomPrompt = custom
		sub.Theme = ""
	} else {
		sub.Theme = theme
		sub.CustomPrompt = ""
	}

	if sub.Tone, err = p.Select(ctx, "Tone:", toStrings(model.Tones), defaults.Tone); err != nil {
		return form.Submission{}, err
	}
	if sub.Length, err = p.Input(ctx, "Approximate length (words):", "Leave empty to let the model decide", defaults.Length); err != nil {
		return form.Submission{}, err
	}
	if sub.WritingStyle, err = p.Input(ctx, "Writing style:", "e.g. noir, haiku, in the style of a fairy tale", defaults.WritingStyle); err != nil {
		return form.Submission{}, err
	}

	if model.ContentKind(sub.ContentKind) != model.ContentKindStory {
		sub.PointOfView, sub.Setting, sub.Characters = "", "", ""
		return sub, nil
	}

	if sub.PointOfView, err = p.Select(ctx, "Point of view:", toStrings(model.PointsOfView), defaults.PointOfView); err != nil {
		return form.Submission{}, err
	}
	if sub.Setting, err = p.Input(ctx, "Setting:", "", defaults.Setting); err != nil {
		return form.Submission{}, err
	}
	if sub.Characters, err = p.Input(ctx, "Main characters:", "", defaults.Characters); err != nil {
		return form.Submission{}, err
	}
	return sub, nil
}

// LoadRequestFile читает форму из YAML файла. Незаданные поля берутся из form.Defaults.
func LoadRequestFile(path string) (form.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return form.Submission{}, fmt.Errorf("чтение файла запроса %s: %w", path, err)
	}

	sub := form.Defaults()
	// Явный пустой theme в файле означает "только свой промпт"
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return form.Submission{}, fmt.Errorf("разбор файла запроса %s: %w", path, err)
	}
	return sub, nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
