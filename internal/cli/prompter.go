package cli

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted - пользователь прервал ввод (Ctrl+C).
var ErrAborted = errors.New("input aborted")

// Prompter - вопросы в терминале. Отделен от survey, чтобы форму можно было тестировать.
type Prompter interface {
	Select(ctx context.Context, message string, options []string, def string) (string, error)
	Input(ctx context.Context, message, help, def string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

type surveyPrompter struct{}

// NewSurveyPrompter возвращает Prompter поверх survey.
func NewSurveyPrompter() Prompter {
	return &surveyPrompter{}
}

func (p *surveyPrompter) Select(ctx context.Context, message string, options []string, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 12,
	}
	if def != "" {
		prompt.Default = def
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (p *surveyPrompter) Input(ctx context.Context, message, help, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
		Default: def,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (p *surveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
