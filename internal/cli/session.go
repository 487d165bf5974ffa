package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pentacore/internal/export"
	"pentacore/internal/form"
	"pentacore/internal/handler"
	"pentacore/internal/model"
	"pentacore/internal/repository"
	"pentacore/internal/service"

	"go.uber.org/zap"
)

const (
	actionSave      = "Save"
	actionTXT       = "Export as .txt"
	actionPDF       = "Export as .pdf"
	actionClipboard = "Copy to clipboard"
	actionAnother   = "Generate another"
	actionQuit      = "Quit"
)

// Session - интерактивный цикл терминального клиента: форма, генерация, действия над результатом.
type Session struct {
	Generator handler.Generator
	Results   repository.ResultRepository
	Exporter  *export.Exporter
	Prompter  Prompter
	Out       io.Writer
	Logger    *zap.Logger
}

// Run выполняет генерацию для первой формы и затем, пока пользователь не выйдет,
// спрашивает новые формы. Если first == nil, форма спрашивается сразу.
func (s *Session) Run(ctx context.Context, first *form.Submission) error {
	defaults := form.Defaults()
	next := first

	for {
		var sub form.Submission
		if next != nil {
			sub = *next
			next = nil
		} else {
			asked, err := AskSubmission(ctx, s.Prompter, defaults)
			if err != nil {
				return err
			}
			sub = asked
		}

		again, err := s.generateOnce(ctx, sub)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		defaults = sub
	}
}

// generateOnce возвращает true, если пользователь хочет сгенерировать еще.
func (s *Session) generateOnce(ctx context.Context, sub form.Submission) (bool, error) {
	sub, err := form.Validate(sub)
	if err != nil {
		s.Logger.Debug("Форма отклонена", zap.Error(err))
		fmt.Fprintf(s.Out, "The form is not valid: %v\n", err)
		return true, nil
	}

	fmt.Fprintln(s.Out, "Generating, this may take a moment...")
	result, err := s.Generator.Generate(ctx, sub.ToRequest())
	switch {
	case errors.Is(err, service.ErrConfiguration):
		return false, fmt.Errorf("API key is missing, set AI_API_KEY: %w", err)
	case errors.Is(err, service.ErrGenerationFailed):
		fmt.Fprintln(s.Out, "Failed to generate content. Please adjust your prompt and try again.")
		return true, nil
	case err != nil:
		return false, err
	}

	if err := s.Results.Add(ctx, result); err != nil {
		return false, err
	}
	s.print(result)

	for {
		current, err := s.Results.Get(ctx, result.ID)
		if err != nil {
			return false, err
		}

		actions := []string{actionTXT, actionPDF, actionClipboard, actionAnother, actionQuit}
		if !current.Saved {
			actions = append([]string{actionSave}, actions...)
		}
		action, err := s.Prompter.Select(ctx, "What next?", actions, "")
		if err != nil {
			return false, err
		}

		switch action {
		case actionSave:
			if _, err := s.Results.MarkSaved(ctx, result.ID); err != nil {
				return false, err
			}
			saved, _ := s.Results.ListSaved(ctx)
			fmt.Fprintf(s.Out, "Saved (%d saved in this session).\n", len(saved))
		case actionTXT, actionPDF, actionClipboard:
			s.export(current, action)
		case actionAnother:
			return true, nil
		default:
			return false, nil
		}
	}
}

func (s *Session) export(r model.GenerationResult, action string) {
	format := map[string]export.Format{
		actionTXT:       export.FormatPlainText,
		actionPDF:       export.FormatDocument,
		actionClipboard: export.FormatClipboard,
	}[action]

	name, err := s.Exporter.Export(r, format)
	if err != nil {
		s.Logger.Warn("Экспорт не удался", zap.String("action", action), zap.Error(err))
		fmt.Fprintf(s.Out, "Export failed: %v\n", err)
		return
	}
	if name == "" {
		fmt.Fprintln(s.Out, "Copied to clipboard!")
		return
	}
	fmt.Fprintf(s.Out, "Written %s\n", name)
}

func (s *Session) print(r model.GenerationResult) {
	line := strings.Repeat("-", 60)
	fmt.Fprintln(s.Out, line)
	fmt.Fprintf(s.Out, "A %s %s: %s\n", r.Tone, r.ContentKind, r.EffectiveTheme)
	fmt.Fprintln(s.Out, line)
	fmt.Fprintln(s.Out, r.Body)
	fmt.Fprintln(s.Out, line)
	illustration := "no illustration"
	if r.HasIllustration() {
		illustration = "illustration attached (export as .pdf to view)"
	}
	fmt.Fprintf(s.Out, "Generated in %.2fs, %s\n", r.ElapsedSeconds, illustration)
}
