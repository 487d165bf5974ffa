package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pentacore/internal/model"

	"go.uber.org/zap"
)

// ErrUnknownFormat - неизвестный формат экспорта.
var ErrUnknownFormat = errors.New("unknown export format")

// Format - формат экспорта результата.
type Format string

const (
	FormatPlainText Format = "plaintext"
	FormatDocument  Format = "document"
	FormatClipboard Format = "clipboard"
)

// Formats - все поддерживаемые форматы.
var Formats = []Format{FormatPlainText, FormatDocument, FormatClipboard}

const (
	ContentTypePlainText = "text/plain; charset=utf-8"
	ContentTypePDF       = "application/pdf"

	fileNamePrefix = "creative-writing-"
)

// ParseFormat разбирает название формата. Допускаются псевдонимы txt и pdf.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FormatPlainText), "txt", "text":
		return FormatPlainText, nil
	case string(FormatDocument), "pdf":
		return FormatDocument, nil
	case string(FormatClipboard):
		return FormatClipboard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Sink - платформенная часть экспорта: запись файла и буфер обмена.
type Sink interface {
	WriteFile(name, contentType string, data []byte) error
	SetClipboard(text string) error
}

// TextBody возвращает текстовое представление результата для txt и буфера обмена.
func TextBody(r model.GenerationResult) string {
	return fmt.Sprintf("Type: %s\nTheme: %s\nTone: %s\n\n%s", r.ContentKind, r.EffectiveTheme, r.Tone, r.Body)
}

// Exporter рендерит результат в выбранном формате и передает его в Sink.
type Exporter struct {
	sink    Sink
	logger  *zap.Logger
	now     func() time.Time
	pdfOpts PDFOptions
}

// NewExporter создает экспортер поверх sink.
func NewExporter(sink Sink, logger *zap.Logger) *Exporter {
	return &Exporter{
		sink:   sink,
		logger: logger.Named("exporter"),
		now:    time.Now,
	}
}

// WithPDFOptions задает настройки рендера PDF.
func (e *Exporter) WithPDFOptions(opts PDFOptions) *Exporter {
	e.pdfOpts = opts
	return e
}

// Export выполняет экспорт и возвращает имя файла (пусто для буфера обмена).
func (e *Exporter) Export(r model.GenerationResult, format Format) (string, error) {
	log := e.logger.With(zap.String("result_id", r.ID), zap.String("format", string(format)))

	switch format {
	case FormatClipboard:
		if err := e.sink.SetClipboard(TextBody(r)); err != nil {
			log.Error("Не удалось записать в буфер обмена", zap.Error(err))
			return "", fmt.Errorf("запись в буфер обмена: %w", err)
		}
		log.Info("Результат скопирован в буфер обмена")
		return "", nil

	case FormatPlainText:
		name := e.fileName("txt")
		if err := e.sink.WriteFile(name, ContentTypePlainText, []byte(TextBody(r))); err != nil {
			log.Error("Не удалось записать текстовый файл", zap.Error(err))
			return "", fmt.Errorf("запись файла %s: %w", name, err)
		}
		log.Info("Результат экспортирован", zap.String("file", name))
		return name, nil

	case FormatDocument:
		data, err := RenderPDF(r, e.pdfOpts, log)
		if err != nil {
			log.Error("Не удалось собрать PDF", zap.Error(err))
			return "", err
		}
		name := e.fileName("pdf")
		if err := e.sink.WriteFile(name, ContentTypePDF, data); err != nil {
			log.Error("Не удалось записать PDF", zap.Error(err))
			return "", fmt.Errorf("запись файла %s: %w", name, err)
		}
		log.Info("Результат экспортирован", zap.String("file", name), zap.Int("bytes", len(data)))
		return name, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (e *Exporter) fileName(ext string) string {
	return fmt.Sprintf("%s%d.%s", fileNamePrefix, e.now().UnixMilli(), ext)
}
