package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pentacore/internal/model"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Размеры в миллиметрах.
const (
	marginSide          = 15.0
	marginTop           = 20.0
	illustrationHeight  = 80.0
	illustrationGap     = 12.0
	missingImageGap     = 10.0
	subtitleGap         = 8.0
	titleLineHeight     = 10.0
	titleGap            = 10.0
	bodyLineHeight      = 6.0
	illustrationImgName = "illustration"
)

const (
	coreFontFamily = "Helvetica"
	utf8FontFamily = "PentaUTF8"
)

var errBadDataURI = errors.New("illustration is not a base64 data URI")

// PDFOptions - настройки рендера PDF.
type PDFOptions struct {
	// FontPath - путь к TTF шрифту с поддержкой Unicode. Без него используются
	// встроенные шрифты в cp1252: кириллица, CJK и эмодзи в них не отображаются.
	FontPath string
}

// RenderPDF собирает документ: иллюстрация, подзаголовок, заголовок (тема) и текст.
// Если картинку не удалось вставить, на ее месте остается небольшой отступ.
func RenderPDF(r model.GenerationResult, opts PDFOptions, logger *zap.Logger) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(true, marginTop)
	pdf.SetTitle(r.EffectiveTheme, true)
	pdf.SetCreator("PentaCore", true)
	pdf.AddPage()

	family, tr := selectFont(pdf, opts.FontPath, logger)
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*marginSide
	y := marginTop

	if r.HasIllustration() {
		if err := placeIllustration(pdf, r.IllustrationData, y, contentWidth); err != nil {
			logger.Warn("Иллюстрация не добавлена в PDF", zap.Error(err))
			y += missingImageGap
		} else {
			y += illustrationHeight + illustrationGap
		}
	}

	pdf.SetFont(family, "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginSide, y)
	pdf.CellFormat(contentWidth, bodyLineHeight, tr(fmt.Sprintf("A %s %s", r.Tone, r.ContentKind)), "", 1, "L", false, 0, "")
	y += subtitleGap

	pdf.SetFont(family, "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginSide, y)
	pdf.MultiCell(contentWidth, titleLineHeight, tr(r.EffectiveTheme), "", "L", false)
	pdf.SetY(pdf.GetY() + titleGap)

	pdf.SetFont(family, "", 12)
	pdf.SetTextColor(40, 40, 40)
	pdf.MultiCell(contentWidth, bodyLineHeight, tr(r.Body), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// selectFont подключает UTF-8 шрифт, если он задан и читается. Иначе возвращает
// встроенный Helvetica и перевод текста в cp1252.
func selectFont(pdf *fpdf.Fpdf, fontPath string, logger *zap.Logger) (string, func(string) string) {
	if fontPath != "" {
		pdf.AddUTF8Font(utf8FontFamily, "", fontPath)
		pdf.AddUTF8Font(utf8FontFamily, "B", fontPath)
		if pdf.Ok() {
			return utf8FontFamily, func(s string) string { return s }
		}
		logger.Warn("Не удалось загрузить UTF-8 шрифт, используем встроенный",
			zap.String("font_path", fontPath), zap.Error(pdf.Error()))
		pdf.ClearError()
	}
	return coreFontFamily, pdf.UnicodeTranslatorFromDescriptor("")
}

// placeIllustration вставляет картинку во всю ширину контента. При ошибке
// состояние документа сбрасывается, чтобы продолжить без картинки.
func placeIllustration(pdf *fpdf.Fpdf, dataURI string, y, width float64) error {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return err
	}

	imageType, err := detectImageType(data)
	if err != nil {
		return err
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader(illustrationImgName, opts, bytes.NewReader(data))
	if !pdf.Ok() || info == nil {
		err := pdf.Error()
		pdf.ClearError()
		if err == nil {
			err = errors.New("image registration failed")
		}
		return err
	}

	pdf.ImageOptions(illustrationImgName, marginSide, y, width, illustrationHeight, false, opts, 0, "")
	if !pdf.Ok() {
		err := pdf.Error()
		pdf.ClearError()
		return err
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(uri, "data:") {
		return nil, errBadDataURI
	}
	idx := strings.Index(uri, marker)
	if idx < 0 {
		return nil, errBadDataURI
	}
	data, err := base64.StdEncoding.DecodeString(uri[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDataURI, err)
	}
	return data, nil
}

// detectImageType определяет тип по содержимому: префикс data URI всегда image/png,
// но модель может вернуть и JPEG.
func detectImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", errors.New("unsupported illustration format")
	}
}
