package prompt

import (
	"fmt"
	"strings"

	"pentacore/internal/model"
)

// BuildTextPrompt собирает инструкцию для текстовой модели.
// Порядок строк фиксирован: тема, настроение, стиль, длина и, только для Story,
// перспектива, место действия, персонажи. Пустые поля пропускаются.
func BuildTextPrompt(req model.GenerationRequest) string {
	kind := req.ContentKind.Lower()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Act as an expert creative writer. Generate a creative and engaging %s based on the following parameters:\n", kind))
	sb.WriteString(fmt.Sprintf("- **Topic/Theme:** %s\n", req.EffectiveTheme()))
	sb.WriteString(fmt.Sprintf("- **Tone/Mood:** %s\n", req.Tone))

	if req.Style != "" {
		sb.WriteString(fmt.Sprintf("- **Writing Style:** %s\n", req.Style))
	}
	if req.ApproximateLength != "" {
		sb.WriteString(fmt.Sprintf("- **Desired Length:** Approximately %s words.\n", req.ApproximateLength))
	}

	if req.ContentKind == model.ContentKindStory {
		if req.PointOfView != "" {
			sb.WriteString(fmt.Sprintf("- **Point of View:** %s\n", req.PointOfView))
		}
		if req.Setting != "" {
			sb.WriteString(fmt.Sprintf("- **Setting:** %s\n", req.Setting))
		}
		if req.Characters != "" {
			sb.WriteString(fmt.Sprintf("- **Main Characters:** %s\n", req.Characters))
		}
	}

	sb.WriteString(fmt.Sprintf("\nPlease generate the %s. Ensure the output is well-written, appropriate, and adheres strictly to the requested parameters. Only output the generated content, without any additional commentary or introduction.", kind))

	return sb.String()
}

// BuildImagePrompt собирает промпт для иллюстрации.
// Шаблон не настраивается: зависит только от типа, темы и настроения.
func BuildImagePrompt(req model.GenerationRequest) string {
	return fmt.Sprintf(
		"A beautiful and evocative digital painting illustrating a %s about \"%s\" with a %s mood. Style: artistic, imaginative, high-quality.",
		req.ContentKind.Lower(), req.EffectiveTheme(), req.Tone,
	)
}
