package model

import "strings"

// ContentKind определяет тип генерируемого произведения.
type ContentKind string

const (
	ContentKindStory ContentKind = "Story"
	ContentKindPoem  ContentKind = "Poem"
)

// Valid проверяет, что тип входит в допустимый набор.
func (k ContentKind) Valid() bool {
	return k == ContentKindStory || k == ContentKindPoem
}

// Lower возвращает тип в нижнем регистре для подстановки в промпт.
func (k ContentKind) Lower() string {
	return strings.ToLower(string(k))
}

// Tone - настроение произведения.
type Tone string

const (
	ToneFunny      Tone = "Funny"
	ToneSerious    Tone = "Serious"
	ToneInspiring  Tone = "Inspiring"
	ToneMysterious Tone = "Mysterious"
	ToneWhimsical  Tone = "Whimsical"
	ToneDramatic   Tone = "Dramatic"
	ToneDark       Tone = "Dark"
	ToneRomantic   Tone = "Romantic"
	ToneSatirical  Tone = "Satirical"
	ToneHopeful    Tone = "Hopeful"
	ToneTragic     Tone = "Tragic"
)

// Tones - все настроения в порядке отображения в форме.
var Tones = []Tone{
	ToneFunny,
	ToneSerious,
	ToneInspiring,
	ToneMysterious,
	ToneWhimsical,
	ToneDramatic,
	ToneDark,
	ToneRomantic,
	ToneSatirical,
	ToneHopeful,
	ToneTragic,
}

// Valid проверяет, что настроение входит в допустимый набор.
func (t Tone) Valid() bool {
	for _, known := range Tones {
		if t == known {
			return true
		}
	}
	return false
}

// Theme - тема из фиксированного списка.
type Theme string

const (
	ThemeAdventure   Theme = "Adventure"
	ThemeFriendship  Theme = "Friendship"
	ThemeNature      Theme = "Nature"
	ThemeSciFi       Theme = "Science Fiction"
	ThemeFantasy     Theme = "Fantasy"
	ThemeMystery     Theme = "Mystery"
	ThemeLove        Theme = "Love"
	ThemeLoss        Theme = "Loss"
	ThemeRevenge     Theme = "Revenge"
	ThemeComingOfAge Theme = "Coming of Age"
	ThemeBetrayal    Theme = "Betrayal"
	ThemeSacrifice   Theme = "Sacrifice"
)

// Themes - все темы в порядке отображения в форме.
var Themes = []Theme{
	ThemeAdventure,
	ThemeFriendship,
	ThemeNature,
	ThemeSciFi,
	ThemeFantasy,
	ThemeMystery,
	ThemeLove,
	ThemeLoss,
	ThemeRevenge,
	ThemeComingOfAge,
	ThemeBetrayal,
	ThemeSacrifice,
}

// Valid проверяет, что тема входит в допустимый набор.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// PointOfView - повествовательная перспектива (только для историй).
type PointOfView string

const (
	PointOfViewFirstPerson           PointOfView = "First Person (I)"
	PointOfViewSecondPerson          PointOfView = "Second Person (You)"
	PointOfViewThirdPersonLimited    PointOfView = "Third Person Limited"
	PointOfViewThirdPersonOmniscient PointOfView = "Third Person Omniscient"
)

// PointsOfView - все перспективы в порядке отображения в форме.
var PointsOfView = []PointOfView{
	PointOfViewFirstPerson,
	PointOfViewSecondPerson,
	PointOfViewThirdPersonLimited,
	PointOfViewThirdPersonOmniscient,
}

// Valid проверяет, что перспектива входит в допустимый набор.
func (p PointOfView) Valid() bool {
	for _, known := range PointsOfView {
		if p == known {
			return true
		}
	}
	return false
}

// GenerationRequest - параметры одной генерации, собранные из формы.
// Создается на каждую отправку формы и нигде не хранится.
type GenerationRequest struct {
	ContentKind       ContentKind
	CustomText        string // Свободный промпт пользователя, имеет приоритет над ThemeTag
	ThemeTag          Theme
	Tone              Tone
	ApproximateLength string
	Style             string
	PointOfView       PointOfView // Только для Story
	Setting           string      // Только для Story
	Characters        string      // Только для Story
}

// EffectiveTheme возвращает CustomText, если он задан, иначе ThemeTag.
func (r GenerationRequest) EffectiveTheme() string {
	if r.CustomText != "" {
		return r.CustomText
	}
	return string(r.ThemeTag)
}

// HasPromptSource сообщает, задан ли хотя бы один источник темы.
func (r GenerationRequest) HasPromptSource() bool {
	return r.CustomText != "" || r.ThemeTag != ""
}

// GenerationResult - результат успешной генерации.
// После создания пайплайном не меняется, кроме флага Saved.
type GenerationResult struct {
	ID               string      `json:"id"`
	ContentKind      ContentKind `json:"type"`
	EffectiveTheme   string      `json:"theme"`
	Tone             Tone        `json:"tone"`
	Body             string      `json:"text"`
	ElapsedSeconds   float64     `json:"generationTime"`
	IllustrationData string      `json:"imageUrl,omitempty"` // data:image/png;base64,... или пусто
	Saved            bool        `json:"isSaved"`
}

// HasIllustration сообщает, удалось ли получить иллюстрацию.
func (r GenerationResult) HasIllustration() bool {
	return r.IllustrationData != ""
}
