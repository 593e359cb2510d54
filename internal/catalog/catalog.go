// internal/catalog/catalog.go
//
// Category catalog for the Brainbox daily game.
//
// Responsibilities:
//   - Define Category (secret answer + ordered clue list) and Language.
//   - Load per-language catalogs from a remote JSON document or fall back
//     to embedded defaults.
//
// Catalog shape:
//   - One JSON object per language file; each key is a category name, each
//     value the ordered clue list for one day of play.
//   - Key order in the document IS the play order: line N of the file is
//     day N. Duplicated keys are intentional (a category can come back
//     weeks later) and must not collapse; see parse.go.
//
// Environment/config:
//   - catalog.base_url (CATALOG_BASE_URL): remote document root; files are
//     named categories_<lang>.json. Empty means embedded defaults only.
//
// Constraints:
//   • Clue order is significant (revealed progressively in that order).
//   • Categories are immutable once loaded.

package catalog

import (
	_ "embed"
	"fmt"
	"strings"
)

// Category is one day's puzzle: the secret answer plus its ordered clues.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// ClueCount is the canonical number of clues per category.
const ClueCount = 5

// Language identifies one of the supported catalog locales.
type Language string

const (
	English Language = "ENGLISH"
	French  Language = "FRENCH"
	Arabic  Language = "ARABIC"
)

// Languages lists every supported language in a stable order.
func Languages() []Language { return []Language{English, French, Arabic} }

// ParseLanguage accepts enum names ("ENGLISH") and short codes ("en"),
// case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "french", "fr":
		return French, nil
	case "arabic", "ar":
		return Arabic, nil
	}
	return "", fmt.Errorf("catalog: unknown language %q", s)
}

// Code returns the two-letter file code for the language ("en", "fr", "ar").
func (l Language) Code() string {
	switch l {
	case French:
		return "fr"
	case Arabic:
		return "ar"
	default:
		return "en"
	}
}

func (l Language) String() string { return string(l) }

// --- embedded small defaults (server runs with no remote source configured) ---

//go:embed default_small_en.json
var embeddedEN string

//go:embed default_small_fr.json
var embeddedFR string

//go:embed default_small_ar.json
var embeddedAR string

// Embedded returns the built-in fallback catalog for a language.
func Embedded(lang Language) ([]Category, error) {
	var raw string
	switch lang {
	case French:
		raw = embeddedFR
	case Arabic:
		raw = embeddedAR
	default:
		raw = embeddedEN
	}
	cats := Parse(raw)
	if len(cats) == 0 {
		return nil, fmt.Errorf("catalog: embedded %s catalog is empty", lang.Code())
	}
	return cats, nil
}
