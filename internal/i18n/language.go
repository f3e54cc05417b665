package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// ClientLanguage is a language the game client can run in.
type ClientLanguage int

// The zero value is English.
const (
	English ClientLanguage = iota
	Japanese
	German
	French
)

var languageTags = map[ClientLanguage]language.Tag{
	Japanese: language.Japanese,
	English:  language.English,
	German:   language.German,
	French:   language.French,
}

var languageNames = map[string]ClientLanguage{
	"japanese": Japanese,
	"jp":       Japanese,
	"english":  English,
	"german":   German,
	"deutsch":  German,
	"french":   French,
	"francais": French,
	"français": French,
}

// String returns the BCP 47 tag of the language.
func (l ClientLanguage) String() string {
	if tag, ok := languageTags[l]; ok {
		return tag.String()
	}
	return "und"
}

// Tag returns the language tag, or language.Und for unknown values.
func (l ClientLanguage) Tag() language.Tag {
	if tag, ok := languageTags[l]; ok {
		return tag
	}
	return language.Und
}

// ParseLanguage detects the client language from a tag ("de-DE", "ja") or an
// English name ("german"). Unsupported or empty input returns English and
// false.
func ParseLanguage(s string) (ClientLanguage, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return English, false
	}
	if lang, ok := languageNames[s]; ok {
		return lang, true
	}

	// Locale environment values look like "de_DE.UTF-8".
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")

	tag, err := language.Parse(s)
	if err != nil {
		return English, false
	}
	base, _ := tag.Base()
	for _, lang := range []ClientLanguage{English, Japanese, German, French} {
		supportedBase, _ := lang.Tag().Base()
		if base == supportedBase {
			return lang, true
		}
	}
	return English, false
}
