// Package i18n translates user-facing strings and picks the Eorzea Database
// region that matches the client language.
//
// Keys are the English text itself, so English needs no table and any
// missing key translates to itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFS embed.FS

const databaseURLFormat = "https://%s.finalfantasyxiv.com/lodestone/playguide/db/item/"

var regions = map[ClientLanguage]string{
	Japanese: "jp",
	English:  "na",
	German:   "de",
	French:   "fr",
}

// Translator maps English UI strings to the active language.
// A nil Translator translates every key to itself.
type Translator struct {
	lang    ClientLanguage
	strings map[string]string
}

// New loads the bundled string table for lang.
func New(lang ClientLanguage) (*Translator, error) {
	if _, ok := languageTags[lang]; !ok {
		lang = English
	}

	raw, err := localeFS.ReadFile("locales/" + lang.String() + ".json")
	if err != nil {
		return nil, fmt.Errorf("read locale %s: %w", lang, err)
	}

	var table map[string]string
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", lang, err)
	}

	return &Translator{lang: lang, strings: table}, nil
}

// FromMap builds a Translator from an explicit table.
func FromMap(lang ClientLanguage, table map[string]string) *Translator {
	return &Translator{lang: lang, strings: table}
}

// Translate returns the localized text for key, or key when there is none.
func (t *Translator) Translate(key string) string {
	if t == nil {
		return key
	}
	if v, ok := t.strings[key]; ok && v != "" {
		return v
	}
	return key
}

// Language returns the language the translator was built for.
func (t *Translator) Language() ClientLanguage {
	if t == nil {
		return English
	}
	return t.lang
}

// Region returns the Lodestone host segment for the translator's language.
func (t *Translator) Region() string {
	return Region(t.Language())
}

// DatabaseBaseURL returns the Eorzea Database item URL prefix for the
// translator's language.
func (t *Translator) DatabaseBaseURL() string {
	return DatabaseBaseURL(t.Language())
}

// Region returns the Lodestone host segment for lang; unsupported values
// use the North American site.
func Region(lang ClientLanguage) string {
	if r, ok := regions[lang]; ok {
		return r
	}
	return regions[English]
}

// DatabaseBaseURL returns the Eorzea Database item URL prefix for lang.
func DatabaseBaseURL(lang ClientLanguage) string {
	return fmt.Sprintf(databaseURLFormat, Region(lang))
}
