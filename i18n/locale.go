// Package i18n loads the storefront's translated UI strings.
//
// Messages are kept in one YAML file per locale under locales/, embedded in
// the binary and decoded into the typed Messages tree. Decoding is strict:
// unknown keys fail, and so does any leaf left empty, so a missing
// translation is caught at startup instead of rendering an empty label.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported UI language.
type Locale string

const (
	German  Locale = "de"
	English Locale = "en"
	French  Locale = "fr"
)

// DefaultLocale is used when nothing else is known about the visitor.
const DefaultLocale = German

// LocaleInfo pairs a locale with its display label.
type LocaleInfo struct {
	Code  Locale
	Label string
}

var locales = []LocaleInfo{
	{Code: German, Label: "Deutsch"},
	{Code: English, Label: "English"},
	{Code: French, Label: "Français"},
}

// Locales returns the supported locales in display order.
func Locales() []LocaleInfo {
	return append([]LocaleInfo(nil), locales...)
}

// IsValid reports whether l is supported.
func (l Locale) IsValid() bool {
	switch l {
	case German, English, French:
		return true
	}
	return false
}

// Label returns the locale's display label.
func (l Locale) Label() string {
	for _, info := range locales {
		if info.Code == l {
			return info.Label
		}
	}
	return string(l)
}

func (l Locale) String() string {
	return string(l)
}

// ParseLocale returns the locale named by s and whether it is supported.
func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if l.IsValid() {
		return l, true
	}
	return "", false
}

var matcher = language.NewMatcher([]language.Tag{
	language.German,
	language.English,
	language.French,
})

// Negotiate picks the best supported locale for an Accept-Language header.
// fallback is returned when the header is empty, malformed or matches
// nothing.
func Negotiate(acceptLanguage string, fallback Locale) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return locales[idx].Code
}
