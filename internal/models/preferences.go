package models

import "fmt"

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
)

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme validates s as a [Theme].
func ParseTheme(s string) (Theme, error) {
	if t := Theme(s); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid theme %q (want light or dark)", s)
}

// Language is the interface language preference.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"

	DefaultLanguage = LanguageEnglish
)

func (l Language) Valid() bool { return l == LanguageEnglish || l == LanguageIndonesian }

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == LanguageEnglish {
		return LanguageIndonesian
	}
	return LanguageEnglish
}

// ParseLanguage validates s as a [Language].
func ParseLanguage(s string) (Language, error) {
	if l := Language(s); l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("invalid language %q (want en or id)", s)
}
