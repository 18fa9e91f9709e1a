// Package localize translates provider weather phrases to Russian on a
// best-effort basis.
package localize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type phrase struct {
	match string
	ru    string
}

// Order matters: the first phrase contained in the input wins, so longer
// phrases precede the bare words they contain.
var phrases = []phrase{
	{"clear sky", "ясно"},
	{"few clouds", "небольшая облачность"},
	{"scattered clouds", "переменная облачность"},
	{"broken clouds", "облачно"},
	{"overcast clouds", "пасмурно"},
	{"light rain", "небольшой дождь"},
	{"moderate rain", "умеренный дождь"},
	{"heavy rain", "сильный дождь"},
	{"light snow", "небольшой снег"},
	{"moderate snow", "умеренный снег"},
	{"heavy snow", "сильный снег"},
	{"mist", "туман"},
	{"fog", "туман"},
	{"haze", "дымка"},
	{"dust", "пыль"},
	{"sand", "песок"},
	{"thunderstorm", "гроза"},
	{"drizzle", "морось"},
}

// Localize returns text unchanged when it already contains Cyrillic or
// matches no known phrase.
func Localize(text string) string {
	if text == "" || isCyrillic(text) {
		return text
	}

	// A Caser keeps state and must not be shared between goroutines.
	lower := cases.Lower(language.English).String(text)
	for _, p := range phrases {
		if strings.Contains(lower, p.match) {
			return p.ru
		}
	}

	return text
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(text string) string {
	first, size := utf8.DecodeRuneInString(text)
	if first == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(first)) + cases.Lower(language.Und).String(text[size:])
}

func isCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
