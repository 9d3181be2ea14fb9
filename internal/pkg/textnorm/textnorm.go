// Package textnorm приводит названия мест к канонической форме для сравнения
// и к отображаемой форме для адресов.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical возвращает форму для сравнения: верхний регистр, без диакритики,
// без пробелов по краям и с одиночными пробелами внутри.
// Canonical(Canonical(s)) == Canonical(s).
func Canonical(s string) string {
	s = cases.Upper(language.Und).String(s)

	// transform.Chain хранит состояние, поэтому собирается на каждый вызов
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return strings.Join(strings.Fields(stripped), " ")
}

// Display приводит каждое слово к виду "Слово". Только для показа пользователю,
// для сравнения использовать Canonical.
func Display(s string) string {
	lower := cases.Lower(language.Und)

	words := strings.Fields(s)
	for i, w := range words {
		w = lower.String(w)
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// LocationName извлекает название места из адреса зоны: текст до первой запятой
func LocationName(address string) string {
	if i := strings.IndexByte(address, ','); i >= 0 {
		address = address[:i]
	}
	return Canonical(address)
}

// Equal сравнивает строки в канонической форме
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// ContainsWord проверяет, что needle входит в haystack целым словом:
// слева и справа от вхождения стоит не буква/цифра либо граница строки.
func ContainsWord(haystack, needle string) bool {
	haystack = Canonical(haystack)
	needle = Canonical(needle)
	if needle == "" {
		return false
	}

	for offset := 0; offset <= len(haystack)-len(needle); {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)

		if isBoundaryBefore(haystack, start) && isBoundaryAfter(haystack, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
