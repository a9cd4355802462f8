package transform

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownCase is returned for an unsupported case_type.
var ErrUnknownCase = errors.New("unknown case type")

// SupportedCases lists the accepted case_type values.
var SupportedCases = []string{"upper", "lower", "title", "snake", "kebab", "camel", "pascal"}

var titleCaser = cases.Title(language.Und)

// ConvertCase rewrites text in the requested case style. Word boundaries are
// spaces, underscores, hyphens, and lower-to-upper camel humps.
func ConvertCase(text, caseType string) (string, error) {
	switch caseType {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "title":
		return titleCaser.String(text), nil
	case "snake":
		return strings.Join(toLowerWords(text), "_"), nil
	case "kebab":
		return strings.Join(toLowerWords(text), "-"), nil
	case "camel":
		words := toLowerWords(text)
		for i := 1; i < len(words); i++ {
			words[i] = titleCaser.String(words[i])
		}
		return strings.Join(words, ""), nil
	case "pascal":
		words := toLowerWords(text)
		for i := range words {
			words[i] = titleCaser.String(words[i])
		}
		return strings.Join(words, ""), nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownCase, caseType, strings.Join(SupportedCases, ", "))
	}
}

// toLowerWords splits text into lowercase words.
func toLowerWords(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '\t' || r == '\n':
			flush()
		case unicode.IsUpper(r):
			// A hump starts a new word when preceded by a lowercase rune or
			// digit, or when it ends an acronym run ("HTTPServer" -> HTTP, Server).
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				flush()
			} else if i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
