// Package transform contains the pure text-processing functions behind the
// API endpoints. Nothing in here holds state.
package transform

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ExtractEmails returns the email addresses found in text, in order of first
// appearance. Addresses differing only by case are treated as the same email;
// the casing of the first occurrence is kept.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	unique := make([]string, 0, len(matches))
	for _, email := range matches {
		lower := strings.ToLower(email)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		unique = append(unique, email)
	}
	return unique
}
