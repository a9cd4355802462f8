package transform

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidPhone is returned when the input does not contain a formattable
// number of digits.
var ErrInvalidPhone = errors.New("phone number must contain 10 digits, optionally preceded by the country code")

// Phone is a formatted phone number.
type Phone struct {
	// National is the number in (AAA) BBB-CCCC form.
	National string
	// E164 is the number with a leading + and country code.
	E164 string
	// Digits is the 10-digit national significant number.
	Digits string
}

// FormatPhone strips separators from phone and formats the result as a
// 10-digit national number. countryCode defaults to "1". An 11+-digit input
// that starts with the country code has it stripped first.
func FormatPhone(phone, countryCode string) (Phone, error) {
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode == "" {
		countryCode = "1"
	}
	for _, r := range countryCode {
		if !unicode.IsDigit(r) {
			return Phone{}, fmt.Errorf("invalid country code %q", countryCode)
		}
	}

	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	national := digits.String()

	if len(national) == 10+len(countryCode) && strings.HasPrefix(national, countryCode) {
		national = national[len(countryCode):]
	}
	if len(national) != 10 {
		return Phone{}, ErrInvalidPhone
	}

	return Phone{
		National: fmt.Sprintf("(%s) %s-%s", national[0:3], national[3:6], national[6:10]),
		E164:     "+" + countryCode + national,
		Digits:   national,
	}, nil
}
