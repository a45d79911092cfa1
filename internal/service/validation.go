package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// normalizeEmail lowercases, trims and validates an email address including
// an IDNA check on the domain part.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if _, err := idnaProfile.ToASCII(domain); err != nil {
		return "", fmt.Errorf("%w: invalid email domain", ErrValidation)
	}

	return email, nil
}

// normalizePhone parses a phone number relative to the given region and
// returns its E.164 form.
func normalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: phone must not be blank", ErrValidation)
	}
	if region == "" {
		region = defaultPhoneRegion
	}

	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable phone number", ErrValidation)
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("%w: invalid phone number", ErrValidation)
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}
