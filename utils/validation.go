// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"strings"
)

const whatsAppPrefix = "whatsapp:"

var (
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)

	ErrInvalidPhone = errors.New("invalid phone number")
)

func cleanPhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(cleanPhone(phone))
}

// NormalizeWhatsAppNumber converts a phone number into a whatsapp:+<digits> address.
// Ten-digit local numbers get countryCode prepended.
func NormalizeWhatsAppNumber(raw, countryCode string) (string, error) {
	phone := cleanPhone(raw)
	if strings.HasPrefix(strings.ToLower(phone), whatsAppPrefix) {
		rest := phone[len(whatsAppPrefix):]
		if !phonePattern.MatchString(rest) {
			return "", ErrInvalidPhone
		}
		if !strings.HasPrefix(rest, "+") {
			rest = "+" + rest
		}
		return whatsAppPrefix + rest, nil
	}

	if strings.HasPrefix(phone, "+") {
		if !phonePattern.MatchString(phone) || len(phone) < 9 {
			return "", ErrInvalidPhone
		}
		return whatsAppPrefix + phone, nil
	}

	phone = strings.TrimLeft(phone, "0")
	if !digitsPattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}

	switch {
	case len(phone) == 10:
		return whatsAppPrefix + "+" + countryCode + phone, nil
	case countryCode != "" && strings.HasPrefix(phone, countryCode) && len(phone) == len(countryCode)+10:
		return whatsAppPrefix + "+" + phone, nil
	default:
		return "", ErrInvalidPhone
	}
}
