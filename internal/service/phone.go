package service

import (
	"fmt"
	"strings"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

// Area codes that must never receive an OTP: premium rate (toll fraud risk),
// paid services, non-geographic, emergency, reserved, and toll-free (cannot
// terminate SMS).
var blockedAreaCodes = map[string]struct{}{
	"900": {}, "976": {},
	"880": {}, "881": {}, "882": {}, "883": {},
	"500": {}, "700": {},
	"911": {},
	"555": {},
	"800": {}, "888": {}, "877": {}, "866": {}, "855": {}, "844": {}, "833": {},
}

// ValidatePhone normalizes and validates a candidate US phone number against
// numbering-plan rules and the toll-fraud blocklist. It is pure and total:
// any input yields either a fully populated entity.Phone or a
// *entity.PhoneValidationError with a non-empty reason.
func ValidatePhone(input string) (entity.Phone, error) {
	digits := stripNonDigits(input)

	switch len(digits) {
	case 11:
		if digits[0] != '1' {
			return entity.Phone{}, &entity.PhoneValidationError{
				Reason: "Invalid country code. Only US numbers (+1) are supported.",
			}
		}

		digits = digits[1:]
	case 10:
	default:
		return entity.Phone{}, &entity.PhoneValidationError{
			Reason: "Please enter a valid 10-digit US phone number.",
		}
	}

	areaCode := digits[0:3]
	exchange := digits[3:6]
	lineNumber := digits[6:10]

	if !isValidAreaCode(areaCode) {
		return entity.Phone{}, &entity.PhoneValidationError{
			Reason: fmt.Sprintf("Area code %s is not allowed. Please use a valid US mobile number.", areaCode),
		}
	}

	if exchange[0] < '2' || exchange[0] > '9' {
		return entity.Phone{}, &entity.PhoneValidationError{
			Reason: "Invalid phone number format. Please use a valid US mobile number.",
		}
	}

	return entity.Phone{
		Digits:  digits,
		Display: fmt.Sprintf("(%s) %s-%s", areaCode, exchange, lineNumber),
		E164:    "+1" + digits,
	}, nil
}

func isValidAreaCode(areaCode string) bool {
	if _, blocked := blockedAreaCodes[areaCode]; blocked {
		return false
	}

	if areaCode[0] < '2' || areaCode[0] > '9' {
		return false
	}

	// N11 service codes (411, 611, 911, ...)
	if areaCode[1:] == "11" {
		return false
	}

	return true
}

func stripNonDigits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
