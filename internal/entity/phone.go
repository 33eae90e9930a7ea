package entity

// Phone is a validated US phone number. Only service.ValidatePhone constructs
// one; invalid input never produces a Phone.
type Phone struct {
	Digits  string // 10 subscriber digits, no country code
	Display string // (AAA) EEE-LLLL
	E164    string // +1AAAEEELLLL
}

// Masked returns the display form with everything but the line number hidden,
// for leaderboard rows of users who never set a display name.
func (p Phone) Masked() string {
	return "***-" + p.Digits[6:]
}

// MaskPhoneE164 masks a stored E.164 number (+1AAAEEELLLL) down to its last
// four digits.
func MaskPhoneE164(e164 string) string {
	if len(e164) < 4 {
		return "***"
	}

	return "***-" + e164[len(e164)-4:]
}
