package crypto

import "unicode"

// MinPassphraseLength is the minimum accepted passphrase length for
// hardened-session creation.
const MinPassphraseLength = 10

// PassphraseReport is the scored outcome of a strength check. It is a
// report rather than a bare pass/fail so callers can tell users which
// requirement is missing.
type PassphraseReport struct {
	Length    int  `json:"length"`
	HasUpper  bool `json:"has_upper"`
	HasLower  bool `json:"has_lower"`
	HasDigit  bool `json:"has_digit"`
	HasSymbol bool `json:"has_symbol"`
	Score     int  `json:"score"` // 0..5, one point per satisfied requirement
}

// Acceptable reports whether the passphrase meets the policy: minimum
// length plus at least one upper, lower, digit and symbol character.
func (r PassphraseReport) Acceptable() bool { return r.Score == 5 }

// CheckPassphrase scores a passphrase against the hardened-session policy.
func CheckPassphrase(passphrase string) PassphraseReport {
	rep := PassphraseReport{Length: len(passphrase)}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			rep.HasUpper = true
		case unicode.IsLower(r):
			rep.HasLower = true
		case unicode.IsDigit(r):
			rep.HasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			rep.HasSymbol = true
		}
	}
	if rep.Length >= MinPassphraseLength {
		rep.Score++
	}
	for _, ok := range []bool{rep.HasUpper, rep.HasLower, rep.HasDigit, rep.HasSymbol} {
		if ok {
			rep.Score++
		}
	}
	return rep
}
