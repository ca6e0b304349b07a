package contract

import "regexp"

// Redaction tokens substituted for personal identifiers.
const (
	RedactedNationalID = "[REDACTED-AADHAAR]"
	RedactedPhone      = "[REDACTED-PHONE]"
	RedactedEmail      = "[REDACTED-EMAIL]"
)

var (
	nationalIDPattern = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	phonePattern      = regexp.MustCompile(`\b\d{10}\b`)
	emailPattern      = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
)

// MaskSensitiveData replaces 12-digit national ID groups, 10-digit phone
// numbers and e-mail addresses with fixed redaction tokens. The ID pass runs
// first so a 12-digit group is never half-consumed as a phone number.
func MaskSensitiveData(text string) string {
	out := nationalIDPattern.ReplaceAllLiteralString(text, RedactedNationalID)
	out = phonePattern.ReplaceAllLiteralString(out, RedactedPhone)
	return emailPattern.ReplaceAllLiteralString(out, RedactedEmail)
}
