package contract

import (
	"strconv"
	"unicode/utf8"
)

func isValidUTF8(s string) bool { return utf8.ValidString(s) }

// testContract mirrors the short agreement used across the engine tests.
const testContract = `
The freelancer assigns all intellectual property to the client in perpetuity and waives moral rights.
Payment terms are Net-90 from the date of invoice.
The freelancer agrees to indemnify and hold harmless the client for all losses with unlimited liability.
This agreement is governed by Delaware courts.
`

func itoa(n int) string { return strconv.Itoa(n) }
