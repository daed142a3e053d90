package domain

import "math/rand/v2"

const (
	CodeLength = 6

	codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces candidate room codes. The orchestrator owns
// collision checking and retries; generators are free to collide.
type CodeGenerator func() string

// RandomCode draws a 6-character code from A-Z0-9. Codes are short-lived
// secrets shared between two people, not credentials, so math/rand is enough.
func RandomCode() string {
	buf := make([]byte, CodeLength)
	for i := range buf {
		buf[i] = codeChars[rand.IntN(len(codeChars))]
	}
	return string(buf)
}
