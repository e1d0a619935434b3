package service

import (
	"encoding/base32"
	"io"
	"strings"
)

const inviteCodeBytes = 16

var inviteEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// inviteCodeSource draws 128-bit codes from r. Codes are 26 upper-case base32
// characters.
func inviteCodeSource(r io.Reader) func() (string, error) {
	return func() (string, error) {
		buf := make([]byte, inviteCodeBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		return inviteEncoding.EncodeToString(buf), nil
	}
}

// NormalizeInviteCode undoes the formatting chat clients add when a code is
// pasted: surrounding space, lower case, dashes and inner spaces.
func NormalizeInviteCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("-", "", " ", "").Replace(code)
}

// FormatInviteCode groups a code into dash separated blocks of five for display.
func FormatInviteCode(code string) string {
	var b strings.Builder
	for i, r := range code {
		if i > 0 && i%5 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}
