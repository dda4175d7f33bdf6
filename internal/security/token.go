package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	requestIDBytes = 16
	passwordBytes  = 8
)

// NewRequestID returns a 32-character hex identifier for an access request.
func NewRequestID() string {
	return hex.EncodeToString(randomBytes(requestIDBytes))
}

// NewPassword returns a 16-character upper-case hex one-time password, short
// enough to type from an email.
func NewPassword() string {
	return strings.ToUpper(hex.EncodeToString(randomBytes(passwordBytes)))
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// Without a working randomness source the credentials would be
		// guessable; refusing to continue is the only safe option.
		panic(fmt.Sprintf("security: randomness source unavailable: %v", err))
	}
	return b
}
