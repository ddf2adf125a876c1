package document

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var documentIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewDocumentID returns a random 24-character lowercase base32 identifier
func NewDocumentID() (string, error) {
	buf := make([]byte, 15)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}
	return strings.ToLower(documentIDEncoding.EncodeToString(buf)), nil
}
