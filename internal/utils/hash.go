package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// partSeparator cannot occur in document ids or user ids, so distinct part lists never collide.
const partSeparator = "\x00"

// Hash returns the hex sha256 of the parts joined by partSeparator.
func Hash(parts ...string) string {
	hash := sha256.New()
	hash.Write([]byte(strings.Join(parts, partSeparator)))
	return hex.EncodeToString(hash.Sum(nil))
}
