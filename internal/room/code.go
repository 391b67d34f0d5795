// internal/room/code.go
package room

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet matches what players type into the join form: uppercase
// letters and digits only, no lookalike filtering.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed width of every room code. 36^7 candidate codes
// make collisions against live rooms negligible but not impossible; the
// store rejects duplicates and the coordinator retries.
const CodeLength = 7

// GenerateCode returns a uniformly random room code.
func GenerateCode() string {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}

// NormalizeCode folds user input into canonical code form. Codes are always
// presented uppercase; typed input may arrive lowercased or padded.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
