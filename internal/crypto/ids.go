package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an account ID in bytes.
const AccountIDSize = 20

// ErrInvalidAccountID is returned when an encoded account ID cannot be decoded.
var ErrInvalidAccountID = errors.New("invalid account id")

// CalcAccountID computes the account ID from a public key.
// The account ID is a 160-bit identifier computed as RIPEMD160(SHA256(publicKey)).
//
// The same computation is used regardless of the key scheme; the entire
// public key including any prefix byte is hashed.
func CalcAccountID(publicKey []byte) [AccountIDSize]byte {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	ripemd160Hash := ripemd160Hasher.Sum(nil)

	var result [AccountIDSize]byte
	copy(result[:], ripemd160Hash)
	return result
}

// EncodeAccountID renders an account ID in its canonical upper-case hex form.
func EncodeAccountID(id [AccountIDSize]byte) string {
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// DecodeAccountID parses the hex form produced by EncodeAccountID.
// Lower-case input is accepted.
func DecodeAccountID(s string) ([AccountIDSize]byte, error) {
	var result [AccountIDSize]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != AccountIDSize {
		return result, ErrInvalidAccountID
	}
	copy(result[:], raw)
	return result, nil
}

// IsZeroAccountID returns true if the account ID is all zeros.
func IsZeroAccountID(id [AccountIDSize]byte) bool {
	for _, b := range id {
		if b != 0 {
			return false
		}
	}
	return true
}
