package crypto

// HashPrefix is prepended to data before hashing so that digests of
// different object kinds can never collide.
type HashPrefix [4]byte

var (
	// HashPrefixTxSign prefixes the payload signed by transaction signers.
	HashPrefixTxSign = HashPrefix{'S', 'T', 'X', 0}

	// HashPrefixTxID prefixes a signed transaction to derive its ID.
	HashPrefixTxID = HashPrefix{'T', 'X', 'N', 0}
)

// Bytes returns the prefix as a slice.
func (p HashPrefix) Bytes() []byte {
	return p[:]
}
