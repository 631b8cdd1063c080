package crypto

import "math/big"

var (
	secp256k1Order, _  = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	secp256k1HalfOrder = new(big.Int).Rsh(secp256k1Order, 1)

	// ed25519Order is the subgroup order L, big-endian.
	ed25519Order = []byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x14, 0xDE, 0xF9, 0xDE, 0xA2, 0xF7, 0x9C, 0xD6,
		0x58, 0x12, 0x63, 0x1A, 0x5C, 0xF5, 0xD3, 0xED,
	}
)

// IsCanonicalSignature reports whether sig is in the single accepted
// encoding for the key's scheme: low-S strict DER for secp256k1 and S < L
// for ed25519. Only canonical signatures are accepted so that a transaction
// has exactly one valid ID.
func IsCanonicalSignature(publicKey, sig []byte) bool {
	switch PublicKeyType(publicKey) {
	case KeyTypeSecp256k1:
		return isLowSDER(sig)
	case KeyTypeEd25519:
		return isCanonicalEd25519(sig)
	default:
		return false
	}
}

// isLowSDER parses 0x30 len 0x02 rlen R 0x02 slen S.
func isLowSDER(sig []byte) bool {
	if len(sig) < 8 || len(sig) > 72 || sig[0] != 0x30 || int(sig[1]) != len(sig)-2 {
		return false
	}
	r, rest, ok := derInteger(sig[2:])
	if !ok {
		return false
	}
	s, rest, ok := derInteger(rest)
	if !ok || len(rest) != 0 {
		return false
	}

	rv := new(big.Int).SetBytes(r)
	sv := new(big.Int).SetBytes(s)
	if rv.Sign() <= 0 || rv.Cmp(secp256k1Order) >= 0 {
		return false
	}
	return sv.Sign() > 0 && sv.Cmp(secp256k1HalfOrder) <= 0
}

func derInteger(data []byte) (value, rest []byte, ok bool) {
	if len(data) < 2 || data[0] != 0x02 {
		return nil, nil, false
	}
	n := int(data[1])
	if n < 1 || n > 33 || len(data) < 2+n {
		return nil, nil, false
	}
	value = data[2 : 2+n]
	if value[0]&0x80 != 0 {
		return nil, nil, false
	}
	// Minimal encoding: a leading zero only pads a set high bit.
	if value[0] == 0 && (n == 1 || value[1]&0x80 == 0) {
		return nil, nil, false
	}
	return value, data[2+n:], true
}

func isCanonicalEd25519(sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	// S is little-endian in the second half.
	for i := 0; i < 32; i++ {
		a, b := sig[63-i], ed25519Order[i]
		if a != b {
			return a < b
		}
	}
	return false
}
