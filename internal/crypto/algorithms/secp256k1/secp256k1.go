package secp256k1

import (
	"encoding/binary"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	decdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	crypto "github.com/LeJamon/goTicketd/internal/crypto/common"
)

// Common error definitions
var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidSeed       = errors.New("seed does not yield a valid secp256k1 scalar")
)

// maxDerivationAttempts bounds the search for a valid scalar. The chance of
// needing more than one attempt is roughly 2^-128.
const maxDerivationAttempts = 64

// SECP256K1SignatureProvider signs with ECDSA over secp256k1. Messages are
// hashed with SHA512-Half and signatures are DER encoded.
type SECP256K1SignatureProvider struct{}

func NewSECP256K1Provider() *SECP256K1SignatureProvider {
	return &SECP256K1SignatureProvider{}
}

// DeriveKeypair deterministically derives a keypair from seed. The private
// scalar is SHA512-Half(seed || counter) for the first counter that yields a
// scalar in [1, N). The public key is returned in 33-byte compressed form.
func (p *SECP256K1SignatureProvider) DeriveKeypair(seed []byte) (privateKey, publicKey []byte, err error) {
	counter := make([]byte, 4)
	for i := uint32(0); i < maxDerivationAttempts; i++ {
		binary.BigEndian.PutUint32(counter, i)
		candidate := crypto.Sha512Half(seed, counter)

		var scalar btcec.ModNScalar
		if overflow := scalar.SetByteSlice(candidate[:]); overflow || scalar.IsZero() {
			continue
		}

		priv, pub := btcec.PrivKeyFromBytes(candidate[:])
		return priv.Serialize(), pub.SerializeCompressed(), nil
	}
	return nil, nil, ErrInvalidSeed
}

// SignMessage returns a DER encoded signature of SHA512-Half(message).
func (p *SECP256K1SignatureProvider) SignMessage(message, privateKey []byte) ([]byte, error) {
	if len(privateKey) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	hash := crypto.Sha512Half(message)
	return btcecdsa.Sign(priv, hash[:]).Serialize(), nil
}

// VerifySignature checks a DER signature against a compressed public key.
func (p *SECP256K1SignatureProvider) VerifySignature(message, publicKey, signature []byte) bool {
	pub, err := dsecp.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := decdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	hash := crypto.Sha512Half(message)
	return sig.Verify(hash[:], pub)
}
