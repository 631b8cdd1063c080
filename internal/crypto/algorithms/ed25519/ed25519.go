package ed25519

import (
	"crypto/ed25519"
	"errors"

	crypto "github.com/LeJamon/goTicketd/internal/crypto/common"
)

// PublicKeyPrefix marks an Ed25519 public key so it can be told apart from a
// compressed secp256k1 key of the same length.
const PublicKeyPrefix byte = 0xED

// Common error definitions
var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidPublicKey  = errors.New("invalid public key format")
)

// ED25519SignatureProvider implements digital signature operations using the ED25519 algorithm
type ED25519SignatureProvider struct {
	keyPrefix byte
}

func NewED25519Provider() *ED25519SignatureProvider {
	return &ED25519SignatureProvider{
		keyPrefix: PublicKeyPrefix,
	}
}

// DeriveKeypair derives a keypair whose 32-byte private seed is
// SHA512-Half(seed). The public key carries the 0xED prefix.
func (p *ED25519SignatureProvider) DeriveKeypair(seed []byte) (privateKey, publicKey []byte, err error) {
	keyMaterial := crypto.Sha512Half(seed)
	signingKey := ed25519.NewKeyFromSeed(keyMaterial[:])

	publicKey = append([]byte{p.keyPrefix}, signingKey.Public().(ed25519.PublicKey)...)
	return keyMaterial[:], publicKey, nil
}

func (p *ED25519SignatureProvider) SignMessage(message, privateKey []byte) ([]byte, error) {
	if len(privateKey) != ed25519.SeedSize {
		return nil, ErrInvalidPrivateKey
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(privateKey), message), nil
}

func (p *ED25519SignatureProvider) VerifySignature(message, publicKey, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize+1 || publicKey[0] != p.keyPrefix {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey[1:]), message, signature)
}
