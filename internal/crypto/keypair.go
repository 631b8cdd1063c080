package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/LeJamon/goTicketd/internal/crypto/algorithms/ed25519"
	"github.com/LeJamon/goTicketd/internal/crypto/algorithms/secp256k1"
)

// ErrUnsupportedKeyType is returned for key types other than secp256k1 and ed25519.
var ErrUnsupportedKeyType = errors.New("unsupported key type")

// KeyPair holds the raw key material of one account.
type KeyPair struct {
	Type       KeyType
	PublicKey  []byte
	PrivateKey []byte
}

// DeriveKeyPair deterministically derives a keypair of the given type from seed.
func DeriveKeyPair(seed []byte, kt KeyType) (*KeyPair, error) {
	var (
		priv, pub []byte
		err       error
	)
	switch kt {
	case KeyTypeSecp256k1:
		priv, pub, err = secp256k1.NewSECP256K1Provider().DeriveKeypair(seed)
	case KeyTypeEd25519:
		priv, pub, err = ed25519.NewED25519Provider().DeriveKeypair(seed)
	default:
		return nil, ErrUnsupportedKeyType
	}
	if err != nil {
		return nil, fmt.Errorf("derive %s keypair: %w", kt, err)
	}
	return &KeyPair{Type: kt, PublicKey: pub, PrivateKey: priv}, nil
}

// AccountID returns the account ID controlled by this keypair.
func (k *KeyPair) AccountID() [AccountIDSize]byte {
	return CalcAccountID(k.PublicKey)
}

// Sign signs message with the keypair's scheme.
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	switch k.Type {
	case KeyTypeSecp256k1:
		return secp256k1.NewSECP256K1Provider().SignMessage(message, k.PrivateKey)
	case KeyTypeEd25519:
		return ed25519.NewED25519Provider().SignMessage(message, k.PrivateKey)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// Verify checks signature over message using the scheme implied by the
// public key prefix. Non-canonical signatures are rejected.
func Verify(publicKey, message, signature []byte) bool {
	if !IsCanonicalSignature(publicKey, signature) {
		return false
	}
	switch PublicKeyType(publicKey) {
	case KeyTypeSecp256k1:
		return secp256k1.NewSECP256K1Provider().VerifySignature(message, publicKey, signature)
	case KeyTypeEd25519:
		return ed25519.NewED25519Provider().VerifySignature(message, publicKey, signature)
	default:
		return false
	}
}

// RandomSeed returns 16 bytes from the system CSPRNG, suitable for
// DeriveKeyPair.
func RandomSeed() ([]byte, error) {
	seed := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return seed, nil
}
