package secp256k1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeypairIsDeterministic(t *testing.T) {
	p := NewSECP256K1Provider()

	priv1, pub1, err := p.DeriveKeypair([]byte("alice"))
	require.NoError(t, err)
	priv2, pub2, err := p.DeriveKeypair([]byte("alice"))
	require.NoError(t, err)

	assert.Equal(t, priv1, priv2)
	assert.Equal(t, pub1, pub2)
	assert.Len(t, priv1, 32)
	require.Len(t, pub1, 33)
	assert.Contains(t, []byte{0x02, 0x03}, pub1[0])

	_, pubOther, err := p.DeriveKeypair([]byte("bob"))
	require.NoError(t, err)
	assert.NotEqual(t, pub1, pubOther)
}

func TestSignAndVerify(t *testing.T) {
	p := NewSECP256K1Provider()
	priv, pub, err := p.DeriveKeypair([]byte("signer"))
	require.NoError(t, err)

	msg := []byte("join event 42")
	sig, err := p.SignMessage(msg, priv)
	require.NoError(t, err)

	assert.True(t, p.VerifySignature(msg, pub, sig))
	assert.False(t, p.VerifySignature([]byte("join event 43"), pub, sig))

	_, otherPub, err := p.DeriveKeypair([]byte("someone else"))
	require.NoError(t, err)
	assert.False(t, p.VerifySignature(msg, otherPub, sig))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := NewSECP256K1Provider()
	_, pub, err := p.DeriveKeypair([]byte("signer"))
	require.NoError(t, err)

	assert.False(t, p.VerifySignature([]byte("m"), pub, []byte{0x30, 0x01}))
	assert.False(t, p.VerifySignature([]byte("m"), []byte{0x05}, []byte{0x30, 0x01}))
}

func TestSignRejectsShortKey(t *testing.T) {
	_, err := NewSECP256K1Provider().SignMessage([]byte("m"), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}
