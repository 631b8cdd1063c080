package tx

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/crypto"
	cryptocommon "github.com/LeJamon/goTicketd/internal/crypto/common"
)

// Signature verification errors
var (
	ErrMissingSignature  = errors.New("transaction is not signed")
	ErrMissingPublicKey  = errors.New("signing public key is missing")
	ErrInvalidSignature  = errors.New("signature is invalid")
	ErrPublicKeyMismatch = errors.New("public key does not match account")
)

// SigningPayload returns the digest signed by both the signer and any
// co-signer: the canonical encoding of every field except signatures.
func SigningPayload(t Transaction) ([32]byte, error) {
	encoded, err := sle.Marshal(t)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode transaction: %w", err)
	}
	return cryptocommon.Sha512Half(crypto.HashPrefixTxSign.Bytes(), encoded), nil
}

// TxID identifies a signed transaction.
func TxID(t Transaction) ([32]byte, error) {
	payload, err := SigningPayload(t)
	if err != nil {
		return [32]byte{}, err
	}
	common := t.GetCommon()
	parts := [][]byte{crypto.HashPrefixTxID.Bytes(), payload[:], []byte(common.TxnSignature)}
	if common.CoSigner != nil {
		parts = append(parts, []byte(common.CoSigner.TxnSignature))
	}
	return cryptocommon.Sha512Half(parts...), nil
}

// Sign fills in SigningPubKey and TxnSignature for the source account.
func Sign(t Transaction, kp *crypto.KeyPair) error {
	common := t.GetCommon()
	common.SigningPubKey = strings.ToUpper(hex.EncodeToString(kp.PublicKey))
	sig, err := signPayload(t, kp)
	if err != nil {
		return err
	}
	common.TxnSignature = sig
	return nil
}

// CoSign attaches a second signature over the same payload. The payload
// covers SigningPubKey, so Sign must be called first.
func CoSign(t Transaction, kp *crypto.KeyPair) error {
	sig, err := signPayload(t, kp)
	if err != nil {
		return err
	}
	id := sle.AccountID(kp.AccountID())
	t.GetCommon().CoSigner = &Signer{
		Account:       id.String(),
		SigningPubKey: strings.ToUpper(hex.EncodeToString(kp.PublicKey)),
		TxnSignature:  sig,
	}
	return nil
}

func signPayload(t Transaction, kp *crypto.KeyPair) (string, error) {
	payload, err := SigningPayload(t)
	if err != nil {
		return "", err
	}
	sig, err := kp.Sign(payload[:])
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(sig)), nil
}

// VerifySignature checks the source account's signature.
func VerifySignature(t Transaction) error {
	common := t.GetCommon()
	return verify(t, common.Account, common.SigningPubKey, common.TxnSignature)
}

// VerifyCoSignature checks the co-signer block, if present.
func VerifyCoSignature(t Transaction) error {
	s := t.GetCommon().CoSigner
	if s == nil {
		return nil
	}
	return verify(t, s.Account, s.SigningPubKey, s.TxnSignature)
}

func verify(t Transaction, account, pubKeyHex, sigHex string) error {
	if sigHex == "" {
		return ErrMissingSignature
	}
	if pubKeyHex == "" {
		return ErrMissingPublicKey
	}
	pub, err := hex.DecodeString(pubKeyHex)
	if err != nil || !crypto.IsValidPublicKey(pub) {
		return ErrMissingPublicKey
	}
	if err := verifyPublicKeyMatchesAccount(pub, account); err != nil {
		return err
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return ErrInvalidSignature
	}
	payload, err := SigningPayload(t)
	if err != nil {
		return err
	}
	if !crypto.Verify(pub, payload[:], sig) {
		return ErrInvalidSignature
	}
	return nil
}

func verifyPublicKeyMatchesAccount(pub []byte, account string) error {
	want, err := sle.ParseAccountID(account)
	if err != nil {
		return ErrPublicKeyMismatch
	}
	if sle.AccountID(crypto.CalcAccountID(pub)) != want {
		return ErrPublicKeyMismatch
	}
	return nil
}
