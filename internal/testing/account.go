package testing

import (
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/crypto"
)

// Account represents a test account with keypair and address information.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	KeyPair *crypto.KeyPair

	// ID is the 20-byte account ID derived from the public key.
	ID sle.AccountID

	// Address is the hex rendering of ID used in transactions.
	Address string
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// By default, uses secp256k1 key derivation.
func NewAccount(name string) *Account {
	return NewAccountWithKeyType(name, crypto.KeyTypeSecp256k1)
}

// NewAccountWithKeyType creates a new test account with the specified key type.
func NewAccountWithKeyType(name string, kt crypto.KeyType) *Account {
	return NewAccountFromPassphraseWithKeyType(name, name, kt)
}

// MasterAccount returns the genesis account that holds the native supply.
func MasterAccount() *Account {
	return NewAccountFromPassphrase("master", genesis.DefaultPassphrase)
}

// NewAccountFromPassphrase creates a test account from a specific passphrase.
func NewAccountFromPassphrase(name, passphrase string) *Account {
	return NewAccountFromPassphraseWithKeyType(name, passphrase, crypto.KeyTypeSecp256k1)
}

// NewAccountFromPassphraseWithKeyType creates a test account from a specific passphrase
// with the specified key type.
func NewAccountFromPassphraseWithKeyType(name, passphrase string, kt crypto.KeyType) *Account {
	kp, err := crypto.DeriveKeyPair(genesis.SeedFromPassphrase(passphrase), kt)
	if err != nil {
		panic("failed to derive keypair for account " + name + ": " + err.Error())
	}
	id := sle.AccountID(kp.AccountID())
	return &Account{
		Name:    name,
		KeyPair: kp,
		ID:      id,
		Address: id.String(),
	}
}

// Human returns the address used in transaction fields.
func (a *Account) Human() string {
	return a.Address
}

func (a *Account) String() string {
	return fmt.Sprintf("%s(%s)", a.Name, a.Address)
}

func (a *Account) IsSecp256k1() bool {
	return a.KeyPair.Type == crypto.KeyTypeSecp256k1
}

func (a *Account) IsEd25519() bool {
	return a.KeyPair.Type == crypto.KeyTypeEd25519
}
