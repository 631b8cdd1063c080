// Package genesis seeds an empty account store with the master account,
// which holds the entire native supply.
package genesis

import (
	"context"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/crypto"
	cryptocommon "github.com/LeJamon/goTicketd/internal/crypto/common"
)

const (
	// InitialSupply is the native supply held by the master account.
	InitialSupply uint64 = 100_000_000_000_000_000

	// DefaultPassphrase derives the well-known master keypair.
	DefaultPassphrase = "masterpassphrase"
)

// Config describes the genesis state.
type Config struct {
	// Passphrase derives the master keypair.
	Passphrase string

	KeyType crypto.KeyType

	// Supply is credited to the master account.
	Supply uint64
}

func DefaultConfig() Config {
	return Config{
		Passphrase: DefaultPassphrase,
		KeyType:    crypto.KeyTypeSecp256k1,
		Supply:     InitialSupply,
	}
}

// SeedFromPassphrase derives a 16 byte key seed from a passphrase.
func SeedFromPassphrase(passphrase string) []byte {
	h := cryptocommon.Sha512Half([]byte(passphrase))
	return h[:16]
}

// MasterKeyPair returns the keypair controlling the master account.
func MasterKeyPair(cfg Config) (*crypto.KeyPair, error) {
	return crypto.DeriveKeyPair(SeedFromPassphrase(cfg.Passphrase), cfg.KeyType)
}

// Create writes the master account if the store does not hold it yet and
// returns its ID. Calling it on an initialized store is a no-op.
func Create(ctx context.Context, store *state.Store, cfg Config) (sle.AccountID, error) {
	kp, err := MasterKeyPair(cfg)
	if err != nil {
		return sle.AccountID{}, fmt.Errorf("master keypair: %w", err)
	}
	id := sle.AccountID(kp.AccountID())
	k := keylet.Account(id)

	release := store.Locks().Acquire([]state.Access{{Key: k.Key, Writable: true}})
	defer release()

	existing, err := store.Get(ctx, k.Key)
	if err != nil {
		return id, err
	}
	if existing != nil {
		return id, nil
	}

	data, err := sle.SerializeAccountRoot(&sle.AccountRoot{
		Account:  id,
		Balance:  cfg.Supply,
		Sequence: 1,
	})
	if err != nil {
		return id, err
	}
	if err := store.Commit(ctx, []state.Change{{Key: k.Key, Data: data}}); err != nil {
		return id, fmt.Errorf("write master account: %w", err)
	}
	return id, nil
}
