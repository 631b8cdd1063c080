package tx

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// Common errors
var (
	ErrMissingRequiredField = errors.New("temMALFORMED: missing required field")
	ErrInvalidAccount       = errors.New("temBAD_SRC_ACCOUNT: invalid account")
	ErrInvalidSequence      = errors.New("temBAD_SEQUENCE: sequence must be non-zero")
	ErrInvalidAmount        = errors.New("temBAD_AMOUNT: amount must be positive")
)

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks the transaction without reading the ledger. Errors
	// should start with a result token, e.g. "temMALFORMED: ...".
	Validate() error

	// Accesses lists every ledger entry Apply may touch, other than the
	// source account, and whether it is written. An entry addressed through
	// another entry, such as a credential under its collection, may be
	// covered by that entry's lock instead; transactions then serialize on
	// the parent. Queries lock only the key they read, so the store drops a
	// cache fill whose read overlapped a commit.
	Accesses() []KeyAccess
}

// Appliable is implemented by transaction types that can apply themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// KeyAccess is one declared ledger access.
type KeyAccess struct {
	Keylet   keylet.Keylet
	Writable bool
}

// Write declares a writable access.
func Write(k keylet.Keylet) KeyAccess {
	return KeyAccess{Keylet: k, Writable: true}
}

// Read declares a read-only access.
func Read(k keylet.Keylet) KeyAccess {
	return KeyAccess{Keylet: k}
}

// Signer is an additional signature over the transaction, used when a
// second party must approve it.
type Signer struct {
	Account       string `json:"Account"`
	SigningPubKey string `json:"SigningPubKey"`
	TxnSignature  string `json:"TxnSignature"`
}

// Common contains fields common to all transaction types
type Common struct {
	Account         string `json:"Account" codec:"Account"`
	TransactionType string `json:"TransactionType" codec:"TransactionType"`
	Sequence        uint32 `json:"Sequence" codec:"Sequence"`
	SigningPubKey   string `json:"SigningPubKey,omitempty" codec:"SigningPubKey"`

	// Signatures are not part of the signed payload.
	TxnSignature string  `json:"TxnSignature,omitempty" codec:"-"`
	CoSigner     *Signer `json:"CoSigner,omitempty" codec:"-"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account == "" {
		return ErrInvalidAccount
	}
	if _, err := sle.ParseAccountID(c.Account); err != nil {
		return ErrInvalidAccount
	}
	if c.TransactionType == "" {
		return errors.New("temINVALID: TransactionType is required")
	}
	if c.Sequence == 0 {
		return ErrInvalidSequence
	}
	return nil
}

// AccountID returns the decoded source account. The zero ID is returned for
// a malformed account; Validate rejects those first.
func (c *Common) AccountID() sle.AccountID {
	id, _ := sle.ParseAccountID(c.Account)
	return id
}

// CoSignerID returns the decoded co-signer account, if any.
func (c *Common) CoSignerID() (sle.AccountID, bool) {
	if c.CoSigner == nil {
		return sle.AccountID{}, false
	}
	id, err := sle.ParseAccountID(c.CoSigner.Account)
	if err != nil {
		return sle.AccountID{}, false
	}
	return id, true
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account string) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}
