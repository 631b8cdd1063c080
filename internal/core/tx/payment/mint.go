package payment

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeMintCreate, func() tx.Transaction {
		return &MintCreate{BaseTx: *tx.NewBaseTx(tx.TypeMintCreate, "")}
	})
	tx.Register(tx.TypeMintIssue, func() tx.Transaction {
		return &MintIssue{BaseTx: *tx.NewBaseTx(tx.TypeMintIssue, "")}
	})
}

// MintCreate defines a new fungible token issued by the signer.
type MintCreate struct {
	tx.BaseTx

	// Nonce distinguishes mints of the same issuer
	Nonce uint32 `json:"Nonce"`

	Decimals uint8 `json:"Decimals"`
}

func NewMintCreate(account string, nonce uint32, decimals uint8) *MintCreate {
	return &MintCreate{
		BaseTx:   *tx.NewBaseTx(tx.TypeMintCreate, account),
		Nonce:    nonce,
		Decimals: decimals,
	}
}

func (m *MintCreate) TxType() tx.Type {
	return tx.TypeMintCreate
}

func (m *MintCreate) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if m.Decimals > sle.MaxDecimals {
		return fmt.Errorf("temMALFORMED: Decimals exceeds %d", sle.MaxDecimals)
	}
	return nil
}

// Keylet is the address of the mint this transaction creates.
func (m *MintCreate) Keylet() keylet.Keylet {
	return keylet.Mint(m.AccountID(), m.Nonce)
}

func (m *MintCreate) Accesses() []tx.KeyAccess {
	return []tx.KeyAccess{tx.Write(m.Keylet())}
}

func (m *MintCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	data, err := sle.SerializeMint(&sle.Mint{
		Issuer:   ctx.AccountID,
		Nonce:    m.Nonce,
		Decimals: m.Decimals,
	})
	if r := ctx.Insert(m.Keylet(), data, err); r != tx.TesSUCCESS {
		return r
	}
	ctx.Account.OwnerCount++
	return tx.TesSUCCESS
}

// MintIssue credits new supply of a mint to a holder. Only the issuer may
// sign it.
type MintIssue struct {
	tx.BaseTx

	// Mint is the hex key of the mint entry (required)
	Mint string `json:"Mint"`

	Destination string `json:"Destination"`

	Amount uint64 `json:"Amount"`
}

func NewMintIssue(account, mint, destination string, amount uint64) *MintIssue {
	return &MintIssue{
		BaseTx:      *tx.NewBaseTx(tx.TypeMintIssue, account),
		Mint:        mint,
		Destination: destination,
		Amount:      amount,
	}
}

func (m *MintIssue) TxType() tx.Type {
	return tx.TypeMintIssue
}

func (m *MintIssue) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(m.Mint); err != nil {
		return errors.New("temMALFORMED: invalid Mint")
	}
	if m.Destination == "" {
		return errors.New("temDST_NEEDED: Destination is required")
	}
	if _, err := sle.ParseAccountID(m.Destination); err != nil {
		return errors.New("temMALFORMED: invalid Destination")
	}
	if m.Amount == 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

func (m *MintIssue) mintKey() sle.Hash256 {
	h, _ := sle.ParseHash256(m.Mint)
	return h
}

func (m *MintIssue) destination() sle.AccountID {
	id, _ := sle.ParseAccountID(m.Destination)
	return id
}

func (m *MintIssue) Accesses() []tx.KeyAccess {
	mint := m.mintKey()
	return []tx.KeyAccess{
		tx.Write(keylet.FromKey(entry.TypeMint, mint)),
		tx.Write(keylet.TokenLine(m.destination(), mint)),
	}
}

func (m *MintIssue) Apply(ctx *tx.ApplyContext) tx.Result {
	k := keylet.FromKey(entry.TypeMint, m.mintKey())
	mint, err := sle.ReadMint(ctx.View, k)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if mint == nil {
		return tx.TecNO_ENTRY
	}
	if mint.Issuer != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}
	if mint.Supply+m.Amount < mint.Supply {
		return tx.TecINVARIANT_FAILED
	}
	mint.Supply += m.Amount

	data, err := sle.SerializeMint(mint)
	if r := ctx.Update(k, data, err); r != tx.TesSUCCESS {
		return r
	}
	return ctx.CreditToken(m.destination(), m.mintKey(), m.Amount)
}
