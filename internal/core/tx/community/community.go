// Package community implements CommunityCreate, which registers a
// community and makes its creator the community authority.
package community

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// MaxNameLength is the longest community name in bytes.
const MaxNameLength = 32

func init() {
	tx.Register(tx.TypeCommunityCreate, func() tx.Transaction {
		return &CommunityCreate{BaseTx: *tx.NewBaseTx(tx.TypeCommunityCreate, "")}
	})
}

// CommunityCreate registers a community under Seed.
type CommunityCreate struct {
	tx.BaseTx

	// Seed is a caller-chosen 256-bit hex value naming the community slot
	Seed string `json:"Seed"`

	Name string `json:"Name"`

	// OpenEvents lets accounts other than the authority create events
	OpenEvents bool `json:"OpenEvents,omitempty"`
}

// NewCommunityCreate creates a new CommunityCreate transaction
func NewCommunityCreate(account, seed, name string) *CommunityCreate {
	return &CommunityCreate{
		BaseTx: *tx.NewBaseTx(tx.TypeCommunityCreate, account),
		Seed:   seed,
		Name:   name,
	}
}

func (c *CommunityCreate) TxType() tx.Type {
	return tx.TypeCommunityCreate
}

func (c *CommunityCreate) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(c.Seed); err != nil {
		return errors.New("temMALFORMED: invalid Seed")
	}
	if c.Name == "" {
		return errors.New("temMALFORMED: Name is required")
	}
	if len(c.Name) > MaxNameLength {
		return fmt.Errorf("temMALFORMED: Name longer than %d bytes", MaxNameLength)
	}
	return nil
}

// Keylet is the address of the community this transaction creates.
func (c *CommunityCreate) Keylet() keylet.Keylet {
	seed, _ := sle.ParseHash256(c.Seed)
	return keylet.Community(seed)
}

func (c *CommunityCreate) Accesses() []tx.KeyAccess {
	return []tx.KeyAccess{tx.Write(c.Keylet())}
}

func (c *CommunityCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	seed, _ := sle.ParseHash256(c.Seed)
	data, err := sle.SerializeCommunity(&sle.Community{
		Seed:       seed,
		Name:       c.Name,
		Authority:  ctx.AccountID,
		OpenEvents: c.OpenEvents,
	})
	if r := ctx.Insert(c.Keylet(), data, err); r != tx.TesSUCCESS {
		return r
	}
	ctx.Account.OwnerCount++
	return tx.TesSUCCESS
}
